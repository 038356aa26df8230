package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrkpi/internal/platform/db"
	"hrkpi/internal/platform/querier"
)

type Store struct {
	DB querier.DB
}

func NewStore(db querier.DB) *Store {
	return &Store{DB: db}
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if constraint, ok := db.UniqueViolation(err); ok {
		return &ConstraintError{Err: ErrDuplicate, Constraint: constraint}
	}
	if constraint, ok := db.ForeignKeyViolation(err); ok {
		return &ConstraintError{Err: ErrInvalidRef, Constraint: constraint}
	}
	return err
}

// translateDeleteError maps a restricting foreign key to ErrHasDependents.
func translateDeleteError(err error) error {
	if constraint, ok := db.ForeignKeyViolation(err); ok {
		return &ConstraintError{Err: ErrHasDependents, Constraint: constraint}
	}
	return err
}

func nameSearch(base string, search string, args []any) (string, []any) {
	if search == "" {
		return base, args
	}
	args = append(args, "%"+search+"%")
	return base + fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)), args
}

func appendPage(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return query, append(args, limit, offset)
}

func (s *Store) lookupID(ctx context.Context, query string, arg any) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, query, arg).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *Store) deleteByID(ctx context.Context, query, id string) error {
	tag, err := s.DB.Exec(ctx, query, id)
	if err != nil {
		return translateDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
