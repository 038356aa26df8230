package performance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrkpi/internal/platform/db"
	"hrkpi/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// translateError maps pgx and constraint failures onto package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if constraint, ok := db.UniqueViolation(err); ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, constraint)
	}
	if constraint, ok := db.ForeignKeyViolation(err); ok {
		switch {
		case strings.Contains(constraint, "employee_id"):
			return fmt.Errorf("%w: %s", ErrUnknownEmployee, constraint)
		case strings.Contains(constraint, "kpi_id"):
			return fmt.Errorf("%w: %s", ErrUnknownKPI, constraint)
		}
	}
	return err
}

func appendPage(query string, args []any, limit, offset int) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	return query, append(args, limit, offset)
}

func nullIfEmpty(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
