package auth

import (
	"context"
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

const userColumns = "id, name, email, role, verified, employee_id, created_at, updated_at"

func scanUser(row pgx.Row, extra ...any) (User, error) {
	var u User
	dest := append([]any{&u.ID, &u.Name, &u.Email, &u.Role, &u.Verified, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash, role string) (User, error) {
	user, err := scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role)
    VALUES ($1,$2,$3,$4)
    RETURNING `+userColumns, name, strings.ToLower(email), passwordHash, role))
	if _, ok := db.UniqueViolation(err); ok {
		return User{}, ErrEmailTaken
	}
	return user, err
}

func (s *Store) FindCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	var creds Credentials
	user, err := scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+", password_hash FROM users WHERE email = $1", strings.ToLower(email)), &creds.PasswordHash)
	if err != nil {
		return Credentials{}, err
	}
	creds.User = user
	return creds, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

func (s *Store) UserRole(ctx context.Context, id string) (string, error) {
	var role string
	err := s.DB.QueryRow(ctx, "SELECT role FROM users WHERE id = $1", id).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return role, err
}

func (s *Store) UpdateRole(ctx context.Context, id, role string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    UPDATE users SET role = $1, updated_at = now()
    WHERE id = $2
    RETURNING `+userColumns, role, id))
}

func (s *Store) ListUsers(ctx context.Context, filter UserFilter) ([]User, int, error) {
	where := " WHERE 1=1"
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY name, email"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, user)
	}
	return out, total, rows.Err()
}
