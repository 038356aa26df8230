package core

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

const divisionColumns = `d.id, d.name, d.description, d.weight,
    (SELECT COUNT(1) FROM employees e WHERE e.division_id = d.id),
    d.created_at, d.updated_at`

func scanDivision(row pgx.Row) (Division, error) {
	var d Division
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Weight, &d.EmployeeCount, &d.CreatedAt, &d.UpdatedAt)
	return d, translateWriteError(err)
}

func (s *Store) ListDivisions(ctx context.Context, filter NameFilter) ([]Division, int, error) {
	where, args := nameSearch(" WHERE 1=1", filter.Search, nil)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM divisions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := appendPage("SELECT "+divisionColumns+" FROM divisions d"+where+" ORDER BY d.name", args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Division{}
	for rows.Next() {
		d, err := scanDivision(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (s *Store) GetDivision(ctx context.Context, id string) (Division, error) {
	return scanDivision(s.DB.QueryRow(ctx, "SELECT "+divisionColumns+" FROM divisions d WHERE d.id = $1", id))
}

func (s *Store) DivisionIDByName(ctx context.Context, name string) (string, error) {
	return s.lookupID(ctx, "SELECT id FROM divisions WHERE lower(name) = lower($1)", strings.TrimSpace(name))
}

func (s *Store) CreateDivision(ctx context.Context, input DivisionInput) (Division, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO divisions (name, description, weight)
    VALUES ($1,$2,$3)
    RETURNING id
  `, input.Name, nullIfEmpty(input.Description), input.Weight).Scan(&id)
	if err != nil {
		return Division{}, translateWriteError(err)
	}
	return s.GetDivision(ctx, id)
}

func (s *Store) UpdateDivision(ctx context.Context, id string, input DivisionInput) (Division, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE divisions
    SET name = $1, description = $2, weight = $3, updated_at = now()
    WHERE id = $4
  `, input.Name, nullIfEmpty(input.Description), input.Weight, id)
	if err != nil {
		return Division{}, translateWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Division{}, ErrNotFound
	}
	return s.GetDivision(ctx, id)
}

func (s *Store) DeleteDivision(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "DELETE FROM divisions WHERE id = $1", id)
}

const positionColumns = `p.id, p.name, p.description,
    (SELECT COUNT(1) FROM employees e WHERE e.position_id = p.id),
    p.created_at, p.updated_at`

func scanPosition(row pgx.Row) (Position, error) {
	var p Position
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.EmployeeCount, &p.CreatedAt, &p.UpdatedAt)
	return p, translateWriteError(err)
}

func (s *Store) ListPositions(ctx context.Context, filter NameFilter) ([]Position, int, error) {
	where, args := nameSearch(" WHERE 1=1", filter.Search, nil)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM positions"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := appendPage("SELECT "+positionColumns+" FROM positions p"+where+" ORDER BY p.name", args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (s *Store) GetPosition(ctx context.Context, id string) (Position, error) {
	return scanPosition(s.DB.QueryRow(ctx, "SELECT "+positionColumns+" FROM positions p WHERE p.id = $1", id))
}

func (s *Store) PositionIDByName(ctx context.Context, name string) (string, error) {
	return s.lookupID(ctx, "SELECT id FROM positions WHERE lower(name) = lower($1)", strings.TrimSpace(name))
}

func (s *Store) CreatePosition(ctx context.Context, input PositionInput) (Position, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO positions (name, description)
    VALUES ($1,$2)
    RETURNING id
  `, input.Name, nullIfEmpty(input.Description)).Scan(&id)
	if err != nil {
		return Position{}, translateWriteError(err)
	}
	return s.GetPosition(ctx, id)
}

func (s *Store) UpdatePosition(ctx context.Context, id string, input PositionInput) (Position, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE positions
    SET name = $1, description = $2, updated_at = now()
    WHERE id = $3
  `, input.Name, nullIfEmpty(input.Description), id)
	if err != nil {
		return Position{}, translateWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Position{}, ErrNotFound
	}
	return s.GetPosition(ctx, id)
}

func (s *Store) DeletePosition(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "DELETE FROM positions WHERE id = $1", id)
}
