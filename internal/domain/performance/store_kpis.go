package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hrkpi/internal/platform/db"
)

const kpiSelect = `
  SELECT k.id, k.name, k.description,
         (SELECT COUNT(1) FROM employee_kpis ek WHERE ek.kpi_id = k.id),
         k.created_at, k.updated_at
  FROM kpis k`

func scanKPI(row pgx.Row) (KPI, error) {
	var kpi KPI
	if err := row.Scan(&kpi.ID, &kpi.Name, &kpi.Description, &kpi.AssessmentCount, &kpi.CreatedAt, &kpi.UpdatedAt); err != nil {
		return KPI{}, translateError(err)
	}
	return kpi, nil
}

func (s *Store) ListKPIs(ctx context.Context, filter KPIFilter) ([]KPI, int, error) {
	where := " WHERE 1=1"
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where += fmt.Sprintf(" AND (k.name ILIKE $%d OR k.description ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM kpis k"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := appendPage(kpiSelect+where+" ORDER BY k.name", args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []KPI
	for rows.Next() {
		kpi, err := scanKPI(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, kpi)
	}
	return items, total, rows.Err()
}

func (s *Store) GetKPI(ctx context.Context, id string) (KPI, error) {
	return scanKPI(s.DB.QueryRow(ctx, kpiSelect+" WHERE k.id = $1", id))
}

func (s *Store) KPIIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM kpis WHERE lower(name) = lower($1)", name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *Store) CreateKPI(ctx context.Context, input KPIInput) (KPI, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO kpis (name, description)
    VALUES ($1,$2)
    RETURNING id
  `, input.Name, nullIfEmpty(input.Description)).Scan(&id); err != nil {
		return KPI{}, translateError(err)
	}
	return s.GetKPI(ctx, id)
}

func (s *Store) UpdateKPI(ctx context.Context, id string, input KPIInput) (KPI, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE kpis
    SET name = $1, description = $2, updated_at = now()
    WHERE id = $3
  `, input.Name, nullIfEmpty(input.Description), id)
	if err != nil {
		return KPI{}, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return KPI{}, ErrNotFound
	}
	return s.GetKPI(ctx, id)
}

func (s *Store) DeleteKPI(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM kpis WHERE id = $1", id)
	if err != nil {
		if _, ok := db.ForeignKeyViolation(err); ok {
			return ErrHasDependents
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
