package reports

import (
	"context"

	"hrkpi/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	if err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees),
           (SELECT COUNT(1) FROM divisions),
           (SELECT COUNT(1) FROM kpis)
  `).Scan(&counts.Employees, &counts.Divisions, &counts.KPIs); err != nil {
		return Counts{}, err
	}
	return counts, nil
}
