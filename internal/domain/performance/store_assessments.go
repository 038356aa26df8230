package performance

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const assessmentSelect = `
  SELECT ek.id, ek.employee_id, ek.kpi_id, ek.weight, ek.target, ek.actual,
         ek.score, ek.achievement, ek.period, ek.created_by, ek.updated_by,
         ek.created_at, ek.updated_at,
         e.employee_number, u.id, u.name,
         d.id, d.name, p.id, p.name, k.name
  FROM employee_kpis ek
  JOIN employees e ON e.id = ek.employee_id
  JOIN kpis k ON k.id = ek.kpi_id
  LEFT JOIN users u ON u.employee_id = e.id
  LEFT JOIN divisions d ON d.id = e.division_id
  LEFT JOIN positions p ON p.id = e.position_id`

const assessmentOrder = " ORDER BY ek.period DESC, ek.created_at DESC, ek.id"

func scanAssessment(row pgx.Row) (Assessment, error) {
	var a Assessment
	var divisionID, divisionName, positionID, positionName *string
	err := row.Scan(&a.ID, &a.EmployeeID, &a.KPIID, &a.Weight, &a.Target, &a.Actual,
		&a.Score, &a.Achievement, &a.Period, &a.CreatedBy, &a.UpdatedBy,
		&a.CreatedAt, &a.UpdatedAt,
		&a.Employee.EmployeeNumber, &a.Employee.UserID, &a.Employee.Name,
		&divisionID, &divisionName, &positionID, &positionName, &a.KPI.Name)
	if err != nil {
		return Assessment{}, translateError(err)
	}
	a.Period = a.Period.UTC()
	a.Employee.ID = a.EmployeeID
	a.KPI.ID = a.KPIID
	if divisionID != nil && divisionName != nil {
		a.Employee.Division = &Ref{ID: *divisionID, Name: *divisionName}
	}
	if positionID != nil && positionName != nil {
		a.Employee.Position = &Ref{ID: *positionID, Name: *positionName}
	}
	return a, nil
}

func (s *Store) EmployeeExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (s *Store) FindByUniqueKey(ctx context.Context, employeeID, kpiID string, period time.Time) (Assessment, error) {
	return scanAssessment(s.DB.QueryRow(ctx,
		assessmentSelect+" WHERE ek.employee_id = $1 AND ek.kpi_id = $2 AND ek.period = $3",
		employeeID, kpiID, period))
}

func (s *Store) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	return scanAssessment(s.DB.QueryRow(ctx, assessmentSelect+" WHERE ek.id = $1", id))
}

func (s *Store) InsertAssessment(ctx context.Context, record AssessmentRecord) (Assessment, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_kpis (employee_id, kpi_id, weight, target, actual, score, achievement, period, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, record.EmployeeID, record.KPIID, record.Weight, record.Target, record.Actual,
		record.Score, record.Achievement, record.Period, nullIfEmpty(&record.ActorID)).Scan(&id); err != nil {
		return Assessment{}, translateError(err)
	}
	return s.GetAssessment(ctx, id)
}

func (s *Store) UpdateAssessment(ctx context.Context, id string, record AssessmentRecord) (Assessment, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employee_kpis
    SET weight = $1, target = $2, actual = $3, score = $4, achievement = $5,
        updated_by = $6, updated_at = now()
    WHERE id = $7
  `, record.Weight, record.Target, record.Actual, record.Score, record.Achievement,
		nullIfEmpty(&record.ActorID), id)
	if err != nil {
		return Assessment{}, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return Assessment{}, ErrNotFound
	}
	return s.GetAssessment(ctx, id)
}

func (s *Store) DeleteAssessment(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employee_kpis WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) QueryAssessments(ctx context.Context, filter AssessmentFilter) ([]Assessment, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	where, args := filter.where(nil)
	query, args := appendPage(assessmentSelect+where+assessmentOrder, args, filter.Limit, filter.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (s *Store) CountAssessments(ctx context.Context, filter AssessmentFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	where, args := filter.where(nil)
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employee_kpis ek
    JOIN employees e ON e.id = ek.employee_id`+where, args...).Scan(&total)
	return total, err
}

func (s *Store) ReminderTargets(ctx context.Context, period time.Time) ([]ReminderTarget, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, u.id
    FROM employees e
    JOIN users u ON u.employee_id = e.id
    WHERE NOT EXISTS (
      SELECT 1 FROM employee_kpis ek
      WHERE ek.employee_id = e.id AND ek.period = $1
    )
    ORDER BY e.created_at
  `, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []ReminderTarget
	for rows.Next() {
		var target ReminderTarget
		if err := rows.Scan(&target.EmployeeID, &target.UserID); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}
