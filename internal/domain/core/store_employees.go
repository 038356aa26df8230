package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const employeeSelect = `
  SELECT e.id, e.employee_number, e.pnos_number, e.date_joined,
         e.division_id, d.name, e.position_id, p.name,
         u.id, u.name, u.email, u.role,
         e.created_at, e.updated_at
  FROM employees e
  LEFT JOIN divisions d ON d.id = e.division_id
  LEFT JOIN positions p ON p.id = e.position_id
  LEFT JOIN users u ON u.employee_id = e.id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var divisionName, positionName *string
	var userID, userName, userEmail, userRole *string
	err := row.Scan(&emp.ID, &emp.EmployeeNumber, &emp.PNOSNumber, &emp.DateJoined,
		&emp.DivisionID, &divisionName, &emp.PositionID, &positionName,
		&userID, &userName, &userEmail, &userRole,
		&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, translateWriteError(err)
	}
	if emp.DivisionID != nil && divisionName != nil {
		emp.Division = &Ref{ID: *emp.DivisionID, Name: *divisionName}
	}
	if emp.PositionID != nil && positionName != nil {
		emp.Position = &Ref{ID: *emp.PositionID, Name: *positionName}
	}
	if userID != nil {
		emp.User = &LinkedUser{ID: *userID, Name: deref(userName), Email: deref(userEmail), Role: deref(userRole)}
	}
	return emp, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func (s *Store) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	where := " WHERE 1=1"
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		pos := len(args)
		where += fmt.Sprintf(" AND (e.employee_number ILIKE $%d OR e.pnos_number ILIKE $%d OR u.name ILIKE $%d)", pos, pos, pos)
	}
	if filter.DivisionID != "" {
		args = append(args, filter.DivisionID)
		where += fmt.Sprintf(" AND e.division_id = $%d", len(args))
	}
	if filter.PositionID != "" {
		args = append(args, filter.PositionID)
		where += fmt.Sprintf(" AND e.position_id = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(1) FROM employees e LEFT JOIN users u ON u.employee_id = e.id" + where
	if err := s.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args := appendPage(employeeSelect+where+" ORDER BY e.created_at DESC, e.id", args, filter.Limit, filter.Offset)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, employeeSelect+" WHERE e.id = $1", id))
}

func (s *Store) EmployeeIDByNumber(ctx context.Context, number string) (string, error) {
	return s.lookupID(ctx, "SELECT id FROM employees WHERE employee_number = $1", strings.TrimSpace(number))
}

// CreateEmployee inserts the employee and, when requested, links the user in
// the same transaction so a failed link leaves no orphan row.
func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO employees (employee_number, pnos_number, date_joined, division_id, position_id)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, nullIfEmpty(input.EmployeeNumber), nullIfEmpty(input.PNOSNumber), input.DateJoined, nullIfEmpty(input.DivisionID), nullIfEmpty(input.PositionID)).Scan(&id)
	if err != nil {
		return Employee{}, translateWriteError(err)
	}

	if input.UserID != nil && *input.UserID != "" {
		tag, err := tx.Exec(ctx, `
      UPDATE users SET employee_id = $1, updated_at = now()
      WHERE id = $2 AND employee_id IS NULL
    `, id, *input.UserID)
		if err != nil {
			return Employee{}, translateWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return Employee{}, ErrAlreadyLinked
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Employee{}, err
	}
	return s.GetEmployee(ctx, id)
}

func (s *Store) UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (Employee, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET employee_number = $1, pnos_number = $2, date_joined = $3, division_id = $4, position_id = $5, updated_at = now()
    WHERE id = $6
  `, nullIfEmpty(input.EmployeeNumber), nullIfEmpty(input.PNOSNumber), input.DateJoined, nullIfEmpty(input.DivisionID), nullIfEmpty(input.PositionID), id)
	if err != nil {
		return Employee{}, translateWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, ErrNotFound
	}
	return s.GetEmployee(ctx, id)
}

// DeleteEmployee unlinks the user and removes the employee atomically.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE users SET employee_id = NULL, updated_at = now() WHERE employee_id = $1", id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return translateDeleteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) EmployeeAssessmentCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee_kpis WHERE employee_id = $1", id).Scan(&count)
	return count, err
}

func (s *Store) GetUserLink(ctx context.Context, userID string) (UserLink, error) {
	var link UserLink
	err := s.DB.QueryRow(ctx, "SELECT id, name, employee_id FROM users WHERE id = $1", userID).Scan(&link.ID, &link.Name, &link.EmployeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserLink{}, ErrNotFound
	}
	return link, err
}

func (s *Store) LinkUser(ctx context.Context, employeeID, userID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET employee_id = $1, updated_at = now()
    WHERE id = $2 AND employee_id IS NULL
  `, employeeID, userID)
	if err != nil {
		if errors.Is(translateWriteError(err), ErrDuplicate) {
			return ErrAlreadyLinked
		}
		return translateWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyLinked
	}
	return nil
}

func (s *Store) UnlinkUser(ctx context.Context, employeeID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET employee_id = NULL, updated_at = now() WHERE employee_id = $1", employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
