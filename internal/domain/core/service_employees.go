package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hrkpi/internal/domain/apperror"
)

const (
	msgEmployeeNotFound      = "Employee not found"
	msgEmployeeNumberTaken   = "Employee number already exists"
	msgUserAlreadyLinked     = "User is already linked to another employee"
	msgEmployeeAlreadyLinked = "Employee is already linked to a user"
)

func employeeNotFound() error {
	return apperror.NotFound("employee_not_found", msgEmployeeNotFound)
}

// constraintField names the request field behind a database constraint.
func constraintField(constraint string) string {
	switch {
	case strings.Contains(constraint, "division"):
		return "divisionId"
	case strings.Contains(constraint, "position"):
		return "positionId"
	case strings.Contains(constraint, "employee_number"):
		return "employeeNumber"
	case strings.HasPrefix(constraint, "users_"):
		return "userId"
	default:
		return apperror.FieldMessage
	}
}

func (s *Service) employeeWriteError(err error) error {
	var constraintErr *ConstraintError
	switch {
	case errors.Is(err, ErrNotFound):
		return employeeNotFound()
	case errors.Is(err, ErrAlreadyLinked):
		return apperror.FieldInvalid("userId", msgUserAlreadyLinked)
	case errors.As(err, &constraintErr) && errors.Is(err, ErrDuplicate):
		field := constraintField(constraintErr.Constraint)
		if field == "userId" {
			return apperror.FieldInvalid("userId", msgUserAlreadyLinked)
		}
		return apperror.ConflictField("duplicate_employee_number", "employeeNumber", msgEmployeeNumberTaken)
	case errors.As(err, &constraintErr) && errors.Is(err, ErrInvalidRef):
		field := constraintField(constraintErr.Constraint)
		return apperror.FieldInvalid(field, refNotFoundMessage(field))
	default:
		return internal(err)
	}
}

func refNotFoundMessage(field string) string {
	switch field {
	case "divisionId":
		return "Division not found"
	case "positionId":
		return "Position not found"
	case "userId":
		return "User not found"
	default:
		return "Referenced record not found"
	}
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func isSet(value *string) bool {
	return value != nil && *value != ""
}

// checkEmployeeRefs runs the referential pre-checks for an employee write and
// collects every failure before returning.
func (s *Service) checkEmployeeRefs(ctx context.Context, selfID string, input EmployeeInput, fields map[string][]string) error {
	if isSet(input.EmployeeNumber) {
		existingID, err := s.store.EmployeeIDByNumber(ctx, *input.EmployeeNumber)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return internal(err)
		}
		if err == nil && existingID != selfID {
			return apperror.ConflictField("duplicate_employee_number", "employeeNumber", msgEmployeeNumberTaken)
		}
	}
	if isSet(input.DivisionID) {
		if _, err := s.store.GetDivision(ctx, *input.DivisionID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return internal(err)
			}
			fields["divisionId"] = append(fields["divisionId"], "Division not found")
		}
	}
	if isSet(input.PositionID) {
		if _, err := s.store.GetPosition(ctx, *input.PositionID); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return internal(err)
			}
			fields["positionId"] = append(fields["positionId"], "Position not found")
		}
	}
	if isSet(input.UserID) {
		link, err := s.store.GetUserLink(ctx, *input.UserID)
		switch {
		case errors.Is(err, ErrNotFound):
			fields["userId"] = append(fields["userId"], "User not found")
		case err != nil:
			return internal(err)
		case link.EmployeeID != nil:
			fields["userId"] = append(fields["userId"], msgUserAlreadyLinked)
		}
	}
	return nil
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	items, total, err := s.store.ListEmployees(ctx, filter)
	if err != nil {
		return nil, 0, internal(err)
	}
	return items, total, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Employee{}, employeeNotFound()
		}
		return Employee{}, internal(err)
	}
	return emp, nil
}

func (s *Service) CreateEmployee(ctx context.Context, actorID string, input EmployeeInput) (Employee, error) {
	input.EmployeeNumber = trimOptional(input.EmployeeNumber)
	input.PNOSNumber = trimOptional(input.PNOSNumber)

	fields := map[string][]string{}
	if err := s.checkEmployeeRefs(ctx, "", input, fields); err != nil {
		return Employee{}, err
	}
	if len(fields) > 0 {
		return Employee{}, apperror.Validation(fields)
	}

	emp, err := s.store.CreateEmployee(ctx, input)
	if err != nil {
		return Employee{}, s.employeeWriteError(err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.EmployeeCreated(ctx, emp.Label()); err != nil {
			slog.Warn("employee created notification failed", "employeeId", emp.ID, "err", err)
		}
	}
	s.audit(ctx, actorID, "employee.create", "employee", emp.ID, nil, emp)
	return emp, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, actorID, id string, patch EmployeePatch) (Employee, error) {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, err
	}

	input := EmployeeInput{
		EmployeeNumber: current.EmployeeNumber,
		PNOSNumber:     current.PNOSNumber,
		DateJoined:     current.DateJoined,
		DivisionID:     current.DivisionID,
		PositionID:     current.PositionID,
	}
	check := EmployeeInput{}
	if patch.EmployeeNumber != nil {
		input.EmployeeNumber = trimOptional(patch.EmployeeNumber)
		check.EmployeeNumber = input.EmployeeNumber
	}
	if patch.PNOSNumber != nil {
		input.PNOSNumber = trimOptional(patch.PNOSNumber)
	}
	if patch.DateJoined != nil {
		input.DateJoined = patch.DateJoined
	}
	if patch.DivisionID != nil {
		input.DivisionID = patch.DivisionID
		check.DivisionID = patch.DivisionID
	}
	if patch.PositionID != nil {
		input.PositionID = patch.PositionID
		check.PositionID = patch.PositionID
	}

	fields := map[string][]string{}
	if err := s.checkEmployeeRefs(ctx, id, check, fields); err != nil {
		return Employee{}, err
	}
	if len(fields) > 0 {
		return Employee{}, apperror.Validation(fields)
	}

	updated, err := s.store.UpdateEmployee(ctx, id, input)
	if err != nil {
		return Employee{}, s.employeeWriteError(err)
	}
	s.audit(ctx, actorID, "employee.update", "employee", id, current, updated)
	return updated, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, actorID, id string) error {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.store.EmployeeAssessmentCount(ctx, id)
	if err != nil {
		return internal(err)
	}
	if count > 0 {
		return apperror.Conflict("employee_has_assessments", "Cannot delete employee with existing assessments")
	}
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return s.deleteError(err, "employee_not_found", msgEmployeeNotFound, "employee_has_assessments", "Cannot delete employee with existing assessments")
	}
	s.audit(ctx, actorID, "employee.delete", "employee", id, current, nil)
	return nil
}

func (s *Service) LinkUser(ctx context.Context, actorID, employeeID, userID string) (Employee, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	link, err := s.store.GetUserLink(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Employee{}, apperror.NotFound("user_not_found", "User not found")
		}
		return Employee{}, internal(err)
	}
	if emp.User != nil {
		return Employee{}, apperror.Conflict("employee_already_linked", msgEmployeeAlreadyLinked)
	}
	if link.EmployeeID != nil {
		return Employee{}, apperror.Conflict("user_already_linked", msgUserAlreadyLinked)
	}

	if err := s.store.LinkUser(ctx, employeeID, userID); err != nil {
		if errors.Is(err, ErrAlreadyLinked) {
			return Employee{}, apperror.Conflict("user_already_linked", msgUserAlreadyLinked)
		}
		return Employee{}, internal(err)
	}
	s.audit(ctx, actorID, "employee.link_user", "employee", employeeID, nil, map[string]string{"userId": userID})
	return s.GetEmployee(ctx, employeeID)
}

func (s *Service) UnlinkUser(ctx context.Context, actorID, employeeID string) (Employee, error) {
	emp, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, err
	}
	if emp.User == nil {
		return Employee{}, apperror.Conflict("employee_not_linked", "Employee is not linked to any user")
	}
	if err := s.store.UnlinkUser(ctx, employeeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Employee{}, apperror.Conflict("employee_not_linked", "Employee is not linked to any user")
		}
		return Employee{}, internal(err)
	}
	s.audit(ctx, actorID, "employee.unlink_user", "employee", employeeID, map[string]string{"userId": emp.User.ID}, nil)
	return s.GetEmployee(ctx, employeeID)
}
