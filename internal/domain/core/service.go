package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hrkpi/internal/domain/apperror"
)

type Notifier interface {
	EmployeeCreated(ctx context.Context, employeeLabel string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type Service struct {
	store    StoreAPI
	Notifier Notifier
	Audit    AuditRecorder
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

const minNameLength = 2

func validateName(name string, fields map[string][]string) string {
	name = strings.TrimSpace(name)
	if len(name) < minNameLength {
		fields["name"] = append(fields["name"], "Name must be at least 2 characters")
	}
	return name
}

func internal(err error) error {
	return apperror.Internal(err)
}

func (s *Service) audit(ctx context.Context, actorID, action, entityType, entityID string, before, after any) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actorID, action, entityType, entityID, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

// ensureUniqueName runs the pre-check; the unique index stays authoritative.
func ensureUniqueName(ctx context.Context, lookup func(context.Context, string) (string, error), name, selfID, message string) error {
	existingID, err := lookup(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return internal(err)
	}
	if existingID != selfID {
		return apperror.ConflictField("duplicate_name", "name", message)
	}
	return nil
}

func (s *Service) ListDivisions(ctx context.Context, filter NameFilter) ([]Division, int, error) {
	items, total, err := s.store.ListDivisions(ctx, filter)
	if err != nil {
		return nil, 0, internal(err)
	}
	return items, total, nil
}

func (s *Service) GetDivision(ctx context.Context, id string) (Division, error) {
	division, err := s.store.GetDivision(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Division{}, apperror.NotFound("division_not_found", "Division not found")
		}
		return Division{}, internal(err)
	}
	return division, nil
}

func validateDivision(input DivisionInput) (DivisionInput, error) {
	fields := map[string][]string{}
	input.Name = validateName(input.Name, fields)
	if input.Weight != nil && *input.Weight < 0 {
		fields["weight"] = append(fields["weight"], "Weight must be a positive number")
	}
	if len(fields) > 0 {
		return input, apperror.Validation(fields)
	}
	return input, nil
}

func (s *Service) CreateDivision(ctx context.Context, input DivisionInput) (Division, error) {
	input, err := validateDivision(input)
	if err != nil {
		return Division{}, err
	}
	if err := ensureUniqueName(ctx, s.store.DivisionIDByName, input.Name, "", "Division name already exists"); err != nil {
		return Division{}, err
	}
	division, err := s.store.CreateDivision(ctx, input)
	if err != nil {
		return Division{}, s.orgWriteError(err, "Division name already exists")
	}
	return division, nil
}

func (s *Service) UpdateDivision(ctx context.Context, id string, patch DivisionPatch) (Division, error) {
	current, err := s.GetDivision(ctx, id)
	if err != nil {
		return Division{}, err
	}
	input := DivisionInput{Name: current.Name, Description: current.Description, Weight: current.Weight}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Description != nil {
		input.Description = patch.Description
	}
	if patch.Weight != nil {
		input.Weight = patch.Weight
	}

	input, err = validateDivision(input)
	if err != nil {
		return Division{}, err
	}
	if err := ensureUniqueName(ctx, s.store.DivisionIDByName, input.Name, id, "Division name already exists"); err != nil {
		return Division{}, err
	}
	division, err := s.store.UpdateDivision(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Division{}, apperror.NotFound("division_not_found", "Division not found")
		}
		return Division{}, s.orgWriteError(err, "Division name already exists")
	}
	return division, nil
}

func (s *Service) DeleteDivision(ctx context.Context, id string) error {
	division, err := s.GetDivision(ctx, id)
	if err != nil {
		return err
	}
	if division.EmployeeCount > 0 {
		return apperror.Conflict("division_has_employees", "Cannot delete division with existing employees")
	}
	if err := s.store.DeleteDivision(ctx, id); err != nil {
		return s.deleteError(err, "division_not_found", "Division not found", "division_has_employees", "Cannot delete division with existing employees")
	}
	return nil
}

func (s *Service) ListPositions(ctx context.Context, filter NameFilter) ([]Position, int, error) {
	items, total, err := s.store.ListPositions(ctx, filter)
	if err != nil {
		return nil, 0, internal(err)
	}
	return items, total, nil
}

func (s *Service) GetPosition(ctx context.Context, id string) (Position, error) {
	position, err := s.store.GetPosition(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Position{}, apperror.NotFound("position_not_found", "Position not found")
		}
		return Position{}, internal(err)
	}
	return position, nil
}

func (s *Service) CreatePosition(ctx context.Context, input PositionInput) (Position, error) {
	fields := map[string][]string{}
	input.Name = validateName(input.Name, fields)
	if len(fields) > 0 {
		return Position{}, apperror.Validation(fields)
	}
	if err := ensureUniqueName(ctx, s.store.PositionIDByName, input.Name, "", "Position name already exists"); err != nil {
		return Position{}, err
	}
	position, err := s.store.CreatePosition(ctx, input)
	if err != nil {
		return Position{}, s.orgWriteError(err, "Position name already exists")
	}
	return position, nil
}

func (s *Service) UpdatePosition(ctx context.Context, id string, patch PositionPatch) (Position, error) {
	current, err := s.GetPosition(ctx, id)
	if err != nil {
		return Position{}, err
	}
	input := PositionInput{Name: current.Name, Description: current.Description}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Description != nil {
		input.Description = patch.Description
	}

	fields := map[string][]string{}
	input.Name = validateName(input.Name, fields)
	if len(fields) > 0 {
		return Position{}, apperror.Validation(fields)
	}
	if err := ensureUniqueName(ctx, s.store.PositionIDByName, input.Name, id, "Position name already exists"); err != nil {
		return Position{}, err
	}
	position, err := s.store.UpdatePosition(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Position{}, apperror.NotFound("position_not_found", "Position not found")
		}
		return Position{}, s.orgWriteError(err, "Position name already exists")
	}
	return position, nil
}

func (s *Service) DeletePosition(ctx context.Context, id string) error {
	position, err := s.GetPosition(ctx, id)
	if err != nil {
		return err
	}
	if position.EmployeeCount > 0 {
		return apperror.Conflict("position_has_employees", "Cannot delete position with existing employees")
	}
	if err := s.store.DeletePosition(ctx, id); err != nil {
		return s.deleteError(err, "position_not_found", "Position not found", "position_has_employees", "Cannot delete position with existing employees")
	}
	return nil
}

func (s *Service) orgWriteError(err error, duplicateMessage string) error {
	if errors.Is(err, ErrDuplicate) {
		return apperror.ConflictField("duplicate_name", "name", duplicateMessage)
	}
	return internal(err)
}

func (s *Service) deleteError(err error, notFoundCode, notFoundMessage, dependentCode, dependentMessage string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperror.NotFound(notFoundCode, notFoundMessage)
	case errors.Is(err, ErrHasDependents):
		return apperror.Conflict(dependentCode, dependentMessage)
	default:
		return internal(err)
	}
}
