package performance

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"hrkpi/internal/domain/apperror"
)

type Notifier interface {
	KPIAssessed(ctx context.Context, employeeID, kpiName string, score float64) error
	KPIReminder(ctx context.Context, userIDs []string, periodLabel string) (int, error)
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

func (s *Service) audit(ctx context.Context, actorID, action, entityID string, before, after any) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actorID, action, "assessment", entityID, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

func kpiNotFound() error {
	return apperror.NotFound("kpi_not_found", msgKPINotFound)
}

func (s *Service) ListKPIs(ctx context.Context, filter KPIFilter) ([]KPI, int, error) {
	items, total, err := s.store.ListKPIs(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return items, total, nil
}

func (s *Service) GetKPI(ctx context.Context, id string) (KPI, error) {
	kpi, err := s.store.GetKPI(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return KPI{}, kpiNotFound()
		}
		return KPI{}, apperror.Internal(err)
	}
	return kpi, nil
}

func validateKPI(input KPIInput) (KPIInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if len(input.Name) < minNameLength {
		return input, apperror.FieldInvalid("name", "Name must be at least 2 characters")
	}
	return input, nil
}

func (s *Service) ensureUniqueKPIName(ctx context.Context, name, selfID string) error {
	existingID, err := s.store.KPIIDByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperror.Internal(err)
	}
	if existingID != selfID {
		return apperror.ConflictField("duplicate_name", "name", msgKPINameTaken)
	}
	return nil
}

func kpiWriteError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return kpiNotFound()
	case errors.Is(err, ErrDuplicate):
		return apperror.ConflictField("duplicate_name", "name", msgKPINameTaken)
	default:
		return apperror.Internal(err)
	}
}

func (s *Service) CreateKPI(ctx context.Context, input KPIInput) (KPI, error) {
	input, err := validateKPI(input)
	if err != nil {
		return KPI{}, err
	}
	if err := s.ensureUniqueKPIName(ctx, input.Name, ""); err != nil {
		return KPI{}, err
	}
	kpi, err := s.store.CreateKPI(ctx, input)
	if err != nil {
		return KPI{}, kpiWriteError(err)
	}
	return kpi, nil
}

func (s *Service) UpdateKPI(ctx context.Context, id string, patch KPIPatch) (KPI, error) {
	current, err := s.GetKPI(ctx, id)
	if err != nil {
		return KPI{}, err
	}
	input := KPIInput{Name: current.Name, Description: current.Description}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Description != nil {
		input.Description = patch.Description
	}
	input, err = validateKPI(input)
	if err != nil {
		return KPI{}, err
	}
	if err := s.ensureUniqueKPIName(ctx, input.Name, id); err != nil {
		return KPI{}, err
	}
	kpi, err := s.store.UpdateKPI(ctx, id, input)
	if err != nil {
		return KPI{}, kpiWriteError(err)
	}
	return kpi, nil
}

func (s *Service) DeleteKPI(ctx context.Context, id string) error {
	kpi, err := s.GetKPI(ctx, id)
	if err != nil {
		return err
	}
	hasAssessments := apperror.Conflict("kpi_has_assessments", "Cannot delete KPI with existing assessments")
	if kpi.AssessmentCount > 0 {
		return hasAssessments
	}
	if err := s.store.DeleteKPI(ctx, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return kpiNotFound()
		case errors.Is(err, ErrHasDependents):
			return hasAssessments
		default:
			return apperror.Internal(err)
		}
	}
	return nil
}
