package performance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hrkpi/internal/domain/apperror"
)

func assessmentNotFound() error {
	return apperror.NotFound("assessment_not_found", msgAssessmentNotFound)
}

func duplicateAssessment() error {
	return apperror.ConflictField("duplicate_assessment", "assessment", msgAssessmentExists)
}

// validateMeasures checks the range rules shared by create and update.
func validateMeasures(weight, target, actual *float64, fields map[string][]string) {
	if weight == nil || *weight <= 0 || *weight > maxWeight {
		fields["weight"] = append(fields["weight"], msgWeightRange)
	}
	if target == nil || *target <= 0 {
		fields["target"] = append(fields["target"], msgTargetPositive)
	}
	if actual == nil || *actual < 0 {
		fields["actual"] = append(fields["actual"], msgActualNonNegative)
	}
}

func computeRecord(base AssessmentRecord) AssessmentRecord {
	base.Score = ComputeScore(base.Target, base.Actual)
	base.Achievement = ComputeAchievement(base.Weight, base.Score)
	return base
}

func assessmentWriteError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return assessmentNotFound()
	case errors.Is(err, ErrDuplicate):
		return duplicateAssessment()
	case errors.Is(err, ErrUnknownEmployee):
		return apperror.FieldInvalid("employeeId", msgEmployeeNotFound)
	case errors.Is(err, ErrUnknownKPI):
		return apperror.FieldInvalid("kpiId", msgKPINotFound)
	default:
		return apperror.Internal(err)
	}
}

func filterError(err error) error {
	if errors.Is(err, ErrInvalidFilter) {
		return apperror.FieldInvalid(apperror.FieldMessage, err.Error())
	}
	return apperror.Internal(err)
}

// ListAssessments returns one page and the total matching the filter.
func (s *Service) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]Assessment, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, filterError(err)
	}
	items, err := s.store.QueryAssessments(ctx, filter)
	if err != nil {
		return nil, 0, filterError(err)
	}
	total, err := s.store.CountAssessments(ctx, filter)
	if err != nil {
		return nil, 0, filterError(err)
	}
	return items, total, nil
}

// Query returns every assessment matching filter, ignoring pagination.
func (s *Service) Query(ctx context.Context, filter AssessmentFilter) ([]Assessment, error) {
	filter.Limit, filter.Offset = 0, 0
	if err := filter.Validate(); err != nil {
		return nil, filterError(err)
	}
	items, err := s.store.QueryAssessments(ctx, filter)
	if err != nil {
		return nil, filterError(err)
	}
	return items, nil
}

func (s *Service) Count(ctx context.Context, filter AssessmentFilter) (int, error) {
	total, err := s.store.CountAssessments(ctx, filter)
	if err != nil {
		return 0, filterError(err)
	}
	return total, nil
}

func (s *Service) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	a, err := s.store.GetAssessment(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Assessment{}, assessmentNotFound()
		}
		return Assessment{}, apperror.Internal(err)
	}
	return a, nil
}

func (s *Service) CreateAssessment(ctx context.Context, actorID string, input AssessmentInput) (Assessment, error) {
	fields := map[string][]string{}
	if input.EmployeeID == "" {
		fields["employeeId"] = append(fields["employeeId"], "Employee ID is required")
	}
	if input.KPIID == "" {
		fields["kpiId"] = append(fields["kpiId"], "KPI ID is required")
	}
	validateMeasures(input.Weight, input.Target, input.Actual, fields)

	var period time.Time
	if input.Period == "" {
		fields["period"] = append(fields["period"], msgPeriodRequired)
	} else if parsed, ok := ParsePeriod(input.Period); ok {
		period = parsed
	} else {
		fields["period"] = append(fields["period"], msgPeriodInvalid)
	}

	var kpiName string
	if input.EmployeeID != "" {
		exists, err := s.store.EmployeeExists(ctx, input.EmployeeID)
		if err != nil {
			return Assessment{}, apperror.Internal(err)
		}
		if !exists {
			fields["employeeId"] = append(fields["employeeId"], msgEmployeeNotFound)
		}
	}
	if input.KPIID != "" {
		kpi, err := s.store.GetKPI(ctx, input.KPIID)
		switch {
		case errors.Is(err, ErrNotFound):
			fields["kpiId"] = append(fields["kpiId"], msgKPINotFound)
		case err != nil:
			return Assessment{}, apperror.Internal(err)
		default:
			kpiName = kpi.Name
		}
	}
	if len(fields) > 0 {
		return Assessment{}, apperror.Validation(fields)
	}

	if _, err := s.store.FindByUniqueKey(ctx, input.EmployeeID, input.KPIID, period); err == nil {
		return Assessment{}, duplicateAssessment()
	} else if !errors.Is(err, ErrNotFound) {
		return Assessment{}, apperror.Internal(err)
	}

	record := computeRecord(AssessmentRecord{
		EmployeeID: input.EmployeeID,
		KPIID:      input.KPIID,
		Weight:     *input.Weight,
		Target:     *input.Target,
		Actual:     *input.Actual,
		Period:     period,
		ActorID:    actorID,
	})
	created, err := s.store.InsertAssessment(ctx, record)
	if err != nil {
		return Assessment{}, assessmentWriteError(err)
	}

	if s.Notifier != nil {
		if err := s.Notifier.KPIAssessed(ctx, created.EmployeeID, kpiName, Round2(created.Score)); err != nil {
			slog.Warn("assessment notification failed", "assessmentId", created.ID, "err", err)
		}
	}
	s.audit(ctx, actorID, "assessment.create", created.ID, nil, created)
	return created, nil
}

// UpdateAssessment merges patch over the stored values and recomputes every
// derived field.
func (s *Service) UpdateAssessment(ctx context.Context, actorID, id string, patch AssessmentPatch) (Assessment, error) {
	current, err := s.GetAssessment(ctx, id)
	if err != nil {
		return Assessment{}, err
	}

	weight, target, actual := current.Weight, current.Target, current.Actual
	if patch.Weight != nil {
		weight = *patch.Weight
	}
	if patch.Target != nil {
		target = *patch.Target
	}
	if patch.Actual != nil {
		actual = *patch.Actual
	}
	fields := map[string][]string{}
	validateMeasures(&weight, &target, &actual, fields)
	if len(fields) > 0 {
		return Assessment{}, apperror.Validation(fields)
	}

	record := computeRecord(AssessmentRecord{
		EmployeeID: current.EmployeeID,
		KPIID:      current.KPIID,
		Weight:     weight,
		Target:     target,
		Actual:     actual,
		Period:     current.Period,
		ActorID:    actorID,
	})
	updated, err := s.store.UpdateAssessment(ctx, id, record)
	if err != nil {
		return Assessment{}, assessmentWriteError(err)
	}
	s.audit(ctx, actorID, "assessment.update", id, current, updated)
	return updated, nil
}

func (s *Service) DeleteAssessment(ctx context.Context, actorID, id string) error {
	current, err := s.GetAssessment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAssessment(ctx, id); err != nil {
		return assessmentWriteError(err)
	}
	s.audit(ctx, actorID, "assessment.delete", id, current, nil)
	return nil
}

// EmployeeHistory lists one employee's assessments, newest period first, with
// a rounded summary.
func (s *Service) EmployeeHistory(ctx context.Context, employeeID string, filter AssessmentFilter) (EmployeeHistory, error) {
	exists, err := s.store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return EmployeeHistory{}, apperror.Internal(err)
	}
	if !exists {
		return EmployeeHistory{}, apperror.NotFound("employee_not_found", msgEmployeeNotFound)
	}
	filter.EmployeeID = employeeID
	filter.EmployeeIDs = nil
	items, err := s.Query(ctx, filter)
	if err != nil {
		return EmployeeHistory{}, err
	}
	return EmployeeHistory{
		EmployeeID:  employeeID,
		Assessments: RoundAll(items),
		Summary:     Summarize(items).Rounded(),
	}, nil
}
