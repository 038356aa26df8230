package performance

import (
	"context"
	"time"

	"hrkpi/internal/domain/apperror"
)

// SendReminders notifies the linked users of employees that have no
// assessment for the month containing now.
func (s *Service) SendReminders(ctx context.Context, now time.Time) (ReminderResult, error) {
	period := MonthStart(now)
	result := ReminderResult{Period: PeriodKey(period)}

	targets, err := s.store.ReminderTargets(ctx, period)
	if err != nil {
		return result, apperror.Internal(err)
	}
	result.Employees = len(targets)
	if len(targets) == 0 || s.Notifier == nil {
		return result, nil
	}

	userIDs := make([]string, 0, len(targets))
	for _, target := range targets {
		userIDs = append(userIDs, target.UserID)
	}
	sent, err := s.Notifier.KPIReminder(ctx, userIDs, result.Period)
	result.Recipients = sent
	if err != nil {
		return result, apperror.Internal(err)
	}
	return result, nil
}
