package notifications

import (
	"context"
	"fmt"
)

// EmployeeCreated tells every administrator about a new employee record.
func (s *Service) EmployeeCreated(ctx context.Context, employeeLabel string) error {
	admins, err := s.store.AdminUserIDs(ctx)
	if err != nil {
		return err
	}
	_, err = s.NotifyMany(ctx, admins, "New Employee", fmt.Sprintf("Employee %s has been added to the system", employeeLabel))
	return err
}

func (s *Service) UserRegistered(ctx context.Context, name, email string) error {
	admins, err := s.store.AdminUserIDs(ctx)
	if err != nil {
		return err
	}
	_, err = s.NotifyMany(ctx, admins, "New User Registration", fmt.Sprintf("%s (%s) has registered and is waiting for an employee link", name, email))
	return err
}

func (s *Service) RoleChanged(ctx context.Context, userID, role string) error {
	_, err := s.Notify(ctx, userID, "Role Updated", fmt.Sprintf("Your role has been changed to %s", role))
	return err
}

// KPIAssessed notifies the user linked to employeeID. Employees without a
// linked user are skipped.
func (s *Service) KPIAssessed(ctx context.Context, employeeID, kpiName string, score float64) error {
	userID, err := s.store.EmployeeUserID(ctx, employeeID)
	if err != nil || userID == "" {
		return err
	}
	message := fmt.Sprintf("Your %s KPI has been assessed with a score of %.2f (%s)", kpiName, score, AssessmentStatus(score))
	_, err = s.Notify(ctx, userID, "KPI Assessment Completed", message)
	return err
}

func (s *Service) ReportGenerated(ctx context.Context, divisionID, divisionName, periodLabel string) error {
	users, err := s.store.DivisionUserIDs(ctx, divisionID)
	if err != nil {
		return err
	}
	_, err = s.NotifyMany(ctx, users, "Performance Report Generated", fmt.Sprintf("The %s division performance report for %s is now available", divisionName, periodLabel))
	return err
}

func (s *Service) KPIReminder(ctx context.Context, userIDs []string, periodLabel string) (int, error) {
	created, err := s.NotifyMany(ctx, userIDs, "KPI Assessment Reminder", fmt.Sprintf("KPI assessments for %s are due. Please make sure your results are up to date.", periodLabel))
	return len(created), err
}

func AssessmentStatus(score float64) string {
	switch {
	case score >= 80:
		return statusExcellent
	case score >= 60:
		return statusGood
	default:
		return statusNeedsImprovement
	}
}
