package performance

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListKPIs(ctx context.Context, filter KPIFilter) ([]KPI, int, error)
	GetKPI(ctx context.Context, id string) (KPI, error)
	KPIIDByName(ctx context.Context, name string) (string, error)
	CreateKPI(ctx context.Context, input KPIInput) (KPI, error)
	UpdateKPI(ctx context.Context, id string, input KPIInput) (KPI, error)
	DeleteKPI(ctx context.Context, id string) error

	EmployeeExists(ctx context.Context, id string) (bool, error)
	FindByUniqueKey(ctx context.Context, employeeID, kpiID string, period time.Time) (Assessment, error)
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	InsertAssessment(ctx context.Context, record AssessmentRecord) (Assessment, error)
	UpdateAssessment(ctx context.Context, id string, record AssessmentRecord) (Assessment, error)
	DeleteAssessment(ctx context.Context, id string) error
	QueryAssessments(ctx context.Context, filter AssessmentFilter) ([]Assessment, error)
	CountAssessments(ctx context.Context, filter AssessmentFilter) (int, error)
	ReminderTargets(ctx context.Context, period time.Time) ([]ReminderTarget, error)
}

// ReminderTarget is an employee with a linked user and no assessment for the
// period being reminded.
type ReminderTarget struct {
	EmployeeID string
	UserID     string
}
