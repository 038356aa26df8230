package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
)

type StoreAPI interface {
	Counts(ctx context.Context) (Counts, error)
}

type AssessmentSource interface {
	Query(ctx context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, error)
	GetKPI(ctx context.Context, id string) (performance.KPI, error)
}

type Directory interface {
	GetEmployee(ctx context.Context, id string) (core.Employee, error)
	GetDivision(ctx context.Context, id string) (core.Division, error)
}

type Notifier interface {
	ReportGenerated(ctx context.Context, divisionID, divisionName, periodLabel string) error
}

// Archiver stores a copy of a rendered report and returns its key.
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Service struct {
	store       StoreAPI
	assessments AssessmentSource
	directory   Directory
	Notifier    Notifier
	Archive     Archiver
	Now         func() time.Time
}

func NewService(store StoreAPI, assessments AssessmentSource, directory Directory) *Service {
	return &Service{store: store, assessments: assessments, directory: directory, Now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context, window performance.Window) (Dashboard, error) {
	counts, err := s.store.Counts(ctx)
	if err != nil {
		return Dashboard{}, apperror.Internal(err)
	}
	items, err := s.assessments.Query(ctx, performance.AssessmentFilter{}.WithWindow(window))
	if err != nil {
		return Dashboard{}, err
	}

	summary := performance.Summarize(items).Rounded()
	dashboard := Dashboard{
		Period: window.Label(),
		Overview: Overview{
			TotalEmployees:     counts.Employees,
			TotalDivisions:     counts.Divisions,
			TotalKPIs:          counts.KPIs,
			TotalAssessments:   summary.TotalAssessments,
			OverallAchievement: summary.AverageAchievement,
			OverallScore:       summary.AverageScore,
		},
		TopPerformers:       performance.RoundAll(performance.Top(performance.Rank(items), performance.RankingSize)),
		DivisionPerformance: []DivisionPerformance{},
	}
	for _, group := range performance.GroupAssessments(items, performance.GroupDivision) {
		entry := DivisionPerformance{
			DivisionName:       group.Label,
			AssessmentCount:    group.Summary.TotalAssessments,
			TotalAchievement:   performance.Round2(group.Summary.TotalAchievement),
			AverageScore:       performance.Round2(group.Summary.AverageScore),
			AverageAchievement: performance.Round2(group.Summary.AverageAchievement),
		}
		if group.Key != "" {
			id := group.Key
			entry.DivisionID = &id
		}
		dashboard.DivisionPerformance = append(dashboard.DivisionPerformance, entry)
	}
	return dashboard, nil
}

func periodBreakdown(items []performance.Assessment) []PeriodPerformance {
	out := []PeriodPerformance{}
	for _, group := range performance.GroupAssessments(items, performance.GroupPeriod) {
		out = append(out, PeriodPerformance{
			Period:           group.Key,
			Assessments:      performance.RoundAll(group.Assessments),
			TotalAchievement: performance.Round2(group.Summary.TotalAchievement),
			AverageScore:     performance.Round2(group.Summary.AverageScore),
			EmployeeCount:    performance.DistinctEmployees(group.Assessments),
		})
	}
	return out
}

func (s *Service) EmployeeReport(ctx context.Context, employeeID string, window performance.Window) (EmployeeReport, error) {
	employee, err := s.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return EmployeeReport{}, err
	}
	items, err := s.assessments.Query(ctx, performance.AssessmentFilter{EmployeeID: employeeID}.WithWindow(window))
	if err != nil {
		return EmployeeReport{}, err
	}
	return EmployeeReport{
		Employee:            employee,
		Window:              window.Label(),
		Summary:             performance.Summarize(items).Rounded(),
		Assessments:         performance.RoundAll(items),
		PerformanceByPeriod: periodBreakdown(items),
	}, nil
}

// DivisionReport aggregates a division by employee and lets the division's
// linked users know a report was produced.
func (s *Service) DivisionReport(ctx context.Context, divisionID string, window performance.Window) (DivisionReport, error) {
	division, err := s.directory.GetDivision(ctx, divisionID)
	if err != nil {
		return DivisionReport{}, err
	}
	items, err := s.assessments.Query(ctx, performance.AssessmentFilter{DivisionID: divisionID}.WithWindow(window))
	if err != nil {
		return DivisionReport{}, err
	}

	report := DivisionReport{
		Division: division,
		Window:   window.Label(),
		Summary: DivisionSummary{
			Summary:        performance.Summarize(items).Rounded(),
			TotalEmployees: division.EmployeeCount,
		},
		PerformanceByEmployee: []EmployeePerformance{},
	}
	for _, group := range performance.GroupAssessments(items, performance.GroupEmployee) {
		report.PerformanceByEmployee = append(report.PerformanceByEmployee, EmployeePerformance{
			Employee:         group.Assessments[0].Employee,
			Assessments:      performance.RoundAll(group.Assessments),
			TotalAchievement: performance.Round2(group.Summary.TotalAchievement),
			AverageScore:     performance.Round2(group.Summary.AverageScore),
		})
	}

	if s.Notifier != nil {
		if err := s.Notifier.ReportGenerated(ctx, division.ID, division.Name, report.Window); err != nil {
			slog.Warn("report notification failed", "divisionId", division.ID, "err", err)
		}
	}
	return report, nil
}

func (s *Service) KPIReport(ctx context.Context, kpiID string, window performance.Window) (KPIReport, error) {
	kpi, err := s.assessments.GetKPI(ctx, kpiID)
	if err != nil {
		return KPIReport{}, err
	}
	items, err := s.assessments.Query(ctx, performance.AssessmentFilter{KPIID: kpiID}.WithWindow(window))
	if err != nil {
		return KPIReport{}, err
	}
	ranked := performance.Rank(items)
	return KPIReport{
		KPI:                 kpi,
		Window:              window.Label(),
		Summary:             performance.Summarize(items).Rounded(),
		BestPerformers:      performance.RoundAll(performance.Top(ranked, performance.RankingSize)),
		WorstPerformers:     performance.RoundAll(performance.Bottom(ranked, performance.RankingSize)),
		PerformanceByPeriod: periodBreakdown(items),
	}, nil
}

// EmployeeReportPDF renders the employee report and archives a copy when an
// archiver is configured. Archive failures are logged, not returned.
func (s *Service) EmployeeReportPDF(ctx context.Context, employeeID string, window performance.Window) (RenderedReport, error) {
	report, err := s.EmployeeReport(ctx, employeeID, window)
	if err != nil {
		return RenderedReport{}, err
	}
	generatedAt := s.Now().UTC()
	body, err := RenderEmployeePDF(report, generatedAt)
	if err != nil {
		return RenderedReport{}, apperror.Internal(fmt.Errorf("render employee report: %w", err))
	}

	rendered := RenderedReport{
		FileName:    fmt.Sprintf("employee-%s-%s.pdf", employeeID, generatedAt.Format("20060102-150405")),
		ContentType: "application/pdf",
		Body:        body,
		GeneratedAt: generatedAt,
	}
	if s.Archive != nil {
		key, err := s.Archive.Archive(ctx, "employees/"+employeeID+"/"+rendered.FileName, rendered.ContentType, body)
		if err != nil {
			slog.Warn("report archive failed", "employeeId", employeeID, "err", err)
		} else {
			rendered.ArchiveKey = key
		}
	}
	return rendered, nil
}
