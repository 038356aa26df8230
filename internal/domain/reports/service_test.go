package reports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
)

type fakeCounts struct{}

func (fakeCounts) Counts(context.Context) (Counts, error) {
	return Counts{Employees: 3, Divisions: 2, KPIs: 4}, nil
}

type fakeAssessments struct {
	items   []performance.Assessment
	filters []performance.AssessmentFilter
}

func (f *fakeAssessments) Query(_ context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, error) {
	f.filters = append(f.filters, filter)
	var out []performance.Assessment
	for _, item := range f.items {
		if filter.EmployeeID != "" && item.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.KPIID != "" && item.KPIID != filter.KPIID {
			continue
		}
		if filter.DivisionID != "" && (item.Employee.Division == nil || item.Employee.Division.ID != filter.DivisionID) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeAssessments) GetKPI(_ context.Context, id string) (performance.KPI, error) {
	if id != "k1" {
		return performance.KPI{}, apperror.NotFound("kpi_not_found", "KPI not found")
	}
	return performance.KPI{ID: "k1", Name: "Job Performance"}, nil
}

type fakeDirectory struct{}

func (fakeDirectory) GetEmployee(_ context.Context, id string) (core.Employee, error) {
	if id == "missing" {
		return core.Employee{}, apperror.NotFound("employee_not_found", "Employee not found")
	}
	number := "EMP-" + id
	return core.Employee{ID: id, EmployeeNumber: &number}, nil
}

func (fakeDirectory) GetDivision(_ context.Context, id string) (core.Division, error) {
	return core.Division{ID: id, Name: "IT", EmployeeCount: 2}, nil
}

type recordingNotifier struct {
	labels []string
}

func (r *recordingNotifier) ReportGenerated(_ context.Context, divisionID, divisionName, periodLabel string) error {
	r.labels = append(r.labels, divisionName+" "+periodLabel)
	return nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Archive(_ context.Context, key, contentType string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "reports/" + key, nil
}

var may = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)

func item(id, employeeID string, division *performance.Ref, period time.Time, score float64) performance.Assessment {
	return performance.Assessment{
		ID:          id,
		EmployeeID:  employeeID,
		KPIID:       "k1",
		Weight:      50,
		Target:      100,
		Actual:      score,
		Score:       score,
		Achievement: score / 2,
		Period:      period,
		Employee:    performance.AssessedEmployee{ID: employeeID, Division: division},
		KPI:         performance.Ref{ID: "k1", Name: "Job Performance"},
	}
}

func fixture() *fakeAssessments {
	it := &performance.Ref{ID: "d-it", Name: "IT"}
	return &fakeAssessments{items: []performance.Assessment{
		item("a1", "e1", it, may, 90),
		item("a2", "e2", it, may, 70),
		item("a3", "e3", nil, may, 50),
		item("a4", "e1", it, may.AddDate(0, -1, 0), 110),
		item("a5", "e2", it, may.AddDate(0, -1, 0), 30),
		item("a6", "e3", nil, may.AddDate(0, -2, 0), 65),
		item("a7", "e1", it, may.AddDate(0, -2, 0), 80),
	}}
}

func TestDashboardOverview(t *testing.T) {
	source := &fakeAssessments{items: fixture().items[:3]}
	svc := NewService(fakeCounts{}, source, fakeDirectory{})

	dashboard, err := svc.Dashboard(context.Background(), performance.MonthWindow(2024, time.May))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Period != "2024-05" {
		t.Fatalf("unexpected period %q", dashboard.Period)
	}
	overview := dashboard.Overview
	if overview.TotalEmployees != 3 || overview.TotalDivisions != 2 || overview.TotalKPIs != 4 || overview.TotalAssessments != 3 {
		t.Fatalf("unexpected counts %+v", overview)
	}
	if overview.OverallScore != 70 || overview.OverallAchievement != 35 {
		t.Fatalf("unexpected averages %+v", overview)
	}
	if len(dashboard.TopPerformers) != 3 || dashboard.TopPerformers[0].ID != "a1" {
		t.Fatalf("unexpected top performers %+v", dashboard.TopPerformers)
	}
	if len(dashboard.DivisionPerformance) != 2 {
		t.Fatalf("expected two division buckets, got %+v", dashboard.DivisionPerformance)
	}
	none := dashboard.DivisionPerformance[0]
	if none.DivisionID != nil || none.DivisionName != performance.NoDivisionName || none.AverageScore != 50 {
		t.Fatalf("unexpected no-division bucket %+v", none)
	}
	if it := dashboard.DivisionPerformance[1]; it.AssessmentCount != 2 || it.AverageScore != 80 {
		t.Fatalf("unexpected IT bucket %+v", it)
	}
	if got := source.filters[0]; !got.From.Equal(may) || got.To.Day() != 31 {
		t.Fatalf("expected May window, got %+v", got)
	}
}

func TestDashboardEmptyWindow(t *testing.T) {
	svc := NewService(fakeCounts{}, &fakeAssessments{}, fakeDirectory{})
	dashboard, err := svc.Dashboard(context.Background(), performance.MonthWindow(2030, time.January))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Overview.OverallScore != 0 || len(dashboard.TopPerformers) != 0 || dashboard.DivisionPerformance == nil {
		t.Fatalf("unexpected empty dashboard %+v", dashboard)
	}
}

func TestKPIReportBestAndWorst(t *testing.T) {
	svc := NewService(fakeCounts{}, fixture(), fakeDirectory{})
	report, err := svc.KPIReport(context.Background(), "k1", performance.Window{})
	if err != nil {
		t.Fatalf("kpi report: %v", err)
	}
	best := []string{"a4", "a1", "a7", "a2", "a6"}
	worst := []string{"a7", "a2", "a6", "a3", "a5"}
	for i := range best {
		if report.BestPerformers[i].ID != best[i] {
			t.Fatalf("best[%d] = %s, want %s", i, report.BestPerformers[i].ID, best[i])
		}
		if report.WorstPerformers[i].ID != worst[i] {
			t.Fatalf("worst[%d] = %s, want %s", i, report.WorstPerformers[i].ID, worst[i])
		}
	}
	if len(report.PerformanceByPeriod) != 3 || report.PerformanceByPeriod[0].Period != "2024-05" {
		t.Fatalf("unexpected periods %+v", report.PerformanceByPeriod)
	}
	if report.PerformanceByPeriod[0].EmployeeCount != 3 {
		t.Fatalf("expected 3 employees in May, got %d", report.PerformanceByPeriod[0].EmployeeCount)
	}

	_, err = svc.KPIReport(context.Background(), "nope", performance.Window{})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDivisionReportNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewService(fakeCounts{}, fixture(), fakeDirectory{})
	svc.Notifier = notifier

	report, err := svc.DivisionReport(context.Background(), "d-it", performance.YearWindow(2024))
	if err != nil {
		t.Fatalf("division report: %v", err)
	}
	if report.Summary.TotalEmployees != 2 || report.Summary.TotalAssessments != 5 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if len(report.PerformanceByEmployee) != 2 || report.PerformanceByEmployee[0].Employee.ID != "e1" {
		t.Fatalf("unexpected employee breakdown %+v", report.PerformanceByEmployee)
	}
	if report.PerformanceByEmployee[0].AverageScore != 93.33 {
		t.Fatalf("expected e1 average 93.33, got %v", report.PerformanceByEmployee[0].AverageScore)
	}
	if len(notifier.labels) != 1 || notifier.labels[0] != "IT 2024" {
		t.Fatalf("unexpected notifications %v", notifier.labels)
	}
}

func TestEmployeeReportPDFArchivesCopy(t *testing.T) {
	archive := &fakeArchive{}
	svc := NewService(fakeCounts{}, fixture(), fakeDirectory{})
	svc.Archive = archive
	svc.Now = func() time.Time { return time.Date(2024, time.June, 1, 8, 30, 0, 0, time.UTC) }

	rendered, err := svc.EmployeeReportPDF(context.Background(), "e1", performance.Window{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(rendered.Body, []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
	if rendered.FileName != "employee-e1-20240601-083000.pdf" {
		t.Fatalf("unexpected file name %q", rendered.FileName)
	}
	if len(archive.keys) != 1 || rendered.ArchiveKey != "reports/"+archive.keys[0] {
		t.Fatalf("expected archived copy, got %v / %q", archive.keys, rendered.ArchiveKey)
	}

	archive.err = errors.New("bucket unreachable")
	rendered, err = svc.EmployeeReportPDF(context.Background(), "e1", performance.Window{})
	if err != nil || rendered.ArchiveKey != "" {
		t.Fatalf("archive failure must not fail the download: %v %q", err, rendered.ArchiveKey)
	}

	_, err = svc.EmployeeReportPDF(context.Background(), "missing", performance.Window{})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
