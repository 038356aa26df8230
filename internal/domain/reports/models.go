package reports

import (
	"time"

	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
)

type Counts struct {
	Employees int
	Divisions int
	KPIs      int
}

type Overview struct {
	TotalEmployees     int     `json:"totalEmployees"`
	TotalDivisions     int     `json:"totalDivisions"`
	TotalKPIs          int     `json:"totalKPIs"`
	TotalAssessments   int     `json:"totalAssessments"`
	OverallAchievement float64 `json:"overallAchievement"`
	OverallScore       float64 `json:"overallScore"`
}

type DivisionPerformance struct {
	DivisionID         *string `json:"divisionId"`
	DivisionName       string  `json:"divisionName"`
	AssessmentCount    int     `json:"assessmentCount"`
	TotalAchievement   float64 `json:"totalAchievement"`
	AverageScore       float64 `json:"averageScore"`
	AverageAchievement float64 `json:"averageAchievement"`
}

type Dashboard struct {
	Period              string                   `json:"period"`
	Overview            Overview                 `json:"overview"`
	TopPerformers       []performance.Assessment `json:"topPerformers"`
	DivisionPerformance []DivisionPerformance    `json:"divisionPerformance"`
}

type PeriodPerformance struct {
	Period           string                   `json:"period"`
	Assessments      []performance.Assessment `json:"assessments"`
	TotalAchievement float64                  `json:"totalAchievement"`
	AverageScore     float64                  `json:"averageScore"`
	EmployeeCount    int                      `json:"employeeCount"`
}

type EmployeePerformance struct {
	Employee         performance.AssessedEmployee `json:"employee"`
	Assessments      []performance.Assessment     `json:"assessments"`
	TotalAchievement float64                      `json:"totalAchievement"`
	AverageScore     float64                      `json:"averageScore"`
}

type EmployeeReport struct {
	Employee            core.Employee            `json:"employee"`
	Window              string                   `json:"window"`
	Summary             performance.Summary      `json:"summary"`
	Assessments         []performance.Assessment `json:"assessments"`
	PerformanceByPeriod []PeriodPerformance      `json:"performanceByPeriod"`
}

type DivisionSummary struct {
	performance.Summary
	TotalEmployees int `json:"totalEmployees"`
}

type DivisionReport struct {
	Division              core.Division         `json:"division"`
	Window                string                `json:"window"`
	Summary               DivisionSummary       `json:"summary"`
	PerformanceByEmployee []EmployeePerformance `json:"performanceByEmployee"`
}

type KPIReport struct {
	KPI                 performance.KPI          `json:"kpi"`
	Window              string                   `json:"window"`
	Summary             performance.Summary      `json:"summary"`
	BestPerformers      []performance.Assessment `json:"bestPerformers"`
	WorstPerformers     []performance.Assessment `json:"worstPerformers"`
	PerformanceByPeriod []PeriodPerformance      `json:"performanceByPeriod"`
}

// RenderedReport is a generated document and, when archiving is enabled,
// where the copy was stored.
type RenderedReport struct {
	FileName    string
	ContentType string
	Body        []byte
	ArchiveKey  string
	GeneratedAt time.Time
}
