package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func valueOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

// RenderEmployeePDF lays out an employee report on A4 pages.
func RenderEmployeePDF(report EmployeeReport, generatedAt time.Time) ([]byte, error) {
	emp := report.Employee
	name := emp.Label()
	division, position := "-", "-"
	if emp.Division != nil {
		division = emp.Division.Name
	}
	if emp.Position != nil {
		position = emp.Position.Name
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Employee Performance Report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee Performance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Employee: %s", name),
		fmt.Sprintf("Employee number: %s", valueOr(emp.EmployeeNumber, "-")),
		fmt.Sprintf("Division: %s", division),
		fmt.Sprintf("Position: %s", position),
		fmt.Sprintf("Window: %s", report.Window),
		fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04 MST")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Assessments: %d", report.Summary.TotalAssessments))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Average score: %.2f", report.Summary.AverageScore))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Total achievement: %.2f", report.Summary.TotalAchievement))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Average achievement: %.2f", report.Summary.AverageAchievement))
	pdf.Ln(10)

	widths := []float64{25, 60, 20, 20, 20, 20, 25}
	headers := []string{"Period", "KPI", "Weight", "Target", "Actual", "Score", "Achievement"}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(report.Assessments) == 0 {
		pdf.CellFormat(sum(widths), 8, "No assessments in this window", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, a := range report.Assessments {
		row := []string{
			a.Period.Format("2006-01"),
			a.KPI.Name,
			fmt.Sprintf("%.2f", a.Weight),
			fmt.Sprintf("%.2f", a.Target),
			fmt.Sprintf("%.2f", a.Actual),
			fmt.Sprintf("%.2f", a.Score),
			fmt.Sprintf("%.2f", a.Achievement),
		}
		for i, cell := range row {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sum(values []float64) float64 {
	var total float64
	for _, value := range values {
		total += value
	}
	return total
}
