package reports

import (
	"strconv"
	"strings"
	"time"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/performance"
)

// WindowQuery is the raw report window taken from a request.
type WindowQuery struct {
	StartDate string
	EndDate   string
	Year      string
	Month     string
}

// ParseWindow resolves startDate&endDate first, then year with an optional
// month. An empty query selects every period.
func ParseWindow(q WindowQuery) (performance.Window, error) {
	fields := map[string][]string{}
	start, end := strings.TrimSpace(q.StartDate), strings.TrimSpace(q.EndDate)
	if start != "" && end != "" {
		from, errFrom := time.Parse("2006-01-02", start)
		to, errTo := time.Parse("2006-01-02", end)
		if errFrom != nil {
			fields["startDate"] = append(fields["startDate"], "Start date must be a valid date (YYYY-MM-DD)")
		}
		if errTo != nil {
			fields["endDate"] = append(fields["endDate"], "End date must be a valid date (YYYY-MM-DD)")
		}
		if len(fields) == 0 && to.Before(from) {
			fields["endDate"] = append(fields["endDate"], "End date must not be before start date")
		}
		if len(fields) > 0 {
			return performance.Window{}, apperror.Validation(fields)
		}
		return performance.Window{From: from, To: to}, nil
	}

	if strings.TrimSpace(q.Year) == "" {
		return performance.Window{}, nil
	}
	year, month, err := parseYearMonth(q.Year, q.Month)
	if err != nil {
		return performance.Window{}, err
	}
	if month == 0 {
		return performance.YearWindow(year), nil
	}
	return performance.MonthWindow(year, month), nil
}

// DashboardWindow is the month named by year&month, or the month containing
// now when either is missing.
func DashboardWindow(yearValue, monthValue string, now time.Time) (performance.Window, error) {
	if strings.TrimSpace(yearValue) == "" || strings.TrimSpace(monthValue) == "" {
		now = now.UTC()
		return performance.MonthWindow(now.Year(), now.Month()), nil
	}
	year, month, err := parseYearMonth(yearValue, monthValue)
	if err != nil {
		return performance.Window{}, err
	}
	return performance.MonthWindow(year, month), nil
}

func parseYearMonth(yearValue, monthValue string) (int, time.Month, error) {
	fields := map[string][]string{}
	year, err := strconv.Atoi(strings.TrimSpace(yearValue))
	if err != nil || year < 1900 || year > 9999 {
		fields["year"] = append(fields["year"], "Year must be a valid year")
	}
	var month int
	if value := strings.TrimSpace(monthValue); value != "" {
		month, err = strconv.Atoi(value)
		if err != nil || month < 1 || month > 12 {
			fields["month"] = append(fields["month"], "Month must be between 1 and 12")
		}
	}
	if len(fields) > 0 {
		return 0, 0, apperror.Validation(fields)
	}
	return year, time.Month(month), nil
}
