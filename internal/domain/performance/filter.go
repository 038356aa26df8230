package performance

import (
	"fmt"
	"time"
)

// AssessmentFilter selects assessments. Empty fields do not constrain.
type AssessmentFilter struct {
	EmployeeID  string
	EmployeeIDs []string
	DivisionID  string
	KPIID       string
	Period      time.Time
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

func (f AssessmentFilter) Validate() error {
	if f.Limit < 0 || f.Offset < 0 {
		return fmt.Errorf("%w: negative limit or offset", ErrInvalidFilter)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidFilter)
	}
	if !f.Period.IsZero() && !MonthStart(f.Period).Equal(f.Period) {
		return fmt.Errorf("%w: period must be the first day of a month", ErrInvalidFilter)
	}
	return nil
}

// WithWindow narrows the filter to w.
func (f AssessmentFilter) WithWindow(w Window) AssessmentFilter {
	f.From = w.From
	f.To = w.To
	return f
}

// where renders the filter as a SQL condition with positional args starting
// after the given args.
func (f AssessmentFilter) where(args []any) (string, []any) {
	clause := " WHERE 1=1"
	add := func(condition string, value any) {
		args = append(args, value)
		clause += fmt.Sprintf(condition, len(args))
	}
	if f.EmployeeID != "" {
		add(" AND ek.employee_id = $%d", f.EmployeeID)
	}
	if len(f.EmployeeIDs) > 0 {
		add(" AND ek.employee_id::text = ANY($%d::text[])", f.EmployeeIDs)
	}
	if f.DivisionID != "" {
		add(" AND e.division_id = $%d", f.DivisionID)
	}
	if f.KPIID != "" {
		add(" AND ek.kpi_id = $%d", f.KPIID)
	}
	if !f.Period.IsZero() {
		add(" AND ek.period = $%d", f.Period)
	}
	if !f.From.IsZero() {
		add(" AND ek.period >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add(" AND ek.period <= $%d", f.To)
	}
	return clause, args
}
