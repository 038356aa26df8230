package performance

import "time"

type KPI struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	AssessmentCount int       `json:"assessmentCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type KPIInput struct {
	Name        string
	Description *string
}

type KPIPatch struct {
	Name        *string
	Description *string
}

type KPIFilter struct {
	Search string
	Limit  int
	Offset int
}

type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssessedEmployee is the slice of employee data reports need.
type AssessedEmployee struct {
	ID             string  `json:"id"`
	EmployeeNumber *string `json:"employeeNumber"`
	Name           *string `json:"name"`
	UserID         *string `json:"userId"`
	Division       *Ref    `json:"division"`
	Position       *Ref    `json:"position"`
}

type Assessment struct {
	ID          string           `json:"id"`
	EmployeeID  string           `json:"employeeId"`
	KPIID       string           `json:"kpiId"`
	Weight      float64          `json:"weight"`
	Target      float64          `json:"target"`
	Actual      float64          `json:"actual"`
	Score       float64          `json:"score"`
	Achievement float64          `json:"achievement"`
	Period      time.Time        `json:"period"`
	CreatedBy   *string          `json:"createdBy"`
	UpdatedBy   *string          `json:"updatedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Employee    AssessedEmployee `json:"employee"`
	KPI         Ref              `json:"kpi"`
}

// Rounded returns a copy with derived values rounded for display.
func (a Assessment) Rounded() Assessment {
	a.Score = Round2(a.Score)
	a.Achievement = Round2(a.Achievement)
	return a
}

func RoundAll(items []Assessment) []Assessment {
	out := make([]Assessment, len(items))
	for i, item := range items {
		out[i] = item.Rounded()
	}
	return out
}

// DivisionKey groups an assessment by division. Employees without a
// division share the empty key.
func (a Assessment) DivisionKey() (string, string) {
	if a.Employee.Division == nil {
		return "", NoDivisionName
	}
	return a.Employee.Division.ID, a.Employee.Division.Name
}

func (a Assessment) EmployeeName() string {
	if a.Employee.Name != nil && *a.Employee.Name != "" {
		return *a.Employee.Name
	}
	if a.Employee.EmployeeNumber != nil {
		return *a.Employee.EmployeeNumber
	}
	return a.EmployeeID
}

// AssessmentInput is a create request. Pointers distinguish missing values
// from zero.
type AssessmentInput struct {
	EmployeeID string
	KPIID      string
	Weight     *float64
	Target     *float64
	Actual     *float64
	Period     string
}

type AssessmentPatch struct {
	Weight *float64
	Target *float64
	Actual *float64
}

// AssessmentRecord is the fully computed row written by the store.
type AssessmentRecord struct {
	EmployeeID  string
	KPIID       string
	Weight      float64
	Target      float64
	Actual      float64
	Score       float64
	Achievement float64
	Period      time.Time
	ActorID     string
}

type EmployeeHistory struct {
	EmployeeID  string       `json:"employeeId"`
	Assessments []Assessment `json:"assessments"`
	Summary     Summary      `json:"summary"`
}

type ReminderResult struct {
	Period     string `json:"period"`
	Employees  int    `json:"employees"`
	Recipients int    `json:"recipients"`
}
