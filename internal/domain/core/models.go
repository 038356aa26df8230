package core

import "time"

type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LinkedUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Division struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Weight        *float64  `json:"weight"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Position struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Employee struct {
	ID             string      `json:"id"`
	EmployeeNumber *string     `json:"employeeNumber"`
	PNOSNumber     *string     `json:"pnosNumber"`
	DateJoined     *time.Time  `json:"dateJoined"`
	DivisionID     *string     `json:"divisionId"`
	PositionID     *string     `json:"positionId"`
	Division       *Ref        `json:"division"`
	Position       *Ref        `json:"position"`
	User           *LinkedUser `json:"user"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Label is the human name used in notifications.
func (e Employee) Label() string {
	if e.User != nil && e.User.Name != "" {
		return e.User.Name
	}
	if e.EmployeeNumber != nil && *e.EmployeeNumber != "" {
		return *e.EmployeeNumber
	}
	return e.ID
}

type DivisionInput struct {
	Name        string
	Description *string
	Weight      *float64
}

type DivisionPatch struct {
	Name        *string
	Description *string
	Weight      *float64
}

type PositionInput struct {
	Name        string
	Description *string
}

type PositionPatch struct {
	Name        *string
	Description *string
}

type EmployeeInput struct {
	EmployeeNumber *string
	PNOSNumber     *string
	DateJoined     *time.Time
	DivisionID     *string
	PositionID     *string
	UserID         *string
}

// EmployeePatch carries optional changes. A pointer to an empty string
// clears the column.
type EmployeePatch struct {
	EmployeeNumber *string
	PNOSNumber     *string
	DateJoined     *time.Time
	DivisionID     *string
	PositionID     *string
}

type NameFilter struct {
	Search string
	Limit  int
	Offset int
}

type EmployeeFilter struct {
	Search     string
	DivisionID string
	PositionID string
	Limit      int
	Offset     int
}

type UserLink struct {
	ID         string
	Name       string
	EmployeeID *string
}
