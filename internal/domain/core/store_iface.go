package core

import "context"

type StoreAPI interface {
	ListDivisions(ctx context.Context, filter NameFilter) ([]Division, int, error)
	GetDivision(ctx context.Context, id string) (Division, error)
	DivisionIDByName(ctx context.Context, name string) (string, error)
	CreateDivision(ctx context.Context, input DivisionInput) (Division, error)
	UpdateDivision(ctx context.Context, id string, input DivisionInput) (Division, error)
	DeleteDivision(ctx context.Context, id string) error

	ListPositions(ctx context.Context, filter NameFilter) ([]Position, int, error)
	GetPosition(ctx context.Context, id string) (Position, error)
	PositionIDByName(ctx context.Context, name string) (string, error)
	CreatePosition(ctx context.Context, input PositionInput) (Position, error)
	UpdatePosition(ctx context.Context, id string, input PositionInput) (Position, error)
	DeletePosition(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	EmployeeIDByNumber(ctx context.Context, number string) (string, error)
	CreateEmployee(ctx context.Context, input EmployeeInput) (Employee, error)
	UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	EmployeeAssessmentCount(ctx context.Context, id string) (int, error)
	GetUserLink(ctx context.Context, userID string) (UserLink, error)
	LinkUser(ctx context.Context, employeeID, userID string) error
	UnlinkUser(ctx context.Context, employeeID string) error
}
