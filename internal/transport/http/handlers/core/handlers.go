package corehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

// recentAssessmentLimit bounds the assessments embedded in an employee record.
const recentAssessmentLimit = 10

type Service interface {
	ListDivisions(ctx context.Context, filter core.NameFilter) ([]core.Division, int, error)
	GetDivision(ctx context.Context, id string) (core.Division, error)
	CreateDivision(ctx context.Context, input core.DivisionInput) (core.Division, error)
	UpdateDivision(ctx context.Context, id string, patch core.DivisionPatch) (core.Division, error)
	DeleteDivision(ctx context.Context, id string) error

	ListPositions(ctx context.Context, filter core.NameFilter) ([]core.Position, int, error)
	GetPosition(ctx context.Context, id string) (core.Position, error)
	CreatePosition(ctx context.Context, input core.PositionInput) (core.Position, error)
	UpdatePosition(ctx context.Context, id string, patch core.PositionPatch) (core.Position, error)
	DeletePosition(ctx context.Context, id string) error

	ListEmployees(ctx context.Context, filter core.EmployeeFilter) ([]core.Employee, int, error)
	GetEmployee(ctx context.Context, id string) (core.Employee, error)
	CreateEmployee(ctx context.Context, actorID string, input core.EmployeeInput) (core.Employee, error)
	UpdateEmployee(ctx context.Context, actorID, id string, patch core.EmployeePatch) (core.Employee, error)
	DeleteEmployee(ctx context.Context, actorID, id string) error
	LinkUser(ctx context.Context, actorID, employeeID, userID string) (core.Employee, error)
	UnlinkUser(ctx context.Context, actorID, employeeID string) (core.Employee, error)
}

// AssessmentLister supplies the recent assessments shown with an employee.
type AssessmentLister interface {
	ListAssessments(ctx context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, int, error)
}

type Handler struct {
	Service     Service
	Assessments AssessmentLister
	Permissions middleware.PermissionStore
}

func NewHandler(service Service, assessments AssessmentLister, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Assessments: assessments, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	orgRead := middleware.RequirePermission(auth.PermOrgRead, h.Permissions)
	orgWrite := middleware.RequirePermission(auth.PermOrgWrite, h.Permissions)
	empRead := middleware.RequirePermission(auth.PermEmployeesRead, h.Permissions)
	empWrite := middleware.RequirePermission(auth.PermEmployeesWrite, h.Permissions)

	r.Route("/divisions", func(r chi.Router) {
		r.With(orgRead).Get("/", h.handleListDivisions)
		r.With(orgWrite).Post("/", h.handleCreateDivision)
		r.With(orgRead).Get("/{divisionID}", h.handleGetDivision)
		r.With(orgWrite).Put("/{divisionID}", h.handleUpdateDivision)
		r.With(orgWrite).Delete("/{divisionID}", h.handleDeleteDivision)
	})
	r.Route("/positions", func(r chi.Router) {
		r.With(orgRead).Get("/", h.handleListPositions)
		r.With(orgWrite).Post("/", h.handleCreatePosition)
		r.With(orgRead).Get("/{positionID}", h.handleGetPosition)
		r.With(orgWrite).Put("/{positionID}", h.handleUpdatePosition)
		r.With(orgWrite).Delete("/{positionID}", h.handleDeletePosition)
	})
	r.Route("/employees", func(r chi.Router) {
		r.With(empRead).Get("/", h.handleListEmployees)
		r.With(empWrite).Post("/", h.handleCreateEmployee)
		r.With(empRead).Get("/{employeeID}", h.handleGetEmployee)
		r.With(empWrite).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(empWrite).Delete("/{employeeID}", h.handleDeleteEmployee)
		r.With(empWrite).Post("/{employeeID}/link-user", h.handleLinkUser)
		r.With(empWrite).Post("/{employeeID}/unlink-user", h.handleUnlinkUser)
	})
}

func nameFilter(r *http.Request, page shared.Page) core.NameFilter {
	return core.NameFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	}
}

// optionalID records an issue when a supplied reference is not a UUID. An
// empty string is allowed so patches can clear the reference.
func optionalID(v *shared.Validator, field, message string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if !shared.ValidUUID(*value) {
		v.Add(field, message)
	}
}

func deleted(id string) map[string]any {
	return map[string]any{"id": id, "deleted": true}
}
