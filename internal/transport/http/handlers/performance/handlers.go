package performancehandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type Service interface {
	ListKPIs(ctx context.Context, filter performance.KPIFilter) ([]performance.KPI, int, error)
	GetKPI(ctx context.Context, id string) (performance.KPI, error)
	CreateKPI(ctx context.Context, input performance.KPIInput) (performance.KPI, error)
	UpdateKPI(ctx context.Context, id string, patch performance.KPIPatch) (performance.KPI, error)
	DeleteKPI(ctx context.Context, id string) error

	ListAssessments(ctx context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, int, error)
	GetAssessment(ctx context.Context, id string) (performance.Assessment, error)
	CreateAssessment(ctx context.Context, actorID string, input performance.AssessmentInput) (performance.Assessment, error)
	UpdateAssessment(ctx context.Context, actorID, id string, patch performance.AssessmentPatch) (performance.Assessment, error)
	DeleteAssessment(ctx context.Context, actorID, id string) error
	EmployeeHistory(ctx context.Context, employeeID string, filter performance.AssessmentFilter) (performance.EmployeeHistory, error)
}

type Handler struct {
	Service     Service
	Permissions middleware.PermissionStore
}

func NewHandler(service Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermAssessmentsRead, h.Permissions)
	write := middleware.RequirePermission(auth.PermAssessmentsWrite, h.Permissions)

	r.Route("/kpis", func(r chi.Router) {
		r.With(read).Get("/", h.handleListKPIs)
		r.With(write).Post("/", h.handleCreateKPI)
		r.With(read).Get("/{kpiID}", h.handleGetKPI)
		r.With(write).Put("/{kpiID}", h.handleUpdateKPI)
		r.With(write).Delete("/{kpiID}", h.handleDeleteKPI)
	})
	r.Route("/assessments", func(r chi.Router) {
		r.With(read).Get("/", h.handleListAssessments)
		r.With(write).Post("/", h.handleCreateAssessment)
		r.With(read).Get("/employee/{employeeID}", h.handleEmployeeHistory)
		r.With(read).Get("/{assessmentID}", h.handleGetAssessment)
		r.With(write).Put("/{assessmentID}", h.handleUpdateAssessment)
		r.With(write).Delete("/{assessmentID}", h.handleDeleteAssessment)
	})
}

type kpiRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func kpiID(r *http.Request) (string, error) {
	return shared.ParseID(r, "kpiID", "kpi_not_found", "KPI not found")
}

func (h *Handler) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	items, total, err := h.Service.ListKPIs(r.Context(), performance.KPIFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if items == nil {
		items = []performance.KPI{}
	}
	api.Success(w, shared.ListData("kpis", items, page, total), requestID)
}

func (h *Handler) handleGetKPI(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := kpiID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	kpi, err := h.Service.GetKPI(r.Context(), id)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, kpi, requestID)
}

func (h *Handler) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload kpiRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	if payload.Name == nil {
		v.Add("name", "Name is required")
	} else {
		v.Required("name", *payload.Name, "Name is required")
	}
	if v.Reject(w, requestID) {
		return
	}

	kpi, err := h.Service.CreateKPI(r.Context(), performance.KPIInput{Name: *payload.Name, Description: payload.Description})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, kpi, requestID)
}

func (h *Handler) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := kpiID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload kpiRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	kpi, err := h.Service.UpdateKPI(r.Context(), id, performance.KPIPatch{Name: payload.Name, Description: payload.Description})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, kpi, requestID)
}

func (h *Handler) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := kpiID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if err := h.Service.DeleteKPI(r.Context(), id); err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestID)
}
