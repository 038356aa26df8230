package reportshandler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/domain/reports"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type Service interface {
	Dashboard(ctx context.Context, window performance.Window) (reports.Dashboard, error)
	EmployeeReport(ctx context.Context, employeeID string, window performance.Window) (reports.EmployeeReport, error)
	DivisionReport(ctx context.Context, divisionID string, window performance.Window) (reports.DivisionReport, error)
	KPIReport(ctx context.Context, kpiID string, window performance.Window) (reports.KPIReport, error)
	EmployeeReportPDF(ctx context.Context, employeeID string, window performance.Window) (reports.RenderedReport, error)
}

type Handler struct {
	Service     Service
	Permissions middleware.PermissionStore
	Now         func() time.Time
}

func NewHandler(service Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermReportsRead, h.Permissions))
		r.Get("/dashboard", h.handleDashboard)
		r.Get("/employee/{employeeID}", h.handleEmployee)
		r.Get("/employee/{employeeID}/pdf", h.handleEmployeePDF)
		r.Get("/division/{divisionID}", h.handleDivision)
		r.Get("/kpi/{kpiID}", h.handleKPI)
	})
}

func window(r *http.Request) (performance.Window, error) {
	query := r.URL.Query()
	return reports.ParseWindow(reports.WindowQuery{
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		Year:      query.Get("year"),
		Month:     query.Get("month"),
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	win, err := reports.DashboardWindow(query.Get("year"), query.Get("month"), h.Now())
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	dashboard, err := h.Service.Dashboard(r.Context(), win)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "employeeID", "employee_not_found", "Employee not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	win, err := window(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	report, err := h.Service.EmployeeReport(r.Context(), id, win)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, report, requestID)
}

func (h *Handler) handleDivision(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "divisionID", "division_not_found", "Division not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	win, err := window(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	report, err := h.Service.DivisionReport(r.Context(), id, win)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, report, requestID)
}

func (h *Handler) handleKPI(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "kpiID", "kpi_not_found", "KPI not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	win, err := window(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	report, err := h.Service.KPIReport(r.Context(), id, win)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, report, requestID)
}

func (h *Handler) handleEmployeePDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := shared.ParseID(r, "employeeID", "employee_not_found", "Employee not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	win, err := window(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	rendered, err := h.Service.EmployeeReportPDF(r.Context(), id, win)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}

	headers := w.Header()
	headers.Set("Content-Type", rendered.ContentType)
	headers.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rendered.FileName))
	headers.Set("Content-Length", strconv.Itoa(len(rendered.Body)))
	if rendered.ArchiveKey != "" {
		headers.Set("X-Archive-Key", rendered.ArchiveKey)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rendered.Body); err != nil {
		slog.Warn("write report pdf failed", "employeeId", id, "err", err)
	}
}
