package audithandler

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/audit"
	"hrkpi/internal/domain/auth"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	exportLimit     = 5000
)

type Service interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service     Service
	Permissions middleware.PermissionStore
}

func NewHandler(service Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermAuditRead, h.Permissions))
		r.Get("/events", h.handleListEvents)
		r.Get("/events/export", h.handleExportEvents)
	})
}

func parseFilter(r *http.Request, v *shared.Validator) audit.Filter {
	query := r.URL.Query()
	filter := audit.Filter{
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		EntityID:   query.Get("entityId"),
		ActorUser:  query.Get("actorUserId"),
	}
	if filter.ActorUser != "" && !shared.ValidUUID(filter.ActorUser) {
		v.Add("actorUserId", "Actor user id must be a valid UUID")
	}
	return filter
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePage(r, defaultPageSize, maxPageSize)
	includeDetails := r.URL.Query().Get("includeDetails") == "true"

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset())
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	api.Success(w, shared.ListData("events", events, page, total), requestID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	filter := parseFilter(r, v)
	if v.Reject(w, requestID) {
		return
	}
	events, err := h.Service.List(r.Context(), filter, false, exportLimit, 0)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=audit-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_user_id", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		actor := ""
		if evt.ActorID != nil {
			actor = *evt.ActorID
		}
		row := []string{evt.ID, actor, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, evt.IP, evt.CreatedAt.UTC().Format(time.RFC3339)}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
