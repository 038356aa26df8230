package notificationshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/notifications"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, userID string, limit, offset int) (notifications.Page, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) (notifications.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, notificationID string) error
}

// Channel upgrades a request to the caller's live event channel.
type Channel interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID string) error
}

type Handler struct {
	Service Service
	Channel Channel
}

func NewHandler(service Service, channel Channel) *Handler {
	return &Handler{Service: service, Channel: channel}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Put("/read-all", h.handleMarkAllRead)
		r.Put("/{notificationID}/read", h.handleMarkRead)
		r.Delete("/{notificationID}", h.handleDelete)
	})
}

// RegisterChannelRoutes mounts the websocket endpoint. It must sit outside
// request timeouts since the connection outlives the handler deadline.
func (h *Handler) RegisterChannelRoutes(r chi.Router) {
	if h.Channel != nil {
		r.Get("/notifications/ws", h.handleWS)
	}
}

func notFound(err error) error {
	if errors.Is(err, notifications.ErrNotFound) {
		return apperror.NotFound("notification_not_found", "Notification not found")
	}
	return apperror.From(err)
}

func notificationID(r *http.Request) (string, error) {
	return shared.ParseID(r, "notificationID", "notification_not_found", "Notification not found")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePage(r, notifications.DefaultPageSize, shared.MaxLimit)

	result, err := h.Service.List(r.Context(), user.UserID, page.Limit, page.Offset())
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	items := result.Items
	if items == nil {
		items = []notifications.Notification{}
	}
	api.Success(w, map[string]any{
		"notifications": items,
		"unreadCount":   result.UnreadCount,
		"pagination":    shared.NewPagination(page, result.Total),
	}, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	count, err := h.Service.UnreadCount(r.Context(), user.UserID)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, map[string]int{"count": count}, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := notificationID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	n, err := h.Service.MarkRead(r.Context(), user.UserID, id)
	if err != nil {
		api.Error(w, notFound(err), requestID)
		return
	}
	api.Success(w, n, requestID)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	updated, err := h.Service.MarkAllRead(r.Context(), user.UserID)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, map[string]int64{"updated": updated}, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, err := notificationID(r)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Service.Delete(r.Context(), user.UserID, id); err != nil {
		api.Error(w, notFound(err), requestID)
		return
	}
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestID)
}

// handleWS hands the connection to the live channel. After a successful
// upgrade the response can no longer carry an envelope, so failures are only
// logged.
func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Channel.ServeWS(w, r, user.UserID); err != nil {
		slog.Debug("websocket session ended", "userId", user.UserID, "err", err)
	}
}
