package authhandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type Service interface {
	Register(ctx context.Context, input auth.RegisterInput) (auth.User, error)
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
	Profile(ctx context.Context, userID string) (auth.User, error)
	UpdateRole(ctx context.Context, actorID, userID, role string) (auth.User, error)
	ListUsers(ctx context.Context, filter auth.UserFilter) ([]auth.User, int, error)
}

type Handler struct {
	Service     Service
	Permissions middleware.PermissionStore
}

func NewHandler(service Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/auth/profile", h.handleProfile)
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermUsersManage, h.Permissions))
		r.Get("/", h.handleListUsers)
		r.Put("/{userID}/role", h.handleUpdateRole)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload registerRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	user, err := h.Service.Register(r.Context(), auth.RegisterInput{Name: payload.Name, Email: payload.Email, Password: payload.Password})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Created(w, user, requestID)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	profile, err := h.Service.Profile(r.Context(), user.UserID)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)
	query := r.URL.Query()
	users, total, err := h.Service.ListUsers(r.Context(), auth.UserFilter{
		Search: query.Get("search"),
		Role:   query.Get("role"),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if users == nil {
		users = []auth.User{}
	}
	api.Success(w, shared.ListData("users", users, page, total), requestID)
}

func (h *Handler) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	userID, err := shared.ParseID(r, "userID", "user_not_found", "User not found")
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	var payload roleRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Error(w, err, requestID)
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	updated, err := h.Service.UpdateRole(r.Context(), actor.UserID, userID, payload.Role)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	api.Success(w, updated, requestID)
}
