package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"hrkpi/internal/transport/http/api"
)

type PermissionStore interface {
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "Authentication required", requestID)
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.UserID, permission)
			if err != nil {
				slog.Error("permission check failed", "userId", user.UserID, "permission", permission, "err", err)
				api.Fail(w, http.StatusInternalServerError, "internal server error", requestID)
				return
			}
			if !allowed {
				api.Fail(w, http.StatusForbidden, "Insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
