package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth attaches the caller to the request context when a valid bearer token
// is present in the Authorization header or, for websocket upgrades, in the
// token query parameter. Requests without a valid token pass through
// unauthenticated.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), auth.UserContext{UserID: claims.UserID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.Fields(header)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

// RequireAuth rejects requests that carry no authenticated caller.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "Authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user auth.UserContext) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}

func GetUser(ctx context.Context) (auth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.UserContext)
	return user, ok
}
