package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrkpi/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", Role: auth.RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	cases := []struct {
		name  string
		build func() *http.Request
	}{
		{"header", func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			return req
		}},
		{"query parameter", func() *http.Request {
			return httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				user, ok := GetUser(r.Context())
				if !ok {
					t.Fatal("expected user in context")
				}
				if user.UserID != "u1" || user.Role != auth.RoleAdmin {
					t.Fatalf("unexpected user: %+v", user)
				}
			}))
			handler.ServeHTTP(httptest.NewRecorder(), tc.build())
			if !called {
				t.Fatal("expected handler to run")
			}
		})
	}
}

func TestAuthMiddlewareIgnoresBadToken(t *testing.T) {
	handler := Auth("secret")(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a caller")
	})))

	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

type fakePermissions struct {
	allowed bool
	err     error
}

func (f fakePermissions) HasPermission(context.Context, string, string) (bool, error) {
	return f.allowed, f.err
}

func TestRequirePermission(t *testing.T) {
	cases := []struct {
		name   string
		user   bool
		store  fakePermissions
		status int
	}{
		{"anonymous", false, fakePermissions{allowed: true}, http.StatusUnauthorized},
		{"denied", true, fakePermissions{}, http.StatusForbidden},
		{"store failure", true, fakePermissions{err: errors.New("db down")}, http.StatusInternalServerError},
		{"allowed", true, fakePermissions{allowed: true}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequirePermission(auth.PermOrgWrite, tc.store)(noContent())
			req := httptest.NewRequest(http.MethodPost, "/divisions", nil)
			if tc.user {
				req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", Role: auth.RoleUser}))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequestIDPropagatesOrAssigns(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected propagated id, got %q", seen)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc-123" {
		t.Fatalf("expected generated id, got %q", seen)
	}
}
