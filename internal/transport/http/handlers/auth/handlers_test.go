package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/auth"
	"hrkpi/internal/transport/http/middleware"
)

type fakeService struct {
	registered  []auth.RegisterInput
	registerErr error
	roleCalls   []string
}

func (f *fakeService) Register(_ context.Context, input auth.RegisterInput) (auth.User, error) {
	f.registered = append(f.registered, input)
	user := auth.User{ID: "u-new", Name: input.Name, Email: input.Email, Role: auth.RoleUser}
	return user, f.registerErr
}

func (f *fakeService) Login(_ context.Context, email, password string) (auth.LoginResult, error) {
	if password != "secret1" {
		return auth.LoginResult{}, apperror.Unauthorized("invalid email or password")
	}
	return auth.LoginResult{Token: "tok", User: auth.User{ID: "u1", Email: email}}, nil
}

func (f *fakeService) Profile(_ context.Context, userID string) (auth.User, error) {
	return auth.User{ID: userID, Role: auth.RoleAdmin}, nil
}

func (f *fakeService) UpdateRole(_ context.Context, actorID, userID, role string) (auth.User, error) {
	f.roleCalls = append(f.roleCalls, actorID+">"+userID+">"+role)
	return auth.User{ID: userID, Role: role}, nil
}

func (f *fakeService) ListUsers(context.Context, auth.UserFilter) ([]auth.User, int, error) {
	return nil, 0, nil
}

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) {
	return true, nil
}

type response struct {
	Status string              `json:"status"`
	Code   int                 `json:"code"`
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors"`
}

func newRouter(svc *fakeService) http.Handler {
	h := NewHandler(svc, allowAll{})
	r := chi.NewRouter()
	h.RegisterPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := middleware.WithUser(req.Context(), auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		h.RegisterRoutes(r)
	})
	return r
}

func do(t *testing.T, handler http.Handler, method, path, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func TestRegisterValidatesPayload(t *testing.T) {
	svc := &fakeService{}
	code, out := do(t, newRouter(svc), http.MethodPost, "/auth/register", `{"name":"A","email":"bad","password":"123"}`)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	for _, field := range []string{"name", "email", "password"} {
		if len(out.Errors[field]) == 0 {
			t.Fatalf("expected %s error, got %+v", field, out.Errors)
		}
	}
	if len(svc.registered) != 0 {
		t.Fatal("service must not be called on invalid payload")
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	svc := &fakeService{}
	code, out := do(t, newRouter(svc), http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	if code != http.StatusCreated || out.Status != "success" {
		t.Fatalf("expected 201 success, got %d %+v", code, out)
	}
	if len(svc.registered) != 1 || svc.registered[0].Email != "ann@example.com" {
		t.Fatalf("unexpected register calls %+v", svc.registered)
	}
}

func TestRegisterEmailFailureReturns503(t *testing.T) {
	svc := &fakeService{registerErr: apperror.Unavailable("email_delivery_failed", "welcome email failed", errors.New("smtp down"))}
	code, out := do(t, newRouter(svc), http.MethodPost, "/auth/register", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	if code != http.StatusServiceUnavailable || out.Status != "error" {
		t.Fatalf("expected 503 error, got %d %+v", code, out)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	code, out := do(t, newRouter(&fakeService{}), http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"nope"}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if len(out.Errors[apperror.FieldMessage]) != 1 {
		t.Fatalf("expected message error, got %+v", out.Errors)
	}
}

func TestUpdateRolePassesActor(t *testing.T) {
	svc := &fakeService{}
	target := "7b0f2a55-7d7b-4c55-8b3c-6f0d3c1e9a10"
	code, _ := do(t, newRouter(svc), http.MethodPut, "/users/"+target+"/role", `{"role":"ADMIN"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(svc.roleCalls) != 1 || svc.roleCalls[0] != "admin-1>"+target+">ADMIN" {
		t.Fatalf("unexpected role calls %+v", svc.roleCalls)
	}
}

func TestListUsersReturnsPagination(t *testing.T) {
	code, out := do(t, newRouter(&fakeService{}), http.MethodGet, "/users?page=1&limit=5", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var data struct {
		Users      []auth.User `json:"users"`
		Pagination struct {
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Users == nil || data.Pagination.Limit != 5 {
		t.Fatalf("unexpected data %s", out.Data)
	}
}
