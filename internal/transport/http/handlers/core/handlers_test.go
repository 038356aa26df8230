package corehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/middleware"
)

const (
	employeeUUID = "7b0f2a55-7d7b-4c55-8b3c-6f0d3c1e9a10"
	divisionUUID = "1c7d3a1e-2f44-4d0a-9b55-0b8a3f0e6c21"
)

// fakeService embeds Service so tests only implement what they exercise.
type fakeService struct {
	Service
	createdDivisions []core.DivisionInput
	deleteErr        error
	employee         core.Employee
	listFilter       core.EmployeeFilter
}

func (f *fakeService) CreateDivision(_ context.Context, input core.DivisionInput) (core.Division, error) {
	f.createdDivisions = append(f.createdDivisions, input)
	return core.Division{ID: divisionUUID, Name: input.Name}, nil
}

func (f *fakeService) DeleteDivision(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeService) GetEmployee(_ context.Context, id string) (core.Employee, error) {
	if id != f.employee.ID {
		return core.Employee{}, apperror.NotFound("employee_not_found", "Employee not found")
	}
	return f.employee, nil
}

func (f *fakeService) ListEmployees(_ context.Context, filter core.EmployeeFilter) ([]core.Employee, int, error) {
	f.listFilter = filter
	return []core.Employee{f.employee}, 1, nil
}

type fakeAssessments struct {
	filter performance.AssessmentFilter
	items  []performance.Assessment
}

func (f *fakeAssessments) ListAssessments(_ context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, int, error) {
	f.filter = filter
	return f.items, len(f.items), nil
}

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) {
	return true, nil
}

type response struct {
	Status string              `json:"status"`
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors"`
}

func serve(t *testing.T, h *Handler, viewer auth.UserContext, method, path, body string) (int, response) {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), viewer)))
		})
	})
	h.RegisterRoutes(r)

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

var admin = auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}

func TestCreateDivisionRequiresName(t *testing.T) {
	svc := &fakeService{}
	code, out := serve(t, NewHandler(svc, nil, allowAll{}), admin, http.MethodPost, "/divisions", `{"weight":-1}`)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if len(out.Errors["name"]) == 0 || len(out.Errors["weight"]) == 0 {
		t.Fatalf("expected name and weight errors, got %+v", out.Errors)
	}
	if len(svc.createdDivisions) != 0 {
		t.Fatal("service must not be called")
	}

	code, _ = serve(t, NewHandler(svc, nil, allowAll{}), admin, http.MethodPost, "/divisions", `{"name":"Sales","weight":10}`)
	if code != http.StatusCreated || len(svc.createdDivisions) != 1 {
		t.Fatalf("expected 201 and one create, got %d %+v", code, svc.createdDivisions)
	}
}

func TestDeleteDivisionWithEmployeesConflicts(t *testing.T) {
	svc := &fakeService{deleteErr: apperror.Conflict("division_has_employees", "Cannot delete division with existing employees")}
	code, out := serve(t, NewHandler(svc, nil, allowAll{}), admin, http.MethodDelete, "/divisions/"+divisionUUID, "")
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if out.Errors[apperror.FieldMessage][0] != "Cannot delete division with existing employees" {
		t.Fatalf("unexpected errors %+v", out.Errors)
	}
}

func TestGetEmployeeMalformedIDIsNotFound(t *testing.T) {
	code, _ := serve(t, NewHandler(&fakeService{}, nil, allowAll{}), admin, http.MethodGet, "/employees/123", "")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestGetEmployeeIncludesRoundedRecentAssessments(t *testing.T) {
	pnos := "P-1"
	svc := &fakeService{employee: core.Employee{
		ID:         employeeUUID,
		PNOSNumber: &pnos,
		User:       &core.LinkedUser{ID: "someone-else", Name: "Ann", Email: "ann@example.com"},
	}}
	assessments := &fakeAssessments{items: []performance.Assessment{{
		ID:          "a1",
		EmployeeID:  employeeUUID,
		Score:       33.3333,
		Achievement: 6.66666,
		Period:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}}
	viewer := auth.UserContext{UserID: "viewer-1", Role: auth.RoleUser}

	code, out := serve(t, NewHandler(svc, assessments, allowAll{}), viewer, http.MethodGet, "/employees/"+employeeUUID, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if assessments.filter.EmployeeID != employeeUUID || assessments.filter.Limit != recentAssessmentLimit {
		t.Fatalf("unexpected filter %+v", assessments.filter)
	}

	var detail struct {
		PNOSNumber        *string                  `json:"pnosNumber"`
		User              core.LinkedUser          `json:"user"`
		RecentAssessments []performance.Assessment `json:"recentAssessments"`
	}
	if err := json.Unmarshal(out.Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.PNOSNumber != nil || detail.User.Email != "" {
		t.Fatalf("expected personal fields masked, got %+v", detail)
	}
	if len(detail.RecentAssessments) != 1 || detail.RecentAssessments[0].Score != 33.33 || detail.RecentAssessments[0].Achievement != 6.67 {
		t.Fatalf("unexpected assessments %+v", detail.RecentAssessments)
	}
}

func TestListEmployeesValidatesFilters(t *testing.T) {
	svc := &fakeService{employee: core.Employee{ID: employeeUUID}}
	h := NewHandler(svc, nil, allowAll{})

	code, out := serve(t, h, admin, http.MethodGet, "/employees?divisionId=abc", "")
	if code != http.StatusUnprocessableEntity || len(out.Errors["divisionId"]) == 0 {
		t.Fatalf("expected divisionId error, got %d %+v", code, out.Errors)
	}

	code, _ = serve(t, h, admin, http.MethodGet, "/employees?page=2&limit=5&search=ann&divisionId="+divisionUUID, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	want := core.EmployeeFilter{Search: "ann", DivisionID: divisionUUID, Limit: 5, Offset: 5}
	if svc.listFilter != want {
		t.Fatalf("expected filter %+v, got %+v", want, svc.listFilter)
	}
}

func TestUpdateEmployeeRejectsUserChange(t *testing.T) {
	code, out := serve(t, NewHandler(&fakeService{}, nil, allowAll{}), admin, http.MethodPut, "/employees/"+employeeUUID, `{"userId":"`+divisionUUID+`"}`)
	if code != http.StatusUnprocessableEntity || len(out.Errors["userId"]) == 0 {
		t.Fatalf("expected userId error, got %d %+v", code, out.Errors)
	}
}
