package performancehandler

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
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/transport/http/middleware"
)

const (
	employeeUUID = "7b0f2a55-7d7b-4c55-8b3c-6f0d3c1e9a10"
	kpiUUID      = "1c7d3a1e-2f44-4d0a-9b55-0b8a3f0e6c21"
)

type fakeService struct {
	Service
	created     []performance.AssessmentInput
	createErr   error
	listFilter  performance.AssessmentFilter
	historyFor  string
	listResults []performance.Assessment
}

func (f *fakeService) CreateAssessment(_ context.Context, actorID string, input performance.AssessmentInput) (performance.Assessment, error) {
	f.created = append(f.created, input)
	if f.createErr != nil {
		return performance.Assessment{}, f.createErr
	}
	score := performance.ComputeScore(*input.Target, *input.Actual)
	return performance.Assessment{
		ID:          "a1",
		EmployeeID:  input.EmployeeID,
		KPIID:       input.KPIID,
		Weight:      *input.Weight,
		Target:      *input.Target,
		Actual:      *input.Actual,
		Score:       score,
		Achievement: performance.ComputeAchievement(*input.Weight, score),
		CreatedBy:   &actorID,
	}, nil
}

func (f *fakeService) ListAssessments(_ context.Context, filter performance.AssessmentFilter) ([]performance.Assessment, int, error) {
	f.listFilter = filter
	return f.listResults, len(f.listResults), nil
}

func (f *fakeService) EmployeeHistory(_ context.Context, employeeID string, _ performance.AssessmentFilter) (performance.EmployeeHistory, error) {
	f.historyFor = employeeID
	items := []performance.Assessment{{Score: 110, Achievement: 33}, {Score: 50, Achievement: 10}}
	return performance.EmployeeHistory{EmployeeID: employeeID, Assessments: items, Summary: performance.Summarize(items).Rounded()}, nil
}

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) {
	return true, nil
}

type response struct {
	Data   json.RawMessage     `json:"data"`
	Errors map[string][]string `json:"errors"`
}

func serve(t *testing.T, svc *fakeService, method, path, body string) (int, response) {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	NewHandler(svc, allowAll{}).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, bytes.NewBufferString(body)))
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, out
}

func TestCreateAssessmentRequiresFields(t *testing.T) {
	svc := &fakeService{}
	code, out := serve(t, svc, http.MethodPost, "/assessments", `{"employeeId":"nope","weight":30}`)
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	for _, field := range []string{"employeeId", "kpiId", "target", "actual", "period"} {
		if len(out.Errors[field]) == 0 {
			t.Fatalf("expected %s error, got %+v", field, out.Errors)
		}
	}
	if len(out.Errors["weight"]) != 0 {
		t.Fatalf("weight was supplied, got %+v", out.Errors["weight"])
	}
	if len(svc.created) != 0 {
		t.Fatal("service must not be called")
	}
}

func TestCreateAssessmentReturnsComputedValues(t *testing.T) {
	svc := &fakeService{}
	body := `{"employeeId":"` + employeeUUID + `","kpiId":"` + kpiUUID + `","weight":30,"target":90,"actual":99,"period":"2024-05"}`
	code, out := serve(t, svc, http.MethodPost, "/assessments", body)
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %+v", code, out.Errors)
	}
	var a performance.Assessment
	if err := json.Unmarshal(out.Data, &a); err != nil {
		t.Fatalf("decode assessment: %v", err)
	}
	if a.Score != 110 || a.Achievement != 33 {
		t.Fatalf("expected score 110 and achievement 33, got %v %v", a.Score, a.Achievement)
	}
	if a.CreatedBy == nil || *a.CreatedBy != "admin-1" {
		t.Fatalf("expected actor to be passed, got %v", a.CreatedBy)
	}
}

func TestCreateDuplicateAssessmentConflicts(t *testing.T) {
	svc := &fakeService{createErr: apperror.ConflictField("duplicate_assessment", "assessment", "Assessment for this employee, KPI, and period already exists")}
	body := `{"employeeId":"` + employeeUUID + `","kpiId":"` + kpiUUID + `","weight":30,"target":90,"actual":99,"period":"2024-05"}`
	code, out := serve(t, svc, http.MethodPost, "/assessments", body)
	if code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", code)
	}
	if len(out.Errors["assessment"]) != 1 {
		t.Fatalf("expected assessment conflict, got %+v", out.Errors)
	}
}

func TestListAssessmentsParsesFilter(t *testing.T) {
	svc := &fakeService{listResults: []performance.Assessment{{ID: "a1", Score: 12.345678}}}
	code, out := serve(t, svc, http.MethodGet, "/assessments?employeeId="+employeeUUID+"&period=2024-05&page=2&limit=3", "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", code, out.Errors)
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if svc.listFilter.EmployeeID != employeeUUID || !svc.listFilter.Period.Equal(want) {
		t.Fatalf("unexpected filter %+v", svc.listFilter)
	}
	if svc.listFilter.Limit != 3 || svc.listFilter.Offset != 3 {
		t.Fatalf("unexpected paging %+v", svc.listFilter)
	}
	var data struct {
		Assessments []performance.Assessment `json:"assessments"`
	}
	if err := json.Unmarshal(out.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Assessments) != 1 || data.Assessments[0].Score != 12.35 {
		t.Fatalf("expected rounded score, got %+v", data.Assessments)
	}
}

func TestListAssessmentsRejectsBadFilters(t *testing.T) {
	cases := []struct {
		query string
		field string
	}{
		{"period=2024-13", "period"},
		{"startDate=2024-05-10&endDate=2024-05-01", "endDate"},
		{"startDate=yesterday", "startDate"},
		{"kpiId=42", "kpiId"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			code, out := serve(t, &fakeService{}, http.MethodGet, "/assessments?"+tc.query, "")
			if code != http.StatusUnprocessableEntity || len(out.Errors[tc.field]) == 0 {
				t.Fatalf("expected %s error, got %d %+v", tc.field, code, out.Errors)
			}
		})
	}
}

func TestEmployeeHistoryRoute(t *testing.T) {
	svc := &fakeService{}
	code, out := serve(t, svc, http.MethodGet, "/assessments/employee/"+employeeUUID, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if svc.historyFor != employeeUUID {
		t.Fatalf("history requested for %q", svc.historyFor)
	}
	var history performance.EmployeeHistory
	if err := json.Unmarshal(out.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Summary.TotalAssessments != 2 || history.Summary.AverageScore != 80 || history.Summary.TotalAchievement != 43 {
		t.Fatalf("unexpected summary %+v", history.Summary)
	}
}
