package jobshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/apperror"
	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/platform/jobs"
	"hrkpi/internal/transport/http/middleware"
)

type fakeRunner struct {
	filter  jobs.RunFilter
	jobType string
	result  any
}

func (f *fakeRunner) RunNow(ctx context.Context, jobType string, run jobs.Func) (jobs.Run, error) {
	f.jobType = jobType
	result, err := run(ctx)
	f.result = result
	status := jobs.StatusCompleted
	if err != nil {
		status = jobs.StatusFailed
	}
	return jobs.Run{ID: "run-1", JobType: jobType, Status: status}, err
}

func (f *fakeRunner) ListRuns(_ context.Context, filter jobs.RunFilter, _, _ int) ([]jobs.Run, error) {
	f.filter = filter
	return nil, nil
}

func (f *fakeRunner) CountRuns(context.Context, jobs.RunFilter) (int, error) {
	return 0, nil
}

type fakeReminders struct {
	now time.Time
	err error
}

func (f *fakeReminders) SendReminders(_ context.Context, now time.Time) (performance.ReminderResult, error) {
	f.now = now
	return performance.ReminderResult{Period: performance.PeriodKey(now), Employees: 3, Recipients: 2}, f.err
}

type recordingAudit struct {
	actions []string
}

func (a *recordingAudit) Record(_ context.Context, _, action, _, _ string, _, _ any) error {
	a.actions = append(a.actions, action)
	return nil
}

type allowAll struct{}

func (allowAll) HasPermission(context.Context, string, string) (bool, error) {
	return true, nil
}

func serve(h *Handler, method, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := auth.UserContext{UserID: "admin-1", Role: auth.RoleAdmin}
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), user)))
		})
	})
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRunRemindersRecordsJobRun(t *testing.T) {
	runner := &fakeRunner{}
	reminders := &fakeReminders{}
	audit := &recordingAudit{}
	h := NewHandler(runner, reminders, allowAll{})
	h.Audit = audit
	h.Now = func() time.Time { return time.Date(2024, 6, 17, 9, 0, 0, 0, time.UTC) }

	rec := serve(h, http.MethodPost, "/jobs/reminders/run")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if runner.jobType != jobs.JobKPIReminder {
		t.Fatalf("unexpected job type %q", runner.jobType)
	}
	result, ok := runner.result.(performance.ReminderResult)
	if !ok || result.Period != "2024-06" || result.Recipients != 2 {
		t.Fatalf("unexpected job result %#v", runner.result)
	}
	if len(audit.actions) != 1 || audit.actions[0] != "jobs.reminders.run" {
		t.Fatalf("unexpected audit %v", audit.actions)
	}

	var out struct {
		Data jobs.Run `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.ID != "run-1" || out.Data.Status != jobs.StatusCompleted {
		t.Fatalf("unexpected run %+v", out.Data)
	}
}

func TestRunRemindersFailureHidesCause(t *testing.T) {
	reminders := &fakeReminders{err: apperror.Internal(errors.New("smtp down"))}
	h := NewHandler(&fakeRunner{}, reminders, allowAll{})

	rec := serve(h, http.MethodPost, "/jobs/reminders/run")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); len(body) == 0 || strings.Contains(body, "smtp down") {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestListRunsParsesDateFilter(t *testing.T) {
	runner := &fakeRunner{}
	h := NewHandler(runner, &fakeReminders{}, allowAll{})

	rec := serve(h, http.MethodGet, "/jobs/runs?jobType=kpi_reminder&startedFrom=2024-06-01&startedTo=2024-06-30")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if runner.filter.JobType != jobs.JobKPIReminder || runner.filter.StartedFrom == nil || runner.filter.StartedTo == nil {
		t.Fatalf("unexpected filter %+v", runner.filter)
	}
	if want := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC); !runner.filter.StartedTo.Equal(want) {
		t.Fatalf("expected exclusive end %v, got %v", want, runner.filter.StartedTo)
	}

	rec = serve(h, http.MethodGet, "/jobs/runs?startedFrom=june")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}
