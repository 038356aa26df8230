package jobshandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/platform/jobs"
	"hrkpi/internal/transport/http/api"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/internal/transport/http/shared"
)

type Runner interface {
	RunNow(ctx context.Context, jobType string, run jobs.Func) (jobs.Run, error)
	ListRuns(ctx context.Context, filter jobs.RunFilter, limit, offset int) ([]jobs.Run, error)
	CountRuns(ctx context.Context, filter jobs.RunFilter) (int, error)
}

type ReminderSender interface {
	SendReminders(ctx context.Context, now time.Time) (performance.ReminderResult, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type Handler struct {
	Jobs        Runner
	Reminders   ReminderSender
	Audit       AuditRecorder
	Permissions middleware.PermissionStore
	Now         func() time.Time
}

func NewHandler(runner Runner, reminders ReminderSender, permissions middleware.PermissionStore) *Handler {
	return &Handler{Jobs: runner, Reminders: reminders, Permissions: permissions, Now: time.Now}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermJobsRun, h.Permissions))
		r.Get("/runs", h.handleListRuns)
		r.Post("/reminders/run", h.handleRunReminders)
	})
}

// ReminderJob adapts the reminder sweep to a job function for the scheduler.
func ReminderJob(reminders ReminderSender, now func() time.Time) jobs.Func {
	return func(ctx context.Context) (any, error) {
		return reminders.SendReminders(ctx, now())
	}
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()
	v := shared.NewValidator()
	filter := jobs.RunFilter{JobType: query.Get("jobType"), Status: query.Get("status")}
	if from := query.Get("startedFrom"); from != "" {
		filter.StartedFrom = v.Date("startedFrom", &from)
	}
	if to := query.Get("startedTo"); to != "" {
		if parsed := v.Date("startedTo", &to); parsed != nil {
			end := parsed.AddDate(0, 0, 1)
			filter.StartedTo = &end
		}
	}
	if v.Reject(w, requestID) {
		return
	}
	page := shared.ParsePage(r, shared.DefaultLimit, shared.MaxLimit)

	total, err := h.Jobs.CountRuns(r.Context(), filter)
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	runs, err := h.Jobs.ListRuns(r.Context(), filter, page.Limit, page.Offset())
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if runs == nil {
		runs = []jobs.Run{}
	}
	api.Success(w, shared.ListData("runs", runs, page, total), requestID)
}

func (h *Handler) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	run, err := h.Jobs.RunNow(r.Context(), jobs.JobKPIReminder, ReminderJob(h.Reminders, h.Now))
	if err != nil {
		api.Error(w, err, requestID)
		return
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.UserID, "jobs.reminders.run", "job_run", run.ID, nil, run.Details); err != nil {
			slog.Warn("audit jobs.reminders.run failed", "err", err)
		}
	}
	api.Success(w, run, requestID)
}
