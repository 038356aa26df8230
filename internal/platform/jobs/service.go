package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"hrkpi/internal/platform/querier"
)

const (
	JobKPIReminder = "kpi_reminder"
	JobRetention   = "retention"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	defaultQueueSize = 128
)

// Func does the work of one job run. Its result is stored as the run details.
type Func func(ctx context.Context) (any, error)

// Recorder counts finished runs.
type Recorder interface {
	RecordJob(failed bool)
}

type Service struct {
	DB      querier.Querier
	Metrics Recorder
	queue   chan job
	cron    *cron.Cron
}

type job struct {
	Type string
	Run  Func
}

func New(db querier.Querier) *Service {
	return newService(db, defaultQueueSize)
}

func newService(db querier.Querier, queueSize int) *Service {
	logger := slogCronLogger{}
	return &Service{
		DB:    db,
		queue: make(chan job, queueSize),
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Schedule enqueues run on every tick of the standard five-field cron spec.
func (s *Service) Schedule(spec, jobType string, run Func) error {
	if _, err := s.cron.AddFunc(spec, func() { s.Enqueue(jobType, run) }); err != nil {
		return fmt.Errorf("schedule %s: %w", jobType, err)
	}
	return nil
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once running cron
// callbacks have returned.
func (s *Service) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Service) Enqueue(jobType string, run Func) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run Func) (Run, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (Run, error) {
	run := Run{JobType: j.Type, Status: StatusRunning, StartedAt: time.Now().UTC()}
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id, started_at
  `, j.Type, StatusRunning).Scan(&run.ID, &run.StartedAt); err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	details, err := j.Run(ctx)
	run.Status = StatusCompleted
	if err != nil {
		run.Status = StatusFailed
		details = map[string]any{"error": err.Error(), "result": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "jobType", j.Type, "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	run.Details = decodeDetails(detailsJSON)
	if s.Metrics != nil {
		s.Metrics.RecordJob(err != nil)
	}
	completedAt := time.Now().UTC()
	run.CompletedAt = &completedAt

	if run.ID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = $3
      WHERE id = $4
    `, run.Status, detailsJSON, completedAt, run.ID); updErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	return run, err
}

// slogCronLogger routes scheduler diagnostics into the default slog logger.
type slogCronLogger struct{}

func (slogCronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Warn("cron: "+msg, append(keysAndValues, "err", err)...)
}
