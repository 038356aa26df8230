package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrkpi/internal/domain/audit"
	"hrkpi/internal/domain/auth"
	"hrkpi/internal/domain/core"
	"hrkpi/internal/domain/notifications"
	"hrkpi/internal/domain/performance"
	"hrkpi/internal/domain/reports"
	"hrkpi/internal/domain/retention"
	"hrkpi/internal/platform/archive"
	"hrkpi/internal/platform/config"
	"hrkpi/internal/platform/db"
	"hrkpi/internal/platform/db/seed"
	"hrkpi/internal/platform/email"
	"hrkpi/internal/platform/jobs"
	"hrkpi/internal/platform/metrics"
	"hrkpi/internal/platform/realtime"
	"hrkpi/internal/transport/http/api"
	audithandler "hrkpi/internal/transport/http/handlers/audit"
	authhandler "hrkpi/internal/transport/http/handlers/auth"
	corehandler "hrkpi/internal/transport/http/handlers/core"
	jobshandler "hrkpi/internal/transport/http/handlers/jobs"
	notificationshandler "hrkpi/internal/transport/http/handlers/notifications"
	performancehandler "hrkpi/internal/transport/http/handlers/performance"
	reportshandler "hrkpi/internal/transport/http/handlers/reports"
	"hrkpi/internal/transport/http/middleware"
	"hrkpi/migrations"
)

const (
	rateLimitWindow = time.Minute
	shutdownTimeout = 15 * time.Second
)

type App struct {
	Config  config.Config
	Pool    *pgxpool.Pool
	Router  http.Handler
	Hub     *realtime.Hub
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// services groups the domain services the router is built from.
type services struct {
	auth          *auth.Service
	core          *core.Service
	performance   *performance.Service
	reports       *reports.Service
	notifications *notifications.Service
	audit         *audit.Service
}

// New connects to the database, prepares the schema and assembles the HTTP
// router. Background work starts with Run.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := seed.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	reportArchive, err := archive.New(ctx, cfg.ReportArchive)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("report archive: %w", err)
	}

	app := &App{
		Config:  cfg,
		Pool:    pool,
		Hub:     realtime.NewHub(cfg.WSAllowedOrigins),
		Jobs:    jobs.New(pool),
		Metrics: metrics.New(),
	}
	app.Jobs.Metrics = app.Metrics

	svcs := app.buildServices(reportArchive)
	if cfg.RemindersEnabled {
		reminder := jobshandler.ReminderJob(svcs.performance, time.Now)
		if err := app.Jobs.Schedule(cfg.ReminderSchedule, jobs.JobKPIReminder, reminder); err != nil {
			app.Close()
			return nil, err
		}
	}
	if cfg.Retention.Enabled() {
		policies := retentionPolicies(cfg.Retention)
		sweep := func(ctx context.Context) (any, error) {
			return retention.Run(ctx, pool, policies, time.Now())
		}
		if err := app.Jobs.Schedule(cfg.Retention.Schedule, jobs.JobRetention, sweep); err != nil {
			app.Close()
			return nil, err
		}
	}
	app.Router = app.routes(svcs)
	return app, nil
}

func retentionPolicies(cfg config.RetentionConfig) []retention.Policy {
	day := 24 * time.Hour
	return []retention.Policy{
		{Category: retention.CategoryAuditEvents, MaxAge: time.Duration(cfg.AuditDays) * day},
		{Category: retention.CategoryNotifications, MaxAge: time.Duration(cfg.NotificationsDays) * day},
		{Category: retention.CategoryJobRuns, MaxAge: time.Duration(cfg.JobRunsDays) * day},
	}
}

func (a *App) buildServices(reportArchive *archive.S3Archive) services {
	cfg := a.Config
	mailer := email.New(cfg)
	auditSvc := audit.New(a.Pool)

	notifySvc := notifications.New(notifications.NewStore(a.Pool), a.Hub)
	notifySvc.Metrics = a.Metrics
	notifySvc.DefaultFrom = cfg.EmailFrom
	if cfg.EmailEnabled && cfg.EmailNotifications {
		notifySvc.Mailer = mailer
		notifySvc.EmailMirror = true
	}

	authSvc := auth.NewService(auth.NewStore(a.Pool), cfg.JWTSecret, cfg.TokenTTL)
	authSvc.Notifier = notifySvc
	authSvc.Audit = auditSvc
	if cfg.EmailEnabled {
		authSvc.Mailer = mailer
		authSvc.EmailFrom = cfg.EmailFrom
	}

	coreSvc := core.NewService(core.NewStore(a.Pool))
	coreSvc.Notifier = notifySvc
	coreSvc.Audit = auditSvc

	perfSvc := performance.NewService(performance.NewStore(a.Pool))
	perfSvc.Notifier = notifySvc
	perfSvc.Audit = auditSvc

	reportsSvc := reports.NewService(reports.NewStore(a.Pool), perfSvc, coreSvc)
	reportsSvc.Notifier = notifySvc
	if reportArchive != nil {
		reportsSvc.Archive = reportArchive
	}

	return services{
		auth:          authSvc,
		core:          coreSvc,
		performance:   perfSvc,
		reports:       reportsSvc,
		notifications: notifySvc,
		audit:         auditSvc,
	}
}

func (a *App) routes(s services) http.Handler {
	cfg := a.Config
	perms := s.auth

	router := chi.NewRouter()
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(a.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, rateLimitWindow))
	router.Use(middleware.SensitiveRateLimit(cfg.RateLimitPerMinute, rateLimitWindow))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "Route not found", middleware.GetRequestID(r.Context()))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusMethodNotAllowed, "Method not allowed", middleware.GetRequestID(r.Context()))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	authHandler := authhandler.NewHandler(s.auth, perms)
	notificationsHandler := notificationshandler.NewHandler(s.notifications, a.Hub)
	jobsHandler := jobshandler.NewHandler(a.Jobs, s.performance, perms)
	jobsHandler.Audit = s.audit

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			notificationsHandler.RegisterChannelRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(chimw.Timeout(cfg.RequestTimeout))

			authHandler.RegisterRoutes(r)
			corehandler.NewHandler(s.core, s.performance, perms).RegisterRoutes(r)
			performancehandler.NewHandler(s.performance, perms).RegisterRoutes(r)
			reportshandler.NewHandler(s.reports, perms).RegisterRoutes(r)
			notificationsHandler.RegisterRoutes(r)
			audithandler.NewHandler(s.audit, perms).RegisterRoutes(r)
			jobsHandler.RegisterRoutes(r)
		})
	})

	return router
}

// Run serves HTTP and the background job worker until ctx is cancelled, then
// drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	<-a.Jobs.Stop().Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	a.Hub.Close()
	a.Pool.Close()
}
