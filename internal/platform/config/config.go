package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Addr               string
	DatabaseURL        string
	JWTSecret          string
	TokenTTL           time.Duration
	Environment        string
	SeedAdminName      string
	SeedAdminEmail     string
	SeedAdminPassword  string
	SeedReferenceData  bool
	EmailFrom          string
	EmailEnabled       bool
	EmailNotifications bool
	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPassword       string
	SMTPUseTLS         bool
	RunMigrations      bool
	RunSeed            bool
	MaxBodyBytes       int64
	RateLimitPerMinute int
	RequestTimeout     time.Duration
	ReminderSchedule   string
	RemindersEnabled   bool
	WSAllowedOrigins   []string
	ReportArchive      ArchiveConfig
	MetricsEnabled     bool
	Retention          RetentionConfig
}

// RetentionConfig holds record lifetimes in days. Zero keeps records forever.
type RetentionConfig struct {
	Schedule          string
	AuditDays         int
	NotificationsDays int
	JobRunsDays       int
}

func (r RetentionConfig) Enabled() bool {
	return r.AuditDays > 0 || r.NotificationsDays > 0 || r.JobRunsDays > 0
}

type ArchiveConfig struct {
	Enabled         bool
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

const defaultJWTSecret = "change-me"

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		Environment:        getEnv("APP_ENV", "development"),
		SeedAdminName:      getEnv("SEED_ADMIN_NAME", "Administrator"),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", "admin@example.com"),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedReferenceData:  getEnvBool("SEED_REFERENCE_DATA", true),
		EmailFrom:          getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:       getEnvBool("EMAIL_ENABLED", false),
		EmailNotifications: getEnvBool("EMAIL_NOTIFICATIONS", false),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:         getEnvBool("SMTP_USE_TLS", true),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ReminderSchedule:   getEnv("KPI_REMINDER_SCHEDULE", "0 9 1 * *"),
		RemindersEnabled:   getEnvBool("KPI_REMINDERS_ENABLED", true),
		WSAllowedOrigins:   getEnvList("WS_ALLOWED_ORIGINS"),
		ReportArchive: ArchiveConfig{
			Enabled:         getEnvBool("REPORT_ARCHIVE_ENABLED", false),
			Bucket:          getEnv("REPORT_ARCHIVE_BUCKET", ""),
			Prefix:          getEnv("REPORT_ARCHIVE_PREFIX", "reports/"),
			Region:          getEnv("AWS_REGION", "us-east-1"),
			Endpoint:        getEnv("REPORT_ARCHIVE_ENDPOINT", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		Retention: RetentionConfig{
			Schedule:          getEnv("RETENTION_SCHEDULE", "30 3 * * *"),
			AuditDays:         getEnvInt("AUDIT_RETENTION_DAYS", 0),
			NotificationsDays: getEnvInt("NOTIFICATION_RETENTION_DAYS", 90),
			JobRunsDays:       getEnvInt("JOB_RUN_RETENTION_DAYS", 30),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.RemindersEnabled {
		if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
			return fmt.Errorf("KPI_REMINDER_SCHEDULE is invalid: %w", err)
		}
	}
	if c.Retention.AuditDays < 0 || c.Retention.NotificationsDays < 0 || c.Retention.JobRunsDays < 0 {
		return fmt.Errorf("retention days must not be negative")
	}
	if c.Retention.Enabled() {
		if _, err := cron.ParseStandard(c.Retention.Schedule); err != nil {
			return fmt.Errorf("RETENTION_SCHEDULE is invalid: %w", err)
		}
	}
	if c.ReportArchive.Enabled && strings.TrimSpace(c.ReportArchive.Bucket) == "" {
		return fmt.Errorf("REPORT_ARCHIVE_BUCKET must be set when REPORT_ARCHIVE_ENABLED is true")
	}
	return nil
}
