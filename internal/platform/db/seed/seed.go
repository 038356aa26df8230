package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrkpi/internal/domain/auth"
	"hrkpi/internal/platform/config"
)

type seedDivision struct {
	name        string
	description string
	weight      float64
}

var referenceDivisions = []seedDivision{
	{name: "HR", description: "Human Resources Department", weight: 25},
	{name: "IT", description: "Information Technology Department", weight: 30},
	{name: "Finance", description: "Finance Department", weight: 25},
	{name: "Marketing", description: "Marketing Department", weight: 20},
}

var referencePositions = map[string]string{
	"Staff":        "Staff level position",
	"Senior Staff": "Senior staff level position",
	"Manager":      "Manager level position",
	"Director":     "Director level position",
}

var referenceKPIs = []string{
	"Attendance Rate",
	"Job Performance",
	"Teamwork & Collaboration",
	"Innovation & Creativity",
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if strings.TrimSpace(cfg.SeedAdminEmail) != "" && cfg.SeedAdminPassword != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	if !cfg.SeedReferenceData {
		return nil
	}
	if err := ensureDivisions(ctx, pool); err != nil {
		return err
	}
	if err := ensurePositions(ctx, pool); err != nil {
		return err
	}
	return ensureKPIs(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, name, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", strings.ToLower(email)).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role, verified)
    VALUES ($1,$2,$3,$4,true)
    ON CONFLICT (email) DO NOTHING
  `, name, strings.ToLower(email), hash, auth.RoleAdmin)
	return err
}

func ensureDivisions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, division := range referenceDivisions {
		if _, err := pool.Exec(ctx, `
      INSERT INTO divisions (name, description, weight)
      VALUES ($1,$2,$3)
      ON CONFLICT (name) DO NOTHING
    `, division.name, division.description, division.weight); err != nil {
			return err
		}
	}
	return nil
}

func ensurePositions(ctx context.Context, pool *pgxpool.Pool) error {
	for name, description := range referencePositions {
		if _, err := pool.Exec(ctx, `
      INSERT INTO positions (name, description)
      VALUES ($1,$2)
      ON CONFLICT (name) DO NOTHING
    `, name, description); err != nil {
			return err
		}
	}
	return nil
}

func ensureKPIs(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range referenceKPIs {
		if _, err := pool.Exec(ctx, "INSERT INTO kpis (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return err
		}
	}
	return nil
}
