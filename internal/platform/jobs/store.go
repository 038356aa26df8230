package jobs

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type Run struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
}

type RunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time // exclusive
}

func (s *Service) ListRuns(ctx context.Context, filter RunFilter, limit, offset int) ([]Run, error) {
	query, args := buildRunsBaseQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var detailsRaw []byte
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(detailsRaw)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Service) CountRuns(ctx context.Context, filter RunFilter) (int, error) {
	query, args := buildRunsBaseQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") job_runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildRunsBaseQuery(filter RunFilter) (string, []any) {
	query := `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE 1=1
  `
	var args []any

	if value := strings.TrimSpace(filter.JobType); value != "" {
		query += " AND job_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		query += " AND started_at >= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedFrom)
	}
	if filter.StartedTo != nil && !filter.StartedTo.IsZero() {
		query += " AND started_at < $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedTo)
	}
	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return details
}
