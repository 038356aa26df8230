// Package retention prunes operational records that have outlived their
// configured age. Assessments and organisation data are never touched.
package retention

import (
	"context"
	"fmt"
	"time"

	"hrkpi/internal/platform/querier"
)

const (
	CategoryAuditEvents   = "audit_events"
	CategoryNotifications = "read_notifications"
	CategoryJobRuns       = "job_runs"
)

// Policy keeps records of Category for MaxAge. A zero MaxAge keeps them
// forever.
type Policy struct {
	Category string
	MaxAge   time.Duration
}

type Result struct {
	Deleted map[string]int64 `json:"deleted"`
	RanAt   time.Time        `json:"ranAt"`
}

// Apply deletes the records of category created before cutoff.
func Apply(ctx context.Context, db querier.Querier, category string, cutoff time.Time) (int64, error) {
	var query string
	switch category {
	case CategoryAuditEvents:
		query = `DELETE FROM audit_events WHERE created_at < $1`
	case CategoryNotifications:
		query = `DELETE FROM notifications WHERE is_read AND created_at < $1`
	case CategoryJobRuns:
		query = `DELETE FROM job_runs WHERE completed_at IS NOT NULL AND started_at < $1`
	default:
		return 0, fmt.Errorf("unknown retention category %q", category)
	}
	tag, err := db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("apply %s retention: %w", category, err)
	}
	return tag.RowsAffected(), nil
}

// Run applies every active policy relative to now and stops at the first
// failure, returning the counts gathered so far.
func Run(ctx context.Context, db querier.Querier, policies []Policy, now time.Time) (Result, error) {
	result := Result{Deleted: map[string]int64{}, RanAt: now.UTC()}
	for _, p := range policies {
		if p.MaxAge <= 0 {
			continue
		}
		deleted, err := Apply(ctx, db, p.Category, now.Add(-p.MaxAge))
		result.Deleted[p.Category] = deleted
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

