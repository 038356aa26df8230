package retention

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql    string
	cutoff time.Time
}

type fakeDB struct {
	calls  []execCall
	failOn string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, cutoff: args[0].(time.Time)})
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	return pgconn.NewCommandTag("DELETE 2"), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestRunSkipsDisabledPolicies(t *testing.T) {
	db := &fakeDB{}
	now := time.Date(2024, 6, 1, 3, 30, 0, 0, time.UTC)
	result, err := Run(context.Background(), db, []Policy{
		{Category: CategoryAuditEvents, MaxAge: 0},
		{Category: CategoryNotifications, MaxAge: 90 * 24 * time.Hour},
	}, now)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.calls) != 1 || !strings.Contains(db.calls[0].sql, "is_read") {
		t.Fatalf("unexpected statements %+v", db.calls)
	}
	if want := now.AddDate(0, 0, -90); !db.calls[0].cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, db.calls[0].cutoff)
	}
	if result.Deleted[CategoryNotifications] != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, ok := result.Deleted[CategoryAuditEvents]; ok {
		t.Fatal("disabled category must not be reported")
	}
}

func TestRunStopsOnFailure(t *testing.T) {
	db := &fakeDB{failOn: "audit_events"}
	_, err := Run(context.Background(), db, []Policy{
		{Category: CategoryAuditEvents, MaxAge: time.Hour},
		{Category: CategoryJobRuns, MaxAge: time.Hour},
	}, time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(db.calls) != 1 {
		t.Fatalf("expected to stop after the failing category, got %d calls", len(db.calls))
	}
}

func TestApplyRejectsUnknownCategory(t *testing.T) {
	if _, err := Apply(context.Background(), &fakeDB{}, "assessments", time.Now()); err == nil {
		t.Fatal("expected error")
	}
}

