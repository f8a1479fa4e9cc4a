// Package observability records one row per menu run in a local SQLite
// database, so a cron-driven deployment can be inspected after the fact.
package observability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mensawerk/mensamail/idgen"
)

// Schema creates the run-log table. Pass to dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS menu_runs (
	run_id     TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	dish_count INTEGER NOT NULL,
	per_day    TEXT,
	success    INTEGER NOT NULL,
	detail     TEXT
);
`

// Run summarises one execution of the pipeline.
type Run struct {
	StartedAt time.Time
	PerDay    map[string]int
	Success   bool
	Detail    string // optional error or degradation note
}

// RunLogger writes run records.
type RunLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// RunLoggerOption configures a RunLogger.
type RunLoggerOption func(*RunLogger)

// WithIDGenerator sets a custom ID generator for run IDs.
func WithIDGenerator(gen idgen.Generator) RunLoggerOption {
	return func(l *RunLogger) { l.newID = gen }
}

// NewRunLogger creates a logger backed by the given database.
func NewRunLogger(db *sql.DB, opts ...RunLoggerOption) *RunLogger {
	l := &RunLogger{
		db:    db,
		newID: idgen.Prefixed("run_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LogRun records a run. Non-blocking policy: errors are logged via slog but
// do not propagate, so a failing run log never fails the run itself.
func (l *RunLogger) LogRun(ctx context.Context, run Run) {
	total := 0
	for _, n := range run.PerDay {
		total += n
	}
	perDay, err := json.Marshal(run.PerDay)
	if err != nil {
		perDay = []byte("{}")
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO menu_runs (run_id, started_at, dish_count, per_day, success, detail)
		VALUES (?,?,?,?,?,?)`,
		l.newID(), run.StartedAt.Unix(), total, string(perDay), run.Success, run.Detail)
	if err != nil {
		slog.Error("run log write failed", "error", err)
	}
}

// Cleanup deletes run records older than the given number of days. Zero or
// negative means no cleanup.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days*86400)
	if _, err := db.ExecContext(ctx, `DELETE FROM menu_runs WHERE started_at < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup menu_runs: %w", err)
	}
	return nil
}
