package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const timeLayout = "2006-01-02 15:04:05"

// Outcome values stored with each run besides the planner failure kinds.
const (
	OutcomePlanned = "planned"
	OutcomeInvalid = "invalid_request"
)

// SearchRun records one plan request and what the search did with it.
type SearchRun struct {
	ID         string
	Channel    string
	TargetKcal float64
	Allergens  []string
	Evaluated  int
	Feasible   int
	Outcome    string
	Latency    time.Duration
	CreatedAt  time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record saves a run and returns its id. A run without an id gets a new
// random one.
func (s *Store) Record(ctx context.Context, run SearchRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	ts := run.CreatedAt
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_runs (id, channel, target_kcal, allergens, evaluated, feasible, outcome, latency_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Channel, run.TargetKcal, strings.Join(run.Allergens, ","),
		run.Evaluated, run.Feasible, run.Outcome, run.Latency.Milliseconds(),
		ts.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record search run: %w", err)
	}
	return run.ID, nil
}

// Get returns a single run by id.
func (s *Store) Get(ctx context.Context, id string) (SearchRun, error) {
	var (
		run       SearchRun
		allergens string
		latencyMS int64
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, channel, target_kcal, allergens, evaluated, feasible, outcome, latency_ms, created_at
		 FROM search_runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Channel, &run.TargetKcal, &allergens, &run.Evaluated, &run.Feasible, &run.Outcome, &latencyMS, &createdAt)
	if err != nil {
		return SearchRun{}, fmt.Errorf("failed to get search run %s: %w", id, err)
	}

	if allergens != "" {
		run.Allergens = strings.Split(allergens, ",")
	}
	run.Latency = time.Duration(latencyMS) * time.Millisecond
	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return SearchRun{}, fmt.Errorf("failed to parse created_at of %s: %w", id, err)
	}
	return run, nil
}

// DailySummary represents search totals for a single day.
type DailySummary struct {
	Date         string
	Runs         int
	Planned      int
	Failed       int
	Evaluated    int
	AvgLatencyMS float64
}

// DailySummary retrieves per-day totals for the last N days, newest first.
func (s *Store) DailySummary(ctx context.Context, days int) ([]DailySummary, error) {
	since := s.now().UTC().AddDate(0, 0, -days).Format(timeLayout)
	rows, err := s.db.QueryContext(ctx,
		`SELECT substr(created_at, 1, 10) AS day,
		        COUNT(*),
		        SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END),
		        SUM(evaluated),
		        AVG(latency_ms)
		 FROM search_runs
		 WHERE created_at >= ?
		 GROUP BY day
		 ORDER BY day DESC`,
		OutcomePlanned, since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summary: %w", err)
	}
	defer rows.Close()

	var results []DailySummary
	for rows.Next() {
		var d DailySummary
		if err := rows.Scan(&d.Date, &d.Runs, &d.Planned, &d.Evaluated, &d.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		d.Failed = d.Runs - d.Planned
		results = append(results, d)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := s.now().UTC().AddDate(0, 0, -olderThanDays).Format(timeLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM search_runs WHERE created_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up search runs: %w", err)
	}
	return res.RowsAffected()
}
