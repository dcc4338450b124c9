package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shorturl-conformance/internal/report"
)

const schema = `
	CREATE TABLE IF NOT EXISTS conformance_runs (
		run_id      TEXT PRIMARY KEY,
		base_url    TEXT NOT NULL,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		passed      INTEGER NOT NULL,
		failed      INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conformance_results (
		run_id         TEXT NOT NULL,
		scenario_order INTEGER NOT NULL,
		name           TEXT NOT NULL,
		status         TEXT NOT NULL,
		failure_kind   TEXT NOT NULL DEFAULT '',
		failures       TEXT[] NOT NULL DEFAULT '{}',
		depends_on     INTEGER[] NOT NULL DEFAULT '{}',
		duration_ms    BIGINT NOT NULL,
		finished_at    TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, scenario_order)
	);
`

// PostgresStore is a PostgreSQL implementation of report.Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed result store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the result tables when they are missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)

	return err
}

func (p *PostgresStore) SaveScenario(ctx context.Context, event *report.ScenarioFinishedEvent) error {
	query := `
		INSERT INTO conformance_results
			(run_id, scenario_order, name, status, failure_kind, failures, depends_on, duration_ms, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, scenario_order) DO UPDATE SET
			status       = EXCLUDED.status,
			failure_kind = EXCLUDED.failure_kind,
			failures     = EXCLUDED.failures,
			duration_ms  = EXCLUDED.duration_ms,
			finished_at  = EXCLUDED.finished_at
	`

	_, err := p.pool.Exec(ctx, query,
		event.RunID,
		event.Order,
		event.Name,
		event.Status,
		event.FailureKind,
		nonNil(event.Failures),
		nonNilInts(event.DependsOn),
		event.Duration.Milliseconds(),
		event.FinishedAt,
	)

	return err
}

func (p *PostgresStore) SaveRun(ctx context.Context, event *report.RunFinishedEvent) error {
	query := `
		INSERT INTO conformance_runs (run_id, base_url, started_at, finished_at, passed, failed)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			passed      = EXCLUDED.passed,
			failed      = EXCLUDED.failed
	`

	_, err := p.pool.Exec(ctx, query,
		event.RunID,
		event.BaseURL,
		event.StartedAt,
		event.FinishedAt,
		event.Passed,
		event.Failed,
	)

	return err
}

// Run reads back a stored run with its scenarios in declared order.
func (p *PostgresStore) Run(ctx context.Context, runID string) (*RunRecord, error) {
	run := &report.RunFinishedEvent{RunID: runID}

	err := p.pool.QueryRow(ctx, `
		SELECT base_url, started_at, finished_at, passed, failed
		FROM conformance_runs
		WHERE run_id = $1
	`, runID).Scan(&run.BaseURL, &run.StartedAt, &run.FinishedAt, &run.Passed, &run.Failed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	rows, err := p.pool.Query(ctx, `
		SELECT scenario_order, name, status, failure_kind, failures, depends_on, duration_ms, finished_at
		FROM conformance_results
		WHERE run_id = $1
		ORDER BY scenario_order
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rec := &RunRecord{Run: run}

	for rows.Next() {
		event := &report.ScenarioFinishedEvent{RunID: runID}

		var durationMS int64

		if err := rows.Scan(
			&event.Order,
			&event.Name,
			&event.Status,
			&event.FailureKind,
			&event.Failures,
			&event.DependsOn,
			&durationMS,
			&event.FinishedAt,
		); err != nil {
			return nil, err
		}

		event.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Scenarios = append(rec.Scenarios, event)
	}

	return rec, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nonNilInts(s []int) []int {
	if s == nil {
		return []int{}
	}

	return s
}

var _ report.Store = (*PostgresStore)(nil)
