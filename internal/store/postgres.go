package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyagen/tvgrab/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) StartRun(ctx context.Context, run *models.Run) error {
	err := p.pool.QueryRow(ctx,
		`INSERT INTO runs (started_at, days, day_offset) VALUES ($1, $2, $3) RETURNING id`,
		run.StartedAt, run.Days, run.Offset,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("StartRun: %w", err)
	}
	return nil
}

func (p *Postgres) RecordCycle(ctx context.Context, runID int64, c models.CycleOutcome) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO cycles (run_id, channel_id, day, url, programmes, error)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, c.ChannelID, c.Date, c.URL, c.Programmes, c.Error,
	)
	if err != nil {
		return fmt.Errorf("RecordCycle: %w", err)
	}
	return nil
}

func (p *Postgres) FinishRun(ctx context.Context, run *models.Run) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE runs SET finished_at = $1, cycles = $2, failures = $3, programmes = $4 WHERE id = $5`,
		run.FinishedAt, run.Cycles, run.Failures, run.Programmes, run.ID,
	)
	if err != nil {
		return fmt.Errorf("FinishRun: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("FinishRun %d: %w", run.ID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) GetRun(ctx context.Context, runID int64) (*models.Run, error) {
	var r models.Run
	err := p.pool.QueryRow(ctx,
		`SELECT id, started_at, finished_at, days, day_offset, cycles, failures, programmes
		 FROM runs WHERE id = $1`, runID,
	).Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Days, &r.Offset, &r.Cycles, &r.Failures, &r.Programmes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("GetRun %d: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetRun: %w", err)
	}
	return &r, nil
}

func (p *Postgres) ListCycles(ctx context.Context, runID int64) ([]models.CycleOutcome, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT channel_id, day, url, programmes, error FROM cycles WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("ListCycles: %w", err)
	}
	defer rows.Close()

	var out []models.CycleOutcome
	for rows.Next() {
		var c models.CycleOutcome
		var day time.Time
		if err := rows.Scan(&c.ChannelID, &day, &c.URL, &c.Programmes, &c.Error); err != nil {
			return nil, fmt.Errorf("ListCycles scan: %w", err)
		}
		c.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, c)
	}
	return out, rows.Err()
}
