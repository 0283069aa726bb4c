package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/voyagen/tvgrab/internal/models"
)

const timeLayout = "2006-01-02T15:04:05Z"

//go:embed migrations/sqlite/*.sql
var sqliteMigrations embed.FS

// SQLite implements Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	goose.SetBaseFS(sqliteMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations/sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) StartRun(ctx context.Context, run *models.Run) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, days, day_offset) VALUES (?, ?, ?)`,
		run.StartedAt.UTC().Format(timeLayout), run.Days, run.Offset,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	run.ID = id
	return nil
}

func (s *SQLite) RecordCycle(ctx context.Context, runID int64, c models.CycleOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (run_id, channel_id, day, url, programmes, error) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, c.ChannelID, c.Date.Format(dayLayout), c.URL, c.Programmes, c.Error,
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

func (s *SQLite) FinishRun(ctx context.Context, run *models.Run) error {
	var finished *string
	if run.FinishedAt != nil {
		v := run.FinishedAt.UTC().Format(timeLayout)
		finished = &v
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, cycles = ?, failures = ?, programmes = ? WHERE id = ?`,
		finished, run.Cycles, run.Failures, run.Programmes, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run %d: %w", run.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLite) GetRun(ctx context.Context, runID int64) (*models.Run, error) {
	var (
		r        models.Run
		started  string
		finished sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, days, day_offset, cycles, failures, programmes
		 FROM runs WHERE id = ?`, runID,
	).Scan(&r.ID, &started, &finished, &r.Days, &r.Offset, &r.Cycles, &r.Failures, &r.Programmes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt, _ = time.Parse(timeLayout, started)
	if finished.Valid {
		t, _ := time.Parse(timeLayout, finished.String)
		r.FinishedAt = &t
	}
	return &r, nil
}

func (s *SQLite) ListCycles(ctx context.Context, runID int64) ([]models.CycleOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT channel_id, day, url, programmes, error FROM cycles WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.CycleOutcome
	for rows.Next() {
		var c models.CycleOutcome
		var day string
		if err := rows.Scan(&c.ChannelID, &day, &c.URL, &c.Programmes, &c.Error); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		c.Date, _ = time.Parse(dayLayout, day)
		out = append(out, c)
	}
	return out, rows.Err()
}
