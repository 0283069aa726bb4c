package store

import (
	"context"
	"errors"
	"strings"

	"github.com/voyagen/tvgrab/internal/models"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Store records grab runs and the outcome of each cycle.
type Store interface {
	// StartRun inserts run and sets its ID.
	StartRun(ctx context.Context, run *models.Run) error
	// RecordCycle stores one cycle outcome for the run.
	RecordCycle(ctx context.Context, runID int64, c models.CycleOutcome) error
	// FinishRun stores the run's finish time and totals.
	FinishRun(ctx context.Context, run *models.Run) error

	// GetRun returns a run by id.
	GetRun(ctx context.Context, runID int64) (*models.Run, error)
	// ListCycles returns a run's cycles in the order they were recorded.
	ListCycles(ctx context.Context, runID int64) ([]models.CycleOutcome, error)

	Close() error
}

// Open picks a backend from the DSN: postgres:// and postgresql:// URLs use
// Postgres (migrations applied first), anything else is a SQLite path.
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		pg, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pg, nil
	}
	s, err := NewSQLite(dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}

const dayLayout = "2006-01-02"
