package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/voyagen/tvgrab/internal/models"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	started := time.Date(2011, 3, 1, 6, 0, 0, 0, time.UTC)
	run := &models.Run{StartedAt: started, Days: 2, Offset: 1}
	if err := s.StartRun(ctx, run); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("StartRun did not set ID")
	}

	cycles := []models.CycleOutcome{
		{ChannelID: 5, Date: time.Date(2011, 3, 2, 0, 0, 0, 0, time.UTC), URL: "http://a/5/2", Programmes: 12},
		{ChannelID: 5, Date: time.Date(2011, 3, 3, 0, 0, 0, 0, time.UTC), URL: "http://a/5/3", Error: "decode: unexpected end of JSON input"},
	}
	for _, c := range cycles {
		if err := s.RecordCycle(ctx, run.ID, c); err != nil {
			t.Fatalf("RecordCycle: %v", err)
		}
	}

	finished := started.Add(90 * time.Second)
	run.FinishedAt = &finished
	run.Cycles, run.Failures, run.Programmes = 2, 1, 12
	if err := s.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("GetRun mismatch (-want +got):\n%s", diff)
	}

	gotCycles, err := s.ListCycles(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListCycles: %v", err)
	}
	if diff := cmp.Diff(cycles, gotCycles); diff != "" {
		t.Errorf("ListCycles mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := newTestDB(t)
	_, err := s.GetRun(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun error = %v, want ErrNotFound", err)
	}
}

func TestFinishRunNotFound(t *testing.T) {
	s := newTestDB(t)
	err := s.FinishRun(context.Background(), &models.Run{ID: 7})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FinishRun error = %v, want ErrNotFound", err)
	}
}

func TestRecordCycleUnknownRun(t *testing.T) {
	s := newTestDB(t)
	err := s.RecordCycle(context.Background(), 42, models.CycleOutcome{ChannelID: 1, Date: time.Now(), URL: "u"})
	if err == nil {
		t.Error("RecordCycle for a missing run succeeded, want foreign key error")
	}
}

func TestOpenSQLite(t *testing.T) {
	st, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*SQLite); !ok {
		t.Errorf("Open(:memory:) = %T, want *SQLite", st)
	}
}
