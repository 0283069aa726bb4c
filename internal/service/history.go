package service

import (
	"context"
	"time"

	"github.com/voyagen/tvgrab/internal/models"
)

// History writes are best effort: a failing store is logged and the run
// continues without it.

func (g *Grabber) startRun(ctx context.Context, days, offset int) *models.Run {
	if g.History == nil {
		return nil
	}
	run := &models.Run{StartedAt: time.Now().UTC(), Days: days, Offset: offset}
	if err := g.History.StartRun(ctx, run); err != nil {
		g.Log.Warn("history: start run", "error", err)
		return nil
	}
	return run
}

func (g *Grabber) recordCycle(ctx context.Context, run *models.Run, r cycleResult) {
	if run == nil {
		return
	}
	out := models.CycleOutcome{
		ChannelID:  r.req.ChannelID,
		Date:       r.req.Date,
		URL:        r.req.URL,
		Programmes: len(r.programmes),
	}
	if r.err != nil {
		out.Error = r.err.Error()
	}
	if err := g.History.RecordCycle(ctx, run.ID, out); err != nil {
		g.Log.Warn("history: record cycle", "run_id", run.ID, "channel", r.req.ChannelID, "error", err)
	}
}

func (g *Grabber) finishRun(ctx context.Context, run *models.Run, res Result) {
	if run == nil {
		return
	}
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Cycles = res.Cycles
	run.Failures = res.Failures
	run.Programmes = res.Programmes
	if err := g.History.FinishRun(ctx, run); err != nil {
		g.Log.Warn("history: finish run", "run_id", run.ID, "error", err)
	}
}
