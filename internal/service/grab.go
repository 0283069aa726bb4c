package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voyagen/tvgrab/internal/fetcher"
	"github.com/voyagen/tvgrab/internal/models"
	"github.com/voyagen/tvgrab/internal/store"
	"github.com/voyagen/tvgrab/internal/xmltv"
)

// Result summarises a grab run. Errors holds one entry per failed cycle,
// each a *fetcher.FetchError or *fetcher.DecodeError.
type Result struct {
	Cycles     int
	Programmes int
	Failures   int
	Errors     []error
}

// OK reports whether every cycle succeeded.
func (r Result) OK() bool { return r.Failures == 0 }

// Grabber fetches, repairs and decodes schedules for a set of channels.
// Dumper and History are optional.
type Grabber struct {
	Provider    models.Provider
	Source      fetcher.Source
	Dumper      *Dumper
	History     store.Store
	Log         *slog.Logger
	Concurrency int
	Now         func() time.Time
}

type cycleResult struct {
	req        fetcher.Request
	programmes []models.Programme
	err        error
}

// Run performs one cycle per channel and day, days starting offset days
// from today. Programmes are appended to doc in channel-then-date order no
// matter which fetch finishes first. A failed cycle is counted in the result
// and never stops the others; the returned error is only ctx's.
func (g *Grabber) Run(ctx context.Context, channels []models.Channel, doc *xmltv.Document, days, offset int) (Result, error) {
	cycles := g.plan(channels, days, offset)
	results := make([]cycleResult, len(cycles))

	run := g.startRun(ctx, days, offset)

	var eg errgroup.Group
	eg.SetLimit(max(1, g.Concurrency))
	for i, req := range cycles {
		eg.Go(func() error {
			results[i] = g.runCycle(ctx, req)
			return nil
		})
	}
	_ = eg.Wait()

	var res Result
	for _, r := range results {
		res.Cycles++
		doc.AddProgrammes(r.programmes...)
		res.Programmes += len(r.programmes)
		if r.err != nil {
			res.Failures++
			res.Errors = append(res.Errors, r.err)
		}
		g.recordCycle(ctx, run, r)
	}
	g.finishRun(ctx, run, res)

	return res, ctx.Err()
}

func (g *Grabber) plan(channels []models.Channel, days, offset int) []fetcher.Request {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var cycles []fetcher.Request
	for _, ch := range channels {
		day := today.AddDate(0, 0, offset)
		for i := 0; i < days; i++ {
			cycles = append(cycles, fetcher.Request{
				ChannelID: ch.ID,
				Date:      day,
				URL:       g.Provider.ScheduleURLFor(ch.ID, day),
			})
			day = day.AddDate(0, 0, 1)
		}
	}
	return cycles
}

func (g *Grabber) runCycle(ctx context.Context, req fetcher.Request) cycleResult {
	g.Log.Info("processing channel", "channel", req.ChannelID, "date", req.Date.Format("2006-01-02"))

	raw, err := g.Source.Fetch(ctx, req.URL)
	if err != nil {
		var fe *fetcher.FetchError
		if !errors.As(err, &fe) {
			err = &fetcher.FetchError{URL: req.URL, Err: err}
		}
		g.Log.Error("fetch failed", "channel", req.ChannelID, "url", req.URL, "error", err)
		return cycleResult{req: req, err: err}
	}

	payload := fetcher.Repair(raw)
	programmes, err := fetcher.Decode(g.Provider, req, payload)
	if err != nil {
		g.reportDecodeError(err)
		return cycleResult{req: req, err: err}
	}
	g.Log.Debug("decoded schedule", "channel", req.ChannelID, "programmes", len(programmes))
	return cycleResult{req: req, programmes: programmes}
}

func (g *Grabber) reportDecodeError(err error) {
	var de *fetcher.DecodeError
	if g.Dumper == nil || !errors.As(err, &de) {
		g.Log.Error("error while parsing schedule data", "error", err)
		return
	}
	if dumpErr := g.Dumper.Dump(de); dumpErr != nil {
		g.Log.Error("error while parsing schedule data", "error", err, "dump_error", dumpErr)
		return
	}
	g.Log.Error("error while parsing schedule data, dump appended",
		"channel", de.Request.ChannelID, "url", de.Request.URL, "dump", g.Dumper.Path(), "error", de.Err)
}
