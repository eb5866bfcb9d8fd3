package gamesync

import (
	"context"
	"sync/atomic"

	"ticketsync/ingestion/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Syncer runs one sync pass
type Syncer interface {
	Run(ctx context.Context, trigger Trigger) *Report
}

// Runner serializes sync runs. Triggers that arrive while a run is in flight
// join it and receive its report.
type Runner struct {
	syncer Syncer
	base   context.Context
	group  singleflight.Group
	last   atomic.Pointer[Report]
}

// NewRunner creates a runner. Cancelling base stops any run in flight.
func NewRunner(base context.Context, syncer Syncer) *Runner {
	return &Runner{syncer: syncer, base: base}
}

// Trigger runs a sync, or joins the one already running. The run does not
// observe ctx's cancellation, so a caller going away cannot abort it halfway.
func (r *Runner) Trigger(ctx context.Context, trigger Trigger) *Report {
	v, _, shared := r.group.Do("sync", func() (interface{}, error) {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		stop := context.AfterFunc(r.base, cancel)
		defer stop()

		log.Info().Str("trigger", string(trigger)).Msg("Starting game sync")

		report := r.syncer.Run(runCtx, trigger)
		r.record(report)
		return report, nil
	})

	report := v.(*Report)
	if shared && report.Trigger != trigger {
		log.Info().
			Str("trigger", string(trigger)).
			Str("run_id", report.RunID).
			Msg("Joined sync already in flight")
	}

	return report
}

// LastReport returns the report of the most recent finished run, or nil
func (r *Runner) LastReport() *Report {
	return r.last.Load()
}

func (r *Runner) record(report *Report) {
	r.last.Store(report)
	metrics.RecordSync(string(report.Trigger), string(report.Status), report.Duration().Seconds())

	if !report.Succeeded() {
		metrics.RecordError("sync", string(report.State))
		log.Error().
			Str("run_id", report.RunID).
			Str("trigger", string(report.Trigger)).
			Str("state", string(report.State)).
			Str("error", report.Error).
			Int("processed", report.ProcessedEvents).
			Int("skipped", report.SkippedEvents).
			Msg("Game sync failed")
		return
	}

	log.Info().
		Str("run_id", report.RunID).
		Str("trigger", string(report.Trigger)).
		Int("pages", report.PagesFetched).
		Int("processed", report.ProcessedEvents).
		Int("skipped", report.SkippedEvents).
		Dur("duration", report.Duration()).
		Msg("Game sync complete")
}
