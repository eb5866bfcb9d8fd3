package scheduler

import (
	"context"
	"fmt"
	"time"

	"ticketsync/ingestion/internal/config"
	"ticketsync/ingestion/internal/gamesync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Trigger starts a sync run and returns its report
type Trigger interface {
	Trigger(ctx context.Context, trigger gamesync.Trigger) *gamesync.Report
}

// Scheduler fires game syncs on the configured cron schedule
type Scheduler struct {
	schedule string
	runner   Trigger
	cron     *cron.Cron
	entryID  cron.EntryID
}

// NewScheduler creates a new scheduler instance
func NewScheduler(schedule string, runner Trigger) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		runner:   runner,
		cron: cron.New(
			cron.WithParser(config.CronParser),
			cron.WithChain(cron.Recover(cronLogger{})),
		),
	}
}

// Start registers the sync job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	id, err := s.cron.AddFunc(s.schedule, func() {
		// Scheduled reports are only logged; the runner records them
		s.runner.Trigger(ctx, gamesync.TriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule game sync: %w", err)
	}
	s.entryID = id

	s.cron.Start()

	log.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.cron.Entry(id).Next).
		Msg("Game sync scheduled")

	return nil
}

// Next returns the next scheduled run, or the zero time before Start
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// NextSyncTime returns the first fire time of expr strictly after now
func NextSyncTime(expr string, now time.Time) (time.Time, error) {
	schedule, err := config.CronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sync schedule %q: %w", expr, err)
	}

	next := schedule.Next(now)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("sync schedule %q has no upcoming run", expr)
	}
	return next, nil
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
