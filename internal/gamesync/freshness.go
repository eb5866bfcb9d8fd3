package gamesync

import (
	"fmt"
	"time"

	"ticketsync/ingestion/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Boundary search gives up past this horizon. cron itself never looks further
// than five years ahead.
const maxLookback = 5 * 366 * 24 * time.Hour

// Policy decides whether a stored game is due to be overwritten. A game is due
// once the sync schedule has fired since it was last written.
type Policy struct {
	expr     string
	schedule cron.Schedule
	parseErr error
	now      func() time.Time
}

// PolicyOption configures a Policy
type PolicyOption func(*Policy)

// WithClock overrides the policy's time source
func WithClock(now func() time.Time) PolicyOption {
	return func(p *Policy) {
		p.now = now
	}
}

// NewPolicy creates a policy for the cron expression expr. An expression that
// does not parse makes every game due.
func NewPolicy(expr string, opts ...PolicyOption) *Policy {
	p := &Policy{expr: expr, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	p.schedule, p.parseErr = config.CronParser.Parse(expr)
	if p.parseErr != nil {
		log.Error().
			Err(p.parseErr).
			Str("schedule", expr).
			Msg("Invalid sync schedule, every existing game will be overwritten")
	}

	return p
}

// LastBoundary returns the latest scheduled fire time at or before now
func (p *Policy) LastBoundary(now time.Time) (time.Time, error) {
	if p.parseErr != nil {
		return time.Time{}, p.parseErr
	}

	// @every runs relative to when it was scheduled, so there are no fixed
	// fire times to search for
	if every, ok := p.schedule.(cron.ConstantDelaySchedule); ok {
		return now.Add(-every.Delay), nil
	}

	// Widen the window backwards until the schedule fires inside it, then walk
	// forward to the last fire time not after now.
	for window := time.Minute; ; window *= 2 {
		if window > maxLookback {
			window = maxLookback
		}

		next := p.schedule.Next(now.Add(-window))
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("schedule %q never fires", p.expr)
		}

		if !next.After(now) {
			boundary := next
			for {
				following := p.schedule.Next(boundary)
				if following.IsZero() || following.After(now) {
					return boundary, nil
				}
				boundary = following
			}
		}

		if window == maxLookback {
			return time.Time{}, fmt.Errorf("schedule %q did not fire in the last %s", p.expr, maxLookback)
		}
	}
}

// ShouldUpdate reports whether a game last written at lastUpdated is due
func (p *Policy) ShouldUpdate(lastUpdated time.Time) bool {
	boundary, err := p.LastBoundary(p.now())
	if err != nil {
		log.Debug().Err(err).Str("schedule", p.expr).Msg("No schedule boundary, updating")
		return true
	}
	return !lastUpdated.After(boundary)
}
