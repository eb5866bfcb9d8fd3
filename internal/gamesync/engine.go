package gamesync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketsync/ingestion/internal/models"
	"ticketsync/ingestion/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultVendorName is the ticket vendor games are attributed to
const DefaultVendorName = "Ticketmaster"

// EventSource fetches pages of NFL events
type EventSource interface {
	FetchNFLEvents(ctx context.Context, start, end time.Time, page int) (*models.EventPage, error)
}

// GameStore reads and writes synced games
type GameStore interface {
	// FindByEventID returns repository.ErrNotFound when the event was never synced
	FindByEventID(ctx context.Context, eventID string) (*models.Game, error)
	// SaveGame upserts the game and its team links as one unit
	SaveGame(ctx context.Context, game *models.Game, teamIDs []uuid.UUID) error
}

// PersistenceError wraps a store failure for a single event
type PersistenceError struct {
	EventID string
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s game for event %s: %v", e.Op, e.EventID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Config tunes an Engine
type Config struct {
	Schedule     string
	MinTeams     int
	WindowMonths int
	VendorName   string
}

// Engine reconciles vendor events with stored games
type Engine struct {
	source       EventSource
	games        GameStore
	resolver     *Resolver
	validator    *Validator
	policy       *Policy
	vendorName   string
	windowMonths int
	now          func() time.Time
}

// NewEngine wires an engine. opts apply to the freshness policy's clock and
// the engine's own.
func NewEngine(source EventSource, refs ReferenceStore, games GameStore, cfg Config, opts ...PolicyOption) *Engine {
	vendorName := cfg.VendorName
	if vendorName == "" {
		vendorName = DefaultVendorName
	}
	windowMonths := cfg.WindowMonths
	if windowMonths < 1 {
		windowMonths = 1
	}

	policy := NewPolicy(cfg.Schedule, opts...)

	return &Engine{
		source:       source,
		games:        games,
		resolver:     NewResolver(refs),
		validator:    NewValidator(cfg.MinTeams),
		policy:       policy,
		vendorName:   vendorName,
		windowMonths: windowMonths,
		now:          policy.now,
	}
}

// Run performs one sync pass. It never returns nil; failures are reported in
// the Report.
func (e *Engine) Run(ctx context.Context, trigger Trigger) *Report {
	report := newReport(trigger, e.now())

	report.State = StateLoadingEntities
	refs, err := e.resolver.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("run_id", report.RunID).Msg("Failed to load reference data")
		report.fail(err, e.now())
		return report
	}

	vendorID, hasVendor := refs.Vendors[e.vendorName]
	if !hasVendor {
		log.Warn().
			Str("vendor", e.vendorName).
			Msg("Ticket vendor not found, events will be skipped")
	}

	start := e.now()
	end := start.AddDate(0, e.windowMonths, 0)

	report.State = StatePaging
	totalPages := 0
	for page := 0; ; page++ {
		result, err := e.source.FetchNFLEvents(ctx, start, end, page)
		if err != nil {
			log.Error().Err(err).Int("page", page).Str("run_id", report.RunID).Msg("Failed to fetch events page")
			report.fail(err, e.now())
			return report
		}
		report.PagesFetched++

		// Later pages may report a different total; the first one is authoritative
		if page == 0 {
			totalPages = result.Pagination.TotalPages
			report.TotalPages = totalPages
		}

		log.Debug().
			Int("page", page).
			Int("total_pages", totalPages).
			Int("events", len(result.Events)).
			Msg("Processing events page")

		for _, event := range result.Events {
			e.processEvent(ctx, event, refs, vendorID, hasVendor, report)
		}

		if page+1 >= totalPages {
			break
		}
	}

	report.complete(e.now())
	return report
}

// processEvent syncs one event. Nothing that happens here stops the run.
func (e *Engine) processEvent(ctx context.Context, event *models.Event, refs *ReferenceMaps, vendorID uuid.UUID, hasVendor bool, report *Report) {
	defer func() {
		if r := recover(); r != nil {
			eventID := ""
			if event != nil {
				eventID = event.ID
			}
			log.Error().
				Interface("panic", r).
				Str("event_id", eventID).
				Msg("Recovered from panic while syncing event")
			report.skip(SkipPanic)
		}
	}()

	if event == nil {
		report.skip(SkipMalformed)
		return
	}

	reason, err := e.syncEvent(ctx, event, refs, vendorID, hasVendor)
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to sync event")
		report.skip(SkipPersistence)
		return
	}
	if reason != "" {
		report.skip(reason)
		return
	}

	report.processed()
}

func (e *Engine) syncEvent(ctx context.Context, event *models.Event, refs *ReferenceMaps, vendorID uuid.UUID, hasVendor bool) (SkipReason, error) {
	if reason := e.validator.Validate(event, refs); reason != "" {
		return reason, nil
	}

	if !hasVendor {
		return SkipVendorNotFound, nil
	}

	existing, err := e.games.FindByEventID(ctx, event.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", &PersistenceError{EventID: event.ID, Op: "look up", Err: err}
	}

	if existing != nil && !e.policy.ShouldUpdate(existing.UpdatedAt) {
		log.Debug().
			Str("event_id", event.ID).
			Time("updated_at", existing.UpdatedAt).
			Msg("Game is fresh, skipping")
		return SkipNotDue, nil
	}

	var teamIDs []uuid.UUID
	for _, name := range distinctNames(event.TeamNames) {
		id, ok := refs.Teams[name]
		if !ok {
			log.Warn().Str("event_id", event.ID).Str("team", name).Msg("Team not found, link skipped")
			continue
		}
		teamIDs = append(teamIDs, id)
	}

	game := event.ToGame(refs.Stadiums[event.StadiumName], vendorID)
	if existing != nil {
		game.ID = existing.ID
	}

	if err := e.games.SaveGame(ctx, game, teamIDs); err != nil {
		return "", &PersistenceError{EventID: event.ID, Op: "save", Err: err}
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("game_id", game.ID.String()).
		Bool("updated", existing != nil).
		Msg("Game synced")

	return "", nil
}
