package gamesync

import (
	"time"

	"ticketsync/ingestion/internal/metrics"

	"github.com/google/uuid"
)

// Trigger identifies what started a sync run
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
	TriggerStartup   Trigger = "startup"
	TriggerCLI       Trigger = "cli"
)

// Status is the terminal outcome of a run
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// State is the last stage a run reached. A failed run keeps the stage it
// failed in.
type State string

const (
	StateInit            State = "init"
	StateLoadingEntities State = "loading_entities"
	StatePaging          State = "fetching_page"
	StateCompleted       State = "completed"
)

// SkipReason explains why an event produced no write
type SkipReason string

const (
	SkipStadiumNotFound   SkipReason = "stadium_not_found"
	SkipInsufficientTeams SkipReason = "insufficient_teams"
	SkipTeamNotFound      SkipReason = "team_not_found"
	SkipMissingStartDate  SkipReason = "missing_start_date"
	SkipVendorNotFound    SkipReason = "vendor_not_found"
	SkipNotDue            SkipReason = "not_due"
	SkipPersistence       SkipReason = "persistence_error"
	SkipMalformed         SkipReason = "malformed_event"
	SkipPanic             SkipReason = "panic"
)

// Report summarizes one sync run
type Report struct {
	RunID           string             `json:"runId"`
	Trigger         Trigger            `json:"trigger"`
	Status          Status             `json:"status"`
	State           State              `json:"state"`
	Error           string             `json:"error,omitempty"`
	ProcessedEvents int                `json:"processedEvents"`
	SkippedEvents   int                `json:"skippedEvents"`
	SkipReasons     map[SkipReason]int `json:"skipReasons"`
	PagesFetched    int                `json:"pagesFetched"`
	TotalPages      int                `json:"totalPages"`
	StartedAt       time.Time          `json:"startedAt"`
	FinishedAt      time.Time          `json:"finishedAt"`

	// Err is the failure cause, kept for errors.As at the call site
	Err error `json:"-"`
}

func newReport(trigger Trigger, now time.Time) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		Trigger:     trigger,
		State:       StateInit,
		SkipReasons: map[SkipReason]int{},
		StartedAt:   now,
	}
}

// Duration is the wall time of the run
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run completed
func (r *Report) Succeeded() bool {
	return r.Status == StatusSuccess
}

func (r *Report) processed() {
	r.ProcessedEvents++
	metrics.RecordEventProcessed()
}

func (r *Report) skip(reason SkipReason) {
	r.SkippedEvents++
	r.SkipReasons[reason]++
	metrics.RecordEventSkipped(string(reason))
}

func (r *Report) fail(err error, now time.Time) {
	r.Status = StatusFailed
	r.Err = err
	r.Error = err.Error()
	r.FinishedAt = now
}

func (r *Report) complete(now time.Time) {
	r.Status = StatusSuccess
	r.State = StateCompleted
	r.FinishedAt = now
}
