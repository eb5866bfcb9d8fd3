package gamesync

import (
	"ticketsync/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// DefaultMinTeams is the number of distinct teams a game needs
const DefaultMinTeams = 2

// Validator decides whether an event may be written
type Validator struct {
	minTeams int
}

// NewValidator creates a validator requiring at least minTeams distinct teams
func NewValidator(minTeams int) *Validator {
	if minTeams < 1 {
		minTeams = DefaultMinTeams
	}
	return &Validator{minTeams: minTeams}
}

// IsValid reports whether event passes every rule
func (v *Validator) IsValid(event *models.Event, refs *ReferenceMaps) bool {
	return v.Validate(event, refs) == ""
}

// Validate returns the first rule event breaks, or "" when it is admissible.
// Rules are checked in order: known stadium, enough distinct teams, every team
// known, start time present.
func (v *Validator) Validate(event *models.Event, refs *ReferenceMaps) SkipReason {
	reason := v.check(event, refs)
	if reason != "" {
		log.Debug().
			Str("event_id", event.ID).
			Str("stadium", event.StadiumName).
			Strs("teams", event.TeamNames).
			Str("reason", string(reason)).
			Msg("Event rejected")
	}
	return reason
}

func (v *Validator) check(event *models.Event, refs *ReferenceMaps) SkipReason {
	if event.StadiumName == "" {
		return SkipStadiumNotFound
	}
	if _, ok := refs.Stadiums[event.StadiumName]; !ok {
		return SkipStadiumNotFound
	}

	teams := distinctNames(event.TeamNames)
	if len(teams) < v.minTeams {
		return SkipInsufficientTeams
	}

	for _, name := range teams {
		if _, ok := refs.Teams[name]; !ok {
			return SkipTeamNotFound
		}
	}

	if event.StartDate.IsZero() {
		return SkipMissingStartDate
	}

	return ""
}
