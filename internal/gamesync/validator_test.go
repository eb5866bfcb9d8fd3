package gamesync

import (
	"testing"
	"time"

	"ticketsync/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testRefs() *ReferenceMaps {
	return &ReferenceMaps{
		Teams: map[string]uuid.UUID{
			"Kansas City Chiefs": uuid.New(),
			"Buffalo Bills":      uuid.New(),
			"Miami Dolphins":     uuid.New(),
		},
		Stadiums: map[string]uuid.UUID{"Arrowhead Stadium": uuid.New()},
		Vendors:  map[string]uuid.UUID{"Ticketmaster": uuid.New()},
	}
}

func TestValidator_Validate(t *testing.T) {
	kickoff := time.Date(2024, 10, 20, 20, 25, 0, 0, time.UTC)

	tests := []struct {
		name     string
		minTeams int
		event    models.Event
		want     SkipReason
	}{
		{
			name:  "admissible",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills"}, StartDate: kickoff},
		},
		{
			name:  "missing stadium name",
			event: models.Event{TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills"}, StartDate: kickoff},
			want:  SkipStadiumNotFound,
		},
		{
			name:  "unknown stadium",
			event: models.Event{StadiumName: "Lambeau Field", TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills"}, StartDate: kickoff},
			want:  SkipStadiumNotFound,
		},
		{
			name:  "single team",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs"}, StartDate: kickoff},
			want:  SkipInsufficientTeams,
		},
		{
			name:  "duplicate team counts once",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "Kansas City Chiefs"}, StartDate: kickoff},
			want:  SkipInsufficientTeams,
		},
		{
			name:  "empty names are ignored",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", ""}, StartDate: kickoff},
			want:  SkipInsufficientTeams,
		},
		{
			name:  "unknown team",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "London Monarchs"}, StartDate: kickoff},
			want:  SkipTeamNotFound,
		},
		{
			name:  "stadium checked before teams",
			event: models.Event{StadiumName: "Lambeau Field", TeamNames: []string{"Kansas City Chiefs"}, StartDate: kickoff},
			want:  SkipStadiumNotFound,
		},
		{
			name:  "no start date",
			event: models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills"}},
			want:  SkipMissingStartDate,
		},
		{
			name:     "higher minimum",
			minTeams: 3,
			event:    models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills"}, StartDate: kickoff},
			want:     SkipInsufficientTeams,
		},
		{
			name:     "higher minimum met",
			minTeams: 3,
			event:    models.Event{StadiumName: "Arrowhead Stadium", TeamNames: []string{"Kansas City Chiefs", "Buffalo Bills", "Miami Dolphins"}, StartDate: kickoff},
		},
	}

	refs := testRefs()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(tt.minTeams)
			event := tt.event
			assert.Equal(t, tt.want, v.Validate(&event, refs))
			assert.Equal(t, tt.want == "", v.IsValid(&event, refs))
		})
	}
}

func TestNewValidator_DefaultsMinimum(t *testing.T) {
	assert.Equal(t, DefaultMinTeams, NewValidator(0).minTeams)
	assert.Equal(t, 4, NewValidator(4).minTeams)
}
