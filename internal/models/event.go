package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a normalized event fetched from the ticket vendor.
// It lives for one sync pass and is never stored verbatim.
type Event struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    GameStatus

	MinPrice *float64
	MaxPrice *float64

	PresaleDate *time.Time
	OnsaleDate  *time.Time
	OffsaleDate *time.Time

	StadiumExternalID string
	StadiumName       string
	TeamExternalIDs   []string
	TeamNames         []string
}

// Pagination describes the page window of a paginated vendor response
type Pagination struct {
	TotalPages    int `json:"totalPages"`
	CurrentPage   int `json:"number"`
	TotalElements int `json:"totalElements"`
	PageSize      int `json:"size"`
}

// EventPage is one page of events
type EventPage struct {
	Events     []*Event
	Pagination Pagination
}

// ToGame converts the event to a Game model
// Note: stadium and vendor IDs need to be resolved from the reference tables
func (e *Event) ToGame(stadiumID, vendorID uuid.UUID) *Game {
	game := &Game{
		EventID:        e.ID,
		Name:           e.Name,
		StadiumID:      stadiumID,
		TicketVendorID: vendorID,
		StartDate:      e.StartDate,
		EndDate:        e.EndDate,
		Status:         e.Status,
	}

	if e.MinPrice != nil {
		game.MinPrice = sql.NullFloat64{Float64: *e.MinPrice, Valid: true}
	}
	if e.MaxPrice != nil {
		game.MaxPrice = sql.NullFloat64{Float64: *e.MaxPrice, Valid: true}
	}

	game.PresaleDate = nullTime(e.PresaleDate)
	game.OnsaleDate = nullTime(e.OnsaleDate)
	game.OffsaleDate = nullTime(e.OffsaleDate)

	return game
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
