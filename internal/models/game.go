package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// GameStatus is the lifecycle status of a game's ticket sales
type GameStatus string

const (
	StatusOnsale      GameStatus = "onsale"
	StatusPresale     GameStatus = "presale"
	StatusActive      GameStatus = "active"
	StatusInactive    GameStatus = "inactive"
	StatusCancelled   GameStatus = "cancelled"
	StatusRescheduled GameStatus = "rescheduled"
	StatusOffsale     GameStatus = "offsale"
)

// Valid reports whether s is one of the known statuses
func (s GameStatus) Valid() bool {
	switch s {
	case StatusOnsale, StatusPresale, StatusActive, StatusInactive,
		StatusCancelled, StatusRescheduled, StatusOffsale:
		return true
	}
	return false
}

// Game represents an NFL game synced from the ticket vendor
type Game struct {
	ID             uuid.UUID  `db:"id"`
	EventID        string     `db:"event_id"`
	Name           string     `db:"name"`
	StadiumID      uuid.UUID  `db:"stadium_id"`
	TicketVendorID uuid.UUID  `db:"ticket_vendor_id"`
	StartDate      time.Time  `db:"start_date"`
	EndDate        time.Time  `db:"end_date"`
	Status         GameStatus `db:"status"`

	// Prices
	MinPrice sql.NullFloat64 `db:"min_price"`
	MaxPrice sql.NullFloat64 `db:"max_price"`

	// Sale windows
	PresaleDate sql.NullTime `db:"presale_date"`
	OnsaleDate  sql.NullTime `db:"onsale_date"`
	OffsaleDate sql.NullTime `db:"offsale_date"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GameTeam links a game to one of its participating teams
type GameTeam struct {
	GameID    uuid.UUID `db:"game_id"`
	TeamID    uuid.UUID `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
}

// GameFilter narrows a game query. Zero values are ignored.
type GameFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	TeamID    *uuid.UUID
	StadiumID *uuid.UUID
	Status    GameStatus
}

// GameQueryResult is a game row with the names of its teams aggregated
type GameQueryResult struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Status    GameStatus `json:"status"`
	MinPrice  *float64   `json:"min_price"`
	MaxPrice  *float64   `json:"max_price"`
	StadiumID uuid.UUID  `json:"stadium_id"`
	TeamNames []string   `json:"team_names"`
}
