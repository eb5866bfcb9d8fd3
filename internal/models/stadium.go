package models

import (
	"time"

	"github.com/google/uuid"
)

// Stadium represents a stadium where games are played
type Stadium struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      *string   `db:"city" json:"city,omitempty"`
	State     *string   `db:"state" json:"state,omitempty"`
	Country   *string   `db:"country" json:"country,omitempty"`
	Zipcode   *string   `db:"zipcode" json:"zipcode,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Timezone  *string   `db:"timezone" json:"timezone,omitempty"`
	Lon       *float64  `db:"lon" json:"lon,omitempty"`
	Lat       *float64  `db:"lat" json:"lat,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TicketVendor represents a ticket seller games are synced from
type TicketVendor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
