package repository

import (
	"context"
	"fmt"
	"time"

	"ticketsync/ingestion/internal/models"
)

// StadiumRepository handles stadium database operations
type StadiumRepository struct {
	db *Database
}

// Create inserts a new stadium
func (r *StadiumRepository) Create(ctx context.Context, stadium *models.Stadium) error {
	query := `
		INSERT INTO stadiums (name, city, state, country, zipcode, address, timezone, lon, lat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		stadium.Name, stadium.City, stadium.State, stadium.Country, stadium.Zipcode,
		stadium.Address, stadium.Timezone, stadium.Lon, stadium.Lat,
	).Scan(&stadium.ID, &stadium.CreatedAt, &stadium.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create stadium: %w", err)
	}

	return nil
}

// List retrieves all stadiums ordered by name
func (r *StadiumRepository) List(ctx context.Context) (stadiums []models.Stadium, err error) {
	defer func(start time.Time) { observe("select", "stadiums", start, err) }(time.Now())

	query := `
		SELECT id, name, city, state, country, zipcode, address, timezone, lon, lat,
		       created_at, updated_at
		FROM stadiums
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stadiums: %w", err)
	}
	defer rows.Close()

	stadiums = []models.Stadium{}
	for rows.Next() {
		var s models.Stadium
		err := rows.Scan(
			&s.ID, &s.Name, &s.City, &s.State, &s.Country, &s.Zipcode, &s.Address,
			&s.Timezone, &s.Lon, &s.Lat, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stadium: %w", err)
		}
		stadiums = append(stadiums, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stadiums: %w", err)
	}

	return stadiums, nil
}
