package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketsync/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Create inserts a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, city, state, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query, team.Name, team.City, team.State, team.Country).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	log.Debug().
		Str("id", team.ID.String()).
		Str("name", team.Name).
		Msg("Team created")

	return nil
}

// GetByName retrieves a team by its catalog name
func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `
		SELECT id, name, city, state, country, created_at, updated_at
		FROM teams
		WHERE name = $1
	`

	var team models.Team
	err := r.db.Pool.QueryRow(ctx, query, name).Scan(
		&team.ID, &team.Name, &team.City, &team.State, &team.Country,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// List retrieves all teams ordered by name
func (r *TeamRepository) List(ctx context.Context) (teams []models.Team, err error) {
	defer func(start time.Time) { observe("select", "teams", start, err) }(time.Now())

	query := `
		SELECT id, name, city, state, country, created_at, updated_at
		FROM teams
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams = []models.Team{}
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.City, &team.State, &team.Country,
			&team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}
