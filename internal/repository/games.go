package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticketsync/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `
	id, event_id, name, stadium_id, ticket_vendor_id, start_date, end_date, status,
	min_price, max_price, presale_date, onsale_date, offsale_date, created_at, updated_at`

// GetByEventID retrieves a game by its Ticketmaster event ID.
// Returns ErrNotFound when no game has been synced for the event.
func (r *GameRepository) GetByEventID(ctx context.Context, eventID string) (game *models.Game, err error) {
	defer func(start time.Time) { observe("select", "games", start, err) }(time.Now())

	query := `SELECT` + gameColumns + ` FROM games WHERE event_id = $1`

	game, err = scanGame(r.db.Pool.QueryRow(ctx, query, eventID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("game for event %s: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// Save upserts the game and links it to teamIDs in a single transaction.
// A failure on any link rolls back the game write as well.
func (r *GameRepository) Save(ctx context.Context, game *models.Game, teamIDs []uuid.UUID) (err error) {
	defer func(start time.Time) { observe("upsert", "games", start, err) }(time.Now())

	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := upsertGame(ctx, tx, game); err != nil {
			return err
		}
		for _, teamID := range teamIDs {
			if err := linkTeam(ctx, tx, game.ID, teamID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Debug().
		Str("game_id", game.ID.String()).
		Str("event_id", game.EventID).
		Int("teams", len(teamIDs)).
		Msg("Game saved")

	return nil
}

func upsertGame(ctx context.Context, tx pgx.Tx, game *models.Game) error {
	query := `
		INSERT INTO games (
			event_id, name, stadium_id, ticket_vendor_id, start_date, end_date, status,
			min_price, max_price, presale_date, onsale_date, offsale_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (event_id) DO UPDATE SET
			name = EXCLUDED.name,
			stadium_id = EXCLUDED.stadium_id,
			ticket_vendor_id = EXCLUDED.ticket_vendor_id,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			status = EXCLUDED.status,
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			presale_date = EXCLUDED.presale_date,
			onsale_date = EXCLUDED.onsale_date,
			offsale_date = EXCLUDED.offsale_date,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		game.EventID, game.Name, game.StadiumID, game.TicketVendorID,
		game.StartDate, game.EndDate, string(game.Status),
		game.MinPrice, game.MaxPrice,
		game.PresaleDate, game.OnsaleDate, game.OffsaleDate,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

func linkTeam(ctx context.Context, tx pgx.Tx, gameID, teamID uuid.UUID) error {
	query := `
		INSERT INTO game_teams (game_id, team_id)
		VALUES ($1, $2)
		ON CONFLICT (game_id, team_id) DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, gameID, teamID); err != nil {
		return fmt.Errorf("failed to link team %s to game %s: %w", teamID, gameID, err)
	}

	return nil
}

// GetTeams returns the team links of a game
func (r *GameRepository) GetTeams(ctx context.Context, gameID uuid.UUID) ([]models.GameTeam, error) {
	query := `
		SELECT game_id, team_id, created_at
		FROM game_teams
		WHERE game_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query game teams: %w", err)
	}
	defer rows.Close()

	var links []models.GameTeam
	for rows.Next() {
		var link models.GameTeam
		if err := rows.Scan(&link.GameID, &link.TeamID, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game team: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// Query returns games matching filter with their team names aggregated,
// ordered by start date
func (r *GameRepository) Query(ctx context.Context, filter models.GameFilter) (results []models.GameQueryResult, err error) {
	defer func(start time.Time) { observe("select", "games", start, err) }(time.Now())

	var (
		conditions []string
		args       []interface{}
	)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.StartDate != nil {
		add("g.start_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("g.end_date <= $%d", *filter.EndDate)
	}
	if filter.StadiumID != nil {
		add("g.stadium_id = $%d", *filter.StadiumID)
	}
	if filter.Status != "" {
		add("g.status = $%d", string(filter.Status))
	}
	if filter.TeamID != nil {
		add("EXISTS (SELECT 1 FROM game_teams f WHERE f.game_id = g.id AND f.team_id = $%d)", *filter.TeamID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT g.id, g.name, g.start_date, g.end_date, g.status,
		       g.min_price, g.max_price, g.stadium_id,
		       COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}') AS team_names
		FROM games g
		LEFT JOIN game_teams gt ON gt.game_id = g.id
		LEFT JOIN teams t ON t.id = gt.team_id
		` + where + `
		GROUP BY g.id
		ORDER BY g.start_date
	`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	results = []models.GameQueryResult{}
	for rows.Next() {
		var (
			result models.GameQueryResult
			status string
		)
		err := rows.Scan(
			&result.ID, &result.Name, &result.StartDate, &result.EndDate, &status,
			&result.MinPrice, &result.MaxPrice, &result.StadiumID, &result.TeamNames,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		result.Status = models.GameStatus(status)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return results, nil
}

func scanGame(row pgx.Row) (*models.Game, error) {
	var (
		game   models.Game
		status string
	)
	err := row.Scan(
		&game.ID, &game.EventID, &game.Name, &game.StadiumID, &game.TicketVendorID,
		&game.StartDate, &game.EndDate, &status,
		&game.MinPrice, &game.MaxPrice,
		&game.PresaleDate, &game.OnsaleDate, &game.OffsaleDate,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	game.Status = models.GameStatus(status)
	return &game, nil
}
