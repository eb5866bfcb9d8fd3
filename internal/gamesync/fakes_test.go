package gamesync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ticketsync/ingestion/internal/models"
	"ticketsync/ingestion/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory ReferenceStore and GameStore
type memStore struct {
	mu sync.Mutex

	teams    []models.Team
	stadiums []models.Stadium
	vendors  []models.TicketVendor

	games map[string]*models.Game
	links map[uuid.UUID]map[uuid.UUID]struct{}
	saves int

	teamsErr    error
	stadiumsErr error
	failSave    map[string]error
	panicOn     string
	clock       func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		games:    map[string]*models.Game{},
		links:    map[uuid.UUID]map[uuid.UUID]struct{}{},
		failSave: map[string]error{},
		clock:    time.Now,
	}
}

func (s *memStore) addTeam(name string) uuid.UUID {
	id := uuid.New()
	s.teams = append(s.teams, models.Team{ID: id, Name: name})
	return id
}

func (s *memStore) addStadium(name string) uuid.UUID {
	id := uuid.New()
	s.stadiums = append(s.stadiums, models.Stadium{ID: id, Name: name})
	return id
}

func (s *memStore) addVendor(name string) uuid.UUID {
	id := uuid.New()
	s.vendors = append(s.vendors, models.TicketVendor{ID: id, Name: name})
	return id
}

// putGame stores a game as if an earlier run had written it
func (s *memStore) putGame(eventID string, updatedAt time.Time) *models.Game {
	game := &models.Game{ID: uuid.New(), EventID: eventID, CreatedAt: updatedAt, UpdatedAt: updatedAt}
	s.games[eventID] = game
	return game
}

func (s *memStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	if s.teamsErr != nil {
		return nil, s.teamsErr
	}
	return s.teams, nil
}

func (s *memStore) ListStadiums(ctx context.Context) ([]models.Stadium, error) {
	if s.stadiumsErr != nil {
		return nil, s.stadiumsErr
	}
	return s.stadiums, nil
}

func (s *memStore) ListVendors(ctx context.Context) ([]models.TicketVendor, error) {
	return s.vendors, nil
}

func (s *memStore) FindByEventID(ctx context.Context, eventID string) (*models.Game, error) {
	if eventID == s.panicOn {
		panic("corrupt row")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[eventID]
	if !ok {
		return nil, fmt.Errorf("game for event %s: %w", eventID, repository.ErrNotFound)
	}
	copied := *game
	return &copied, nil
}

func (s *memStore) SaveGame(ctx context.Context, game *models.Game, teamIDs []uuid.UUID) error {
	if err := s.failSave[game.EventID]; err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if existing, ok := s.games[game.EventID]; ok {
		game.ID = existing.ID
		game.CreatedAt = existing.CreatedAt
	} else {
		game.ID = uuid.New()
		game.CreatedAt = now
	}
	game.UpdatedAt = now

	stored := *game
	s.games[game.EventID] = &stored

	if s.links[game.ID] == nil {
		s.links[game.ID] = map[uuid.UUID]struct{}{}
	}
	for _, id := range teamIDs {
		s.links[game.ID][id] = struct{}{}
	}

	s.saves++
	return nil
}

func (s *memStore) linkCount(eventID string) int {
	game, ok := s.games[eventID]
	if !ok {
		return 0
	}
	return len(s.links[game.ID])
}

// mockSource is a testify mock of EventSource
type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchNFLEvents(ctx context.Context, start, end time.Time, page int) (*models.EventPage, error) {
	args := m.Called(ctx, start, end, page)
	result, _ := args.Get(0).(*models.EventPage)
	return result, args.Error(1)
}

func (m *mockSource) onPage(page int, totalPages int, events ...*models.Event) *mock.Call {
	return m.On("FetchNFLEvents", mock.Anything, mock.Anything, mock.Anything, page).
		Return(&models.EventPage{
			Events:     events,
			Pagination: models.Pagination{TotalPages: totalPages, CurrentPage: page},
		}, nil)
}

var errBoom = errors.New("boom")
