package gamesync

import (
	"context"
	"fmt"

	"ticketsync/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ReferenceStore lists the catalog entities events are matched against
type ReferenceStore interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListStadiums(ctx context.Context) ([]models.Stadium, error)
	ListVendors(ctx context.Context) ([]models.TicketVendor, error)
}

// LoadError is returned when a reference table cannot be read
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReferenceMaps holds name to ID lookups for one run
type ReferenceMaps struct {
	Teams    map[string]uuid.UUID
	Stadiums map[string]uuid.UUID
	Vendors  map[string]uuid.UUID
}

// Resolver loads reference maps from the store
type Resolver struct {
	store ReferenceStore
}

// NewResolver creates a resolver over store
func NewResolver(store ReferenceStore) *Resolver {
	return &Resolver{store: store}
}

// Load reads teams, stadiums and vendors concurrently. Any failure aborts the
// whole load.
func (r *Resolver) Load(ctx context.Context) (*ReferenceMaps, error) {
	refs := &ReferenceMaps{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := r.store.ListTeams(gctx)
		if err != nil {
			return &LoadError{Table: "teams", Err: err}
		}
		refs.Teams = make(map[string]uuid.UUID, len(teams))
		for _, t := range teams {
			refs.Teams[t.Name] = t.ID
		}
		return nil
	})

	g.Go(func() error {
		stadiums, err := r.store.ListStadiums(gctx)
		if err != nil {
			return &LoadError{Table: "stadiums", Err: err}
		}
		refs.Stadiums = make(map[string]uuid.UUID, len(stadiums))
		for _, s := range stadiums {
			refs.Stadiums[s.Name] = s.ID
		}
		return nil
	})

	g.Go(func() error {
		vendors, err := r.store.ListVendors(gctx)
		if err != nil {
			return &LoadError{Table: "ticket_vendors", Err: err}
		}
		refs.Vendors = make(map[string]uuid.UUID, len(vendors))
		for _, v := range vendors {
			refs.Vendors[v.Name] = v.ID
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("teams", len(refs.Teams)).
		Int("stadiums", len(refs.Stadiums)).
		Int("vendors", len(refs.Vendors)).
		Msg("Reference data loaded")

	return refs, nil
}

// distinctNames returns the non-empty names in order of first appearance
func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
