package api

import (
	"context"
	"net/http"
	"time"

	"ticketsync/ingestion/internal/gamesync"
	"ticketsync/ingestion/internal/models"
	"ticketsync/ingestion/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// SyncTrigger starts or joins a sync run
type SyncTrigger interface {
	Trigger(ctx context.Context, trigger gamesync.Trigger) *gamesync.Report
}

// GameQueries serves read queries over synced data
type GameQueries interface {
	GetGames(ctx context.Context, filter models.GameFilter) *service.ServiceResponse
	GetTeams(ctx context.Context) *service.ServiceResponse
	GetStadiums(ctx context.Context) *service.ServiceResponse
}

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router serves
type Deps struct {
	Runner   SyncTrigger
	Games    GameQueries
	Schedule string
	Health   map[string]HealthCheck
	Now      func() time.Time
}

// NewRouter builds the HTTP router
func NewRouter(deps Deps) *chi.Mux {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/sync", func(r chi.Router) {
			r.Get("/testSync", h.testSync)
			r.Get("/nextSync", h.nextSync)
		})
		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.getGames)
			r.Get("/teams", h.getTeams)
			r.Get("/stadiums", h.getStadiums)
		})
	})

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
