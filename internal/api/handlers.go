package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ticketsync/ingestion/internal/gamesync"
	"ticketsync/ingestion/internal/models"
	"ticketsync/ingestion/internal/scheduler"
	"ticketsync/ingestion/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	deps Deps
}

func (h *handlers) testSync(w http.ResponseWriter, r *http.Request) {
	report := h.deps.Runner.Trigger(r.Context(), gamesync.TriggerManual)

	if !report.Succeeded() {
		writeResponse(w, service.Failure("Sync failed", report, http.StatusInternalServerError))
		return
	}
	writeResponse(w, service.Success("Sync completed", report, http.StatusOK))
}

func (h *handlers) nextSync(w http.ResponseWriter, r *http.Request) {
	next, err := scheduler.NextSyncTime(h.deps.Schedule, h.deps.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute next sync time")
		writeResponse(w, service.Failure("Invalid sync schedule", nil, http.StatusInternalServerError))
		return
	}

	writeResponse(w, service.Success("Next sync time", map[string]time.Time{"nextSync": next}, http.StatusOK))
}

func (h *handlers) getGames(w http.ResponseWriter, r *http.Request) {
	filter, err := parseGameFilter(r)
	if err != nil {
		writeResponse(w, service.Failure(err.Error(), nil, http.StatusBadRequest))
		return
	}
	writeResponse(w, h.deps.Games.GetGames(r.Context(), filter))
}

func (h *handlers) getTeams(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.deps.Games.GetTeams(r.Context()))
}

func (h *handlers) getStadiums(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.deps.Games.GetStadiums(r.Context()))
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.deps.Health))

	for name, check := range h.deps.Health {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]interface{}{"status": "healthy", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	writeJSON(w, status, body)
}

// parseGameFilter reads startDate, endDate, teamId, stadiumId and status from
// the query string
func parseGameFilter(r *http.Request) (models.GameFilter, error) {
	var filter models.GameFilter
	q := r.URL.Query()

	if v := q.Get("startDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return filter, fmt.Errorf("invalid startDate: %w", err)
		}
		filter.StartDate = &t
	}
	if v := q.Get("endDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return filter, fmt.Errorf("invalid endDate: %w", err)
		}
		filter.EndDate = &t
	}
	if v := q.Get("teamId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("invalid teamId: %w", err)
		}
		filter.TeamID = &id
	}
	if v := q.Get("stadiumId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("invalid stadiumId: %w", err)
		}
		filter.StadiumID = &id
	}
	if v := q.Get("status"); v != "" {
		status := models.GameStatus(v)
		if !status.Valid() {
			return filter, fmt.Errorf("invalid status %q", v)
		}
		filter.Status = status
	}

	return filter, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

func writeResponse(w http.ResponseWriter, resp *service.ServiceResponse) {
	writeJSON(w, resp.StatusCode, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
