package client

import (
	"strings"
	"time"

	"ticketsync/ingestion/internal/models"
)

// Games without an explicit end time are assumed to run this long
const defaultGameDuration = 4 * time.Hour

// statusMap maps Discovery API status codes to game statuses
var statusMap = map[string]models.GameStatus{
	"onsale":      models.StatusOnsale,
	"offsale":     models.StatusOffsale,
	"canceled":    models.StatusCancelled,
	"postponed":   models.StatusRescheduled,
	"rescheduled": models.StatusRescheduled,
	"presale":     models.StatusPresale,
	"active":      models.StatusActive,
	"inactive":    models.StatusInactive,
}

// Wire types for the Discovery API. Only the fields we read are declared.

type eventsResponse struct {
	Embedded *struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
	Page models.Pagination `json:"page"`
}

type tmEvent struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Sales       tmSales        `json:"sales"`
	Dates       tmDates        `json:"dates"`
	PriceRanges []tmPriceRange `json:"priceRanges"`
	Embedded    *struct {
		Venues      []tmEntity `json:"venues"`
		Attractions []tmEntity `json:"attractions"`
	} `json:"_embedded"`
}

type tmDates struct {
	Start struct {
		DateTime  string `json:"dateTime"`
		LocalDate string `json:"localDate"`
	} `json:"start"`
	End *struct {
		DateTime string `json:"dateTime"`
	} `json:"end"`
	Status struct {
		Code string `json:"code"`
	} `json:"status"`
	Timezone string `json:"timezone"`
}

type tmSales struct {
	Public struct {
		StartDateTime string `json:"startDateTime"`
		EndDateTime   string `json:"endDateTime"`
	} `json:"public"`
	Presales []struct {
		Name          string `json:"name"`
		StartDateTime string `json:"startDateTime"`
		EndDateTime   string `json:"endDateTime"`
	} `json:"presales"`
}

type tmPriceRange struct {
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// tmEntity is a venue (stadium) or attraction (team)
type tmEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func parseEvents(events []tmEvent) []*models.Event {
	parsed := make([]*models.Event, 0, len(events))
	for i := range events {
		parsed = append(parsed, parseEvent(&events[i]))
	}
	return parsed
}

func parseEvent(e *tmEvent) *models.Event {
	event := &models.Event{
		ID:        e.ID,
		Name:      e.Name,
		StartDate: parseStart(e.Dates),
		Status:    mapStatus(e.Dates.Status.Code),
	}

	if e.Dates.End != nil {
		if end := parseDateOrNil(e.Dates.End.DateTime); end != nil {
			event.EndDate = *end
		}
	}
	if event.EndDate.IsZero() && !event.StartDate.IsZero() {
		event.EndDate = event.StartDate.Add(defaultGameDuration)
	}

	if len(e.PriceRanges) > 0 {
		minPrice, maxPrice := e.PriceRanges[0].Min, e.PriceRanges[0].Max
		event.MinPrice = &minPrice
		event.MaxPrice = &maxPrice
	}

	if e.Embedded != nil {
		if len(e.Embedded.Venues) > 0 {
			event.StadiumExternalID = e.Embedded.Venues[0].ID
			event.StadiumName = e.Embedded.Venues[0].Name
		}
		for _, attraction := range e.Embedded.Attractions {
			event.TeamExternalIDs = append(event.TeamExternalIDs, attraction.ID)
			event.TeamNames = append(event.TeamNames, attraction.Name)
		}
	}

	event.PresaleDate = earliestPresale(e.Sales)
	event.OnsaleDate = parseDateOrNil(e.Sales.Public.StartDateTime)
	event.OffsaleDate = parseDateOrNil(e.Sales.Public.EndDateTime)

	return event
}

// parseStart prefers the exact start time and falls back to the local date for
// events whose kickoff is not announced yet.
func parseStart(dates tmDates) time.Time {
	if start := parseDateOrNil(dates.Start.DateTime); start != nil {
		return *start
	}
	if day, err := time.Parse(time.DateOnly, dates.Start.LocalDate); err == nil {
		return day
	}
	return time.Time{}
}

func earliestPresale(sales tmSales) *time.Time {
	var earliest *time.Time
	for _, presale := range sales.Presales {
		start := parseDateOrNil(presale.StartDateTime)
		if start == nil {
			continue
		}
		if earliest == nil || start.Before(*earliest) {
			earliest = start
		}
	}
	return earliest
}

func mapStatus(code string) models.GameStatus {
	if status, ok := statusMap[strings.ToLower(code)]; ok {
		return status
	}
	return models.StatusInactive
}

func parseDateOrNil(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
