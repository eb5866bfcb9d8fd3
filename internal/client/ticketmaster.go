package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ticketsync/ingestion/internal/metrics"
	"ticketsync/ingestion/internal/models"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL         = "https://app.ticketmaster.com/discovery/v2"
	DefaultRequestInterval = 200 * time.Millisecond // 5 requests per second
	DefaultPageSize        = 200                    // Max allowed by API

	// NFL classification on the Discovery API
	footballClassification = "Football"
	nflSubGenreID          = "KZazBEonSMnZfZ7vFE1"

	// Upstream bodies are truncated to this length in errors
	maxErrorBody = 512
)

// FetchError is returned when a Ticketmaster request fails at the network
// level or with a non-2xx status.
type FetchError struct {
	Endpoint   string
	StatusCode int // 0 when the request never got a response
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ticketmaster %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("ticketmaster %s request failed: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config configures a Client. Zero values take the package defaults.
type Config struct {
	BaseURL         string
	APIKey          string
	Timeout         time.Duration
	RequestInterval time.Duration
	PageSize        int
	MaxRetries      int
	RetryDelay      time.Duration
	HTTPClient      *http.Client
}

// Client is the Ticketmaster Discovery API client.
//
// Every outbound request, retries included, waits on a single limiter, so one
// Client shared by the whole process keeps the process under the API's
// request rate no matter how many goroutines call it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new Ticketmaster API client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	interval := cfg.RequestInterval
	if interval == 0 {
		interval = DefaultRequestInterval
	}
	limit := rate.Every(interval)
	if interval < 0 {
		limit = rate.Inf
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		pageSize:   pageSize,
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: retryDelay,
	}
}

// get performs a GET request with rate limiting and retries on transient failures
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for key, values := range params {
		q[key] = values
	}
	q.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, q.Encode())

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryDelay

	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		return c.do(ctx, endpoint, reqURL, attempt)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Info().
				Err(err).
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", next).
				Msg("Retrying API request after backoff")
		}),
	)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}

	return body, nil
}

// do performs a single attempt. Errors that must not be retried are wrapped
// with backoff.Permanent.
func (c *Client) do(ctx context.Context, endpoint, reqURL string, attempt int) ([]byte, error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(&FetchError{Endpoint: endpoint, Err: err})
	}
	metrics.RecordRateLimitWait(time.Since(waitStart).Seconds())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(&FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ticketsync/1.0")

	log.Debug().
		Str("endpoint", endpoint).
		Int("attempt", attempt).
		Msg("Making API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(endpoint, "network_error", time.Since(start).Seconds())
		fetchErr := &FetchError{Endpoint: endpoint, Err: err}
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fetchErr)
		}
		return nil, fetchErr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("API request successful")
		return body, nil
	}

	fetchErr := &FetchError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Body:       truncate(string(body), maxErrorBody),
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		log.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Msg("Received retryable error")
		return nil, fetchErr
	default:
		// Auth and request errors won't improve on retry
		return nil, backoff.Permanent(fetchErr)
	}
}

// FetchNFLEvents fetches one page of NFL events starting within [start, end]
func (c *Client) FetchNFLEvents(ctx context.Context, start, end time.Time, page int) (*models.EventPage, error) {
	params := url.Values{}
	params.Set("classificationName", footballClassification)
	params.Set("subGenreId", nflSubGenreID)
	params.Set("size", strconv.Itoa(c.pageSize))
	params.Set("sort", "date,asc")
	params.Set("startDateTime", formatDate(start))
	params.Set("endDateTime", formatDate(end))
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, "/events", params)
	if err != nil {
		return nil, err
	}

	var resp eventsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &FetchError{Endpoint: "/events", Err: fmt.Errorf("failed to unmarshal events: %w", err)}
	}

	var raw []tmEvent
	if resp.Embedded != nil {
		raw = resp.Embedded.Events
	}

	return &models.EventPage{
		Events:     parseEvents(raw),
		Pagination: resp.Page,
	}, nil
}

// GetEvent fetches a single event by its Ticketmaster ID
func (c *Client) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	endpoint := "/events/" + url.PathEscape(id)
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var event tmEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: fmt.Errorf("failed to unmarshal event: %w", err)}
	}

	return parseEvent(&event), nil
}

// formatDate renders t the way the Discovery API expects: UTC, second precision
func formatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
