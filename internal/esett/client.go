package esett

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jsundin/esett-proxy/internal/dataset"
)

// DefaultBaseURL is the public eSett Open Data API.
const DefaultBaseURL = "https://api.opendata.esett.com"

const timestampLayout = "2006-01-02T15:04:05"

// FormatTimestamp renders a range boundary in the exact representation the
// eSett API requires: yyyy-MM-ddTHH:mm:ss.000Z.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout) + ".000Z"
}

// Client fetches raw dataset records from the eSett Open Data API. One call
// issues one GET; the API returns the full range in a single response for
// the range sizes this proxy supports. The client never retries: a circuit
// breaker sheds load when upstream keeps failing, but each call either
// succeeds or fails once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewClient creates an eSett client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "esett",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
		logger:     logger,
	}
}

// Fetch retrieves the raw records for one dataset, area and range. The MBA
// short code is translated to its EIC identifier; unknown codes fail before
// any request is built. The optional MGA filter is passed through as-is (it
// is already an EIC code at the API level, and only the load profile dataset
// supports it). A 204 from upstream is a normal empty result; any other
// non-2xx status is an error.
func (c *Client) Fetch(ctx context.Context, ds dataset.Descriptor, area string, rng dataset.Range, group *string) ([]map[string]any, error) {
	eic, ok := EIC(area)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArea, area)
	}

	params := url.Values{}
	params.Set("start", FormatTimestamp(rng.Start))
	params.Set("end", FormatTimestamp(rng.End))
	params.Set("mba", eic)
	if ds.HasGroup && group != nil {
		params.Set("mga", *group)
	}

	fullURL := c.baseURL + ds.Path + "?" + params.Encode()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request %s: %w", ds.Path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNoContent {
			return []map[string]any{}, nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, ds.Path)
		}

		var payload []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", ds.Path, err)
		}
		return payload, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("esett circuit open: %w", err)
		}
		return nil, err
	}

	records := result.([]map[string]any)
	c.logger.Debug("fetched upstream records",
		"dataset", ds.Name, "mba", area, "records", len(records))
	return records, nil
}
