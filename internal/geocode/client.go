// Package geocode wraps the Nominatim search API: free-text search,
// structured detail search, and reverse lookup of coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"geobot/internal/config"
	"geobot/internal/logger"
	"log/slog"
)

var (
	// ErrUnavailable marks any transport or decode failure of the geocoding API.
	ErrUnavailable = errors.New("geocode: service unavailable")
	// ErrInvalidQuery is returned when not exactly one of query text or details is provided.
	ErrInvalidQuery = errors.New("geocode: exactly one of query or details is required")
)

// Location is a single search hit. Coordinates are kept as the exact
// text tokens returned by the API so they survive callback payload
// encoding without losing precision.
type Location struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Client talks to a Nominatim-compatible geocoding endpoint.
// Calls are synchronous, bounded by a short timeout, and never retried.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewClient builds a geocoding client from configuration.
func NewClient(cfg config.NominatimConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

// SearchText runs a free-text place search.
func (c *Client) SearchText(ctx context.Context, query string) ([]Location, error) {
	return c.search(ctx, query, nil)
}

// SearchDetails runs a structured search over the supplied field values.
func (c *Client) SearchDetails(ctx context.Context, details []Detail) ([]Location, error) {
	return c.search(ctx, "", details)
}

func (c *Client) search(ctx context.Context, query string, details []Detail) ([]Location, error) {
	if (query == "") == (len(details) == 0) {
		return nil, ErrInvalidQuery
	}

	params := url.Values{}
	params.Set("format", "json")
	if query != "" {
		params.Set("q", query)
	}
	for _, d := range details {
		params.Set(d.Field.Param(), d.Value)
	}

	start := time.Now()
	var raw []Location
	if err := c.get(ctx, "/search", params, &raw); err != nil {
		logger.GEO.Error("search failed",
			slog.String("event", "geocode.search"),
			slog.String("err", err.Error()),
		)
		return nil, err
	}

	logger.GEO.Debug("search done",
		slog.String("event", "geocode.search"),
		slog.Int("results", len(raw)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	locations := make([]Location, 0, len(raw))
	locations = append(locations, raw...)
	return locations, nil
}

// ReverseLookup resolves coordinates into a human-readable place name.
func (c *Client) ReverseLookup(ctx context.Context, lat, lon string) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", lat)
	params.Set("lon", lon)

	var resp struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.get(ctx, "/reverse", params, &resp); err != nil {
		logger.GEO.Error("reverse lookup failed",
			slog.String("event", "geocode.reverse"),
			slog.String("err", err.Error()),
		)
		return "", err
	}
	return resp.DisplayName, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: upstream status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return nil
}
