// Package geocode resolves free-text city names and GPS coordinates through
// a nominatim-compatible service.
package geocode

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

	"prayer_bot/internal/model"
)

// ErrNotFound is returned when the service has no match for the query.
var ErrNotFound = errors.New("location not found")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a nominatim-compatible geocoding API.
type Client struct {
	client  HTTPClient
	baseURL string
	timeout time.Duration
}

// New creates a Client with the given HTTP client and API base URL.
func New(client HTTPClient, baseURL string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type reverseResult struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
	} `json:"address"`
}

// Search resolves a free-text city name to a location.
func (c *Client) Search(ctx context.Context, city string) (model.Location, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []searchResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return model.Location{}, err
	}
	if len(results) == 0 {
		return model.Location{}, fmt.Errorf("%w: %q", ErrNotFound, city)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("parse lat %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Location{}, fmt.Errorf("parse lon %q: %w", results[0].Lon, err)
	}

	name, _, _ := strings.Cut(results[0].DisplayName, ",")
	if name = strings.TrimSpace(name); name == "" {
		name = city
	}
	return model.Location{City: name, Lat: lat, Lon: lon}, nil
}

// Reverse resolves coordinates to a settlement name. When no settlement
// field is present the coordinates themselves become the label.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (model.Location, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")

	var result reverseResult
	if err := c.get(ctx, "/reverse", q, &result); err != nil {
		return model.Location{}, err
	}

	city := result.Address.City
	for _, fallback := range []string{result.Address.Town, result.Address.Village, result.Address.County} {
		if city != "" {
			break
		}
		city = fallback
	}
	if city == "" {
		city = fmt.Sprintf("%.4f, %.4f", lat, lon)
	}
	return model.Location{City: city, Lat: lat, Lon: lon}, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "PrayerNotifyBot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
