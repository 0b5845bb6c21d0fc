// Package prayer implements the prayer-times schedule provider client.
package prayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prayer_bot/internal/model"
)

// ErrProviderUnavailable is returned for every fetch failure: network
// errors, non-200 statuses, and malformed payloads all collapse into it.
var ErrProviderUnavailable = errors.New("schedule provider unavailable")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches daily schedules from an aladhan-compatible API.
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

// timingsResponse mirrors the provider payload; only the fields we read.
type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// Fetch returns the schedule for a location on a calendar date.
// Calculation settings follow the deployment region: method 3, Shafi school.
func (c *Client) Fetch(ctx context.Context, loc model.Location, date time.Time) (model.DailySchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	q.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	q.Set("method", "3")
	q.Set("school", "0")
	q.Set("timezonestring", "auto")

	reqURL := fmt.Sprintf("%s/v1/timings/%s?%s", c.baseURL, date.Format("02-01-2006"), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.DailySchedule{}, fmt.Errorf("%w: create request: %v", ErrProviderUnavailable, err)
	}
	req.Header.Set("User-Agent", "PrayerNotifyBot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.DailySchedule{}, fmt.Errorf("%w: http get: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.DailySchedule{}, fmt.Errorf("%w: unexpected status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return model.DailySchedule{}, fmt.Errorf("%w: read body: %v", ErrProviderUnavailable, err)
	}

	var payload timingsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return model.DailySchedule{}, fmt.Errorf("%w: parse payload: %v", ErrProviderUnavailable, err)
	}
	if payload.Code != http.StatusOK || len(payload.Data.Timings) == 0 {
		return model.DailySchedule{}, fmt.Errorf("%w: provider code %d", ErrProviderUnavailable, payload.Code)
	}

	times := make(map[string]string, len(payload.Data.Timings))
	for event, raw := range payload.Data.Timings {
		// Some deployments annotate times like "05:12 (MSK)".
		clock, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
		if _, err := model.ParseClock(clock); err != nil {
			continue
		}
		times[event] = clock
	}
	if len(times) == 0 {
		return model.DailySchedule{}, fmt.Errorf("%w: no usable timings", ErrProviderUnavailable)
	}

	return model.DailySchedule{
		LocationKey: loc.Key(),
		Date:        date.Format(model.DateLayout),
		Times:       times,
	}, nil
}
