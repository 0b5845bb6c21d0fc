package geocode

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"prayer_bot/internal/model"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
}

func (m *mockTransport) Do(_ *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		transport *mockTransport
		want      model.Location
		wantErr   bool
	}{
		{
			name: "city found",
			transport: &mockTransport{
				statusCode: 200,
				body:       `[{"lat": "55.7963", "lon": "49.1088", "display_name": "Казань, Татарстан, Россия"}]`,
			},
			want: model.Location{City: "Казань", Lat: 55.7963, Lon: 49.1088},
		},
		{
			name:      "no results",
			transport: &mockTransport{statusCode: 200, body: `[]`},
			wantErr:   true,
		},
		{
			name:      "http error status",
			transport: &mockTransport{statusCode: 503, body: "unavailable"},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "malformed coordinates",
			transport: &mockTransport{statusCode: 200, body: `[{"lat": "north", "lon": "49.1", "display_name": "X"}]`},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.transport, "https://nominatim.example.org")
			got, err := c.Search(context.Background(), "Казань")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchNotFoundError(t *testing.T) {
	c := New(&mockTransport{statusCode: 200, body: `[]`}, "https://nominatim.example.org")
	_, err := c.Search(context.Background(), "Атлантида")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCity string
	}{
		{
			name:     "city field",
			body:     `{"address": {"city": "Казань", "county": "Татарстан"}}`,
			wantCity: "Казань",
		},
		{
			name:     "falls back to town",
			body:     `{"address": {"town": "Арск"}}`,
			wantCity: "Арск",
		},
		{
			name:     "falls back to village",
			body:     `{"address": {"village": "Кырлай"}}`,
			wantCity: "Кырлай",
		},
		{
			name:     "no settlement, coordinates as label",
			body:     `{"address": {}}`,
			wantCity: "55.7963, 49.1088",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&mockTransport{statusCode: 200, body: tt.body}, "https://nominatim.example.org")
			got, err := c.Reverse(context.Background(), 55.7963, 49.1088)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.wantCity, got.City); diff != "" {
				t.Errorf("city mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
