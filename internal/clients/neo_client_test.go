package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sampleFeed = `{
  "element_count": 2,
  "near_earth_objects": {
    "2025-07-22": [
      {
        "id": "3542519",
        "name": "(2010 PK9)",
        "absolute_magnitude_h": 21.4,
        "estimated_diameter": {
          "meters": {"estimated_diameter_min": 127.2, "estimated_diameter_max": 284.5}
        },
        "is_potentially_hazardous_asteroid": true,
        "is_sentry_object": false,
        "close_approach_data": [
          {"close_approach_date": "2025-07-22", "relative_velocity": {"kilometers_per_second": "17.5134"}}
        ]
      },
      {"id": "54016475", "name": "(2020 OY4)", "close_approach_data": []}
    ]
  }
}`

func TestFetchEntriesForDate(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"start_date": r.URL.Query().Get("start_date"),
			"end_date":   r.URL.Query().Get("end_date"),
			"api_key":    r.URL.Query().Get("api_key"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	client := NewNEOClient(NEOConfig{APIKey: "secret", NEOURL: server.URL, Timeout: 5 * time.Second})

	entries, err := client.FetchEntriesForDate(context.Background(), time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["start_date"] != "2025-07-22" || gotQuery["end_date"] != "2025-07-22" {
		t.Errorf("expected single-day window, got %v", gotQuery)
	}
	if gotQuery["api_key"] != "secret" {
		t.Errorf("expected api key to be sent, got %q", gotQuery["api_key"])
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	obj, err := entries[0].Decode()
	if err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if obj.Name == nil || *obj.Name != "(2010 PK9)" {
		t.Errorf("unexpected name %v", obj.Name)
	}
	if v, ok := obj.FirstVelocity(); !ok || v != "17.5134" {
		t.Errorf("expected first velocity 17.5134, got %q (%v)", v, ok)
	}
	if m := obj.Meters(); m == nil || *m.EstimatedDiameterMax != 284.5 {
		t.Errorf("unexpected diameter range %+v", m)
	}

	second, err := entries[1].Decode()
	if err != nil {
		t.Fatalf("decode second entry: %v", err)
	}
	if _, ok := second.FirstVelocity(); ok {
		t.Error("empty close_approach_data must not yield a velocity")
	}
	if second.Meters() != nil {
		t.Error("expected no diameter range")
	}
}

func TestFetchEntriesForDateMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"element_count": 0, "near_earth_objects": {"2025-07-21": [{}]}}`))
	}))
	defer server.Close()

	client := NewNEOClient(NEOConfig{NEOURL: server.URL})

	entries, err := client.FetchEntriesForDate(context.Background(), time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", entries)
	}
}

func TestFetchEntriesForDateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>oops</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewNEOClient(NEOConfig{NEOURL: server.URL})

			_, err := client.FetchEntriesForDate(context.Background(), time.Now())
			if !errors.Is(err, ErrFeedUnavailable) {
				t.Fatalf("expected ErrFeedUnavailable, got %v", err)
			}
		})
	}
}

func TestFetchEntriesForDateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"near_earth_objects": {}}`))
	}))
	defer server.Close()

	client := NewNEOClient(NEOConfig{APIKey: "topsecret", NEOURL: server.URL, Timeout: 20 * time.Millisecond})

	_, err := client.FetchEntriesForDate(context.Background(), time.Now())
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("expected ErrFeedUnavailable on timeout, got %v", err)
	}
	if strings.Contains(err.Error(), "topsecret") {
		t.Errorf("api key leaked in error: %v", err)
	}
}

func TestRawFeedEntryDecodeMalformed(t *testing.T) {
	entry := RawFeedEntry(`{"name": 42}`)
	if _, err := entry.Decode(); err == nil {
		t.Fatal("expected decode error for non-string name")
	}
}

func TestFirstVelocityStringOrNumber(t *testing.T) {
	tests := []struct {
		name   string
		entry  string
		want   string
		wantOK bool
	}{
		{"numeric string", `{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": "17.5134"}}]}`, "17.5134", true},
		{"bare number", `{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": 12.5}}]}`, "12.5", true},
		{"non numeric string", `{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": "fast"}}]}`, "fast", true},
		{"null", `{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": null}}]}`, "", false},
		{"empty string", `{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": ""}}]}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := RawFeedEntry(tt.entry).Decode()
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, ok := obj.FirstVelocity()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}

	if _, err := RawFeedEntry(`{"close_approach_data": [{"relative_velocity": {"kilometers_per_second": true}}]}`).Decode(); err == nil {
		t.Error("expected decode error for a boolean velocity")
	}
}
