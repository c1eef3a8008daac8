package openmeteo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/loader"
)

const archiveBody = `{
  "latitude": 47.5,
  "longitude": 19.04,
  "daily_units": {"time": "iso8601", "temperature_2m_mean": "°C"},
  "daily": {
    "time": ["2020-01-01", "2020-01-02"],
    "temperature_2m_mean": [-0.2, -1.0],
    "temperature_2m_min": [-2.9, null],
    "temperature_2m_max": [4.8, 4.0]
  }
}`

func TestDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start_date") != "2020-01-01" || q.Get("end_date") != "2020-01-02" {
			t.Errorf("unexpected range %s..%s", q.Get("start_date"), q.Get("end_date"))
		}
		if len(q["daily"]) != 3 {
			t.Errorf("expected 3 daily series, got %v", q["daily"])
		}
		_, _ = w.Write([]byte(archiveBody))
	}))
	defer server.Close()

	o := New(config.OpenMeteo{URL: server.URL}, nil)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	data, err := o.Daily(context.Background(), loader.Coordinate{Latitude: 47.4979, Longitude: 19.0402}, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := data.Names()
	if len(names) != 3 || names[0] != "tavg" || names[1] != "tmin" || names[2] != "tmax" {
		t.Fatalf("unexpected columns %v", names)
	}
	if data.Index().Name() != loader.ProviderDateColumn || data.Len() != 2 {
		t.Fatalf("unexpected index")
	}

	tmin, _ := data.Column("tmin")
	if tmin.Floats()[0] != -2.9 || !math.IsNaN(tmin.Floats()[1]) {
		t.Fatalf("unexpected tmin %v", tmin.Floats())
	}
}

func TestDailyMalformedSeries(t *testing.T) {
	cases := map[string]string{
		"missing series": `{"daily": {"time": ["2020-01-01"]}}`,
		"missing time":   `{"daily": {"temperature_2m_mean": [1], "temperature_2m_min": [0], "temperature_2m_max": [2]}}`,
		"length mismatch": `{"daily": {"time": ["2020-01-01", "2020-01-02"],
			"temperature_2m_mean": [1, 2, 3, 4], "temperature_2m_min": [5], "temperature_2m_max": [6, 7]}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := unmarshal([]byte(body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDailyNullValues(t *testing.T) {
	data, err := unmarshal([]byte(`{"daily": {"time": ["2020-01-01"],
		"temperature_2m_mean": [null], "temperature_2m_min": [-1], "temperature_2m_max": [2]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tavg, ok := data.Column("tavg")
	if !ok || !math.IsNaN(tavg.Floats()[0]) {
		t.Fatalf("expected NaN for null value")
	}
}

func TestDailyStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Parameter 'start_date' is out of allowed range"}`))
	}))
	defer server.Close()

	o := New(config.OpenMeteo{URL: server.URL}, nil)

	day := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := o.Daily(context.Background(), loader.Coordinate{}, day, day); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
