package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const defaults = `
log:
  level: info
geocoding:
  backend: nominatim
  nominatim:
    url: https://nominatim.openstreetmap.org/search
    userAgent: my_weather_app
weather:
  provider: meteostat
  meteostat:
    url: https://meteostat.p.rapidapi.com/point/daily
    host: meteostat.p.rapidapi.com
  openmeteo:
    url: https://archive-api.open-meteo.com/v1/archive
request:
  country: HU
  city: Budapest
  from: "2020-01-01"
  to: "2020-01-02"
server:
  port: "8080"
  readTimeout: 10s
`

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "")

	cfg, err := Load([]byte(defaults), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geocoding.Backend != GeocoderNominatim {
		t.Fatalf("expected backend %q, got %q", GeocoderNominatim, cfg.Geocoding.Backend)
	}
	if cfg.Request.City != "Budapest" {
		t.Fatalf("expected city Budapest, got %q", cfg.Request.City)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("expected read timeout 10s, got %s", cfg.Server.ReadTimeout)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := "weather:\n  provider: openmeteo\nrequest:\n  city: Szeged\n"
	if err := os.WriteFile(path, []byte(override), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("METEOSTAT_API_KEY", "secret")
	t.Setenv("WEATHER_PROVIDER", "")

	cfg, err := Load([]byte(defaults), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weather.Provider != ProviderOpenMeteo {
		t.Fatalf("expected provider %q, got %q", ProviderOpenMeteo, cfg.Weather.Provider)
	}
	if cfg.Request.City != "Szeged" || cfg.Request.Country != "HU" {
		t.Fatalf("expected file to override only city, got %+v", cfg.Request)
	}
	if cfg.Weather.Meteostat.APIKey != "secret" {
		t.Fatalf("expected api key from environment, got %q", cfg.Weather.Meteostat.APIKey)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "weatherbit")

	if _, err := Load([]byte(defaults), ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLogger(t *testing.T) {
	if _, err := (Log{Level: "debug"}).Logger(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := (Log{Level: "loud"}).Logger(); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
