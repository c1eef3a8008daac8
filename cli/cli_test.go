package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/frame"
	"github.com/silyecsabi/weather-forecast/loader"
)

const defaults = `
log:
  level: error
geocoding:
  backend: nominatim
  nominatim:
    url: http://127.0.0.1/search
    userAgent: my_weather_app
weather:
  provider: meteostat
  meteostat:
    url: http://127.0.0.1/point/daily
  openmeteo:
    url: http://127.0.0.1/v1/archive
request:
  country: HU
  city: Budapest
  from: "2020-01-01"
  to: "2020-01-02"
server:
  port: "8080"
`

type fakeGeocoder struct{ queries []loader.Query }

func (f *fakeGeocoder) Geocode(_ context.Context, q loader.Query) (loader.Coordinate, error) {
	f.queries = append(f.queries, q)
	return loader.Coordinate{Latitude: 47.4979, Longitude: 19.0402}, nil
}

type fakeProvider struct{}

func (fakeProvider) Daily(_ context.Context, _ loader.Coordinate, from, to time.Time) (*frame.Frame, error) {
	var dates []time.Time
	var values []float64
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
		values = append(values, float64(len(values)))
	}
	return frame.New(frame.Times("time", dates), frame.Floats("tavg", values))
}

func run(t *testing.T, args ...string) (string, *fakeGeocoder, error) {
	t.Helper()

	t.Setenv("WEATHER_PROVIDER", "")
	t.Setenv("LOG_LEVEL", "")

	geo := &fakeGeocoder{}
	cmd, err := New([]byte(defaults), func(*config.Config, *zap.Logger) (*loader.Loader, error) {
		return loader.New(geo, fakeProvider{}, nil), nil
	})
	if err != nil {
		t.Fatalf("new cli: %v", err)
	}

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	return out.String(), geo, err
}

func TestDefaultRequest(t *testing.T) {
	out, geo, err := run(t, "--format", "csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "DATE,TAVG\n2020-01-01,0\n2020-01-02,1\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(geo.queries) != 1 || geo.queries[0].String() != "Budapest, Hungary" {
		t.Fatalf("unexpected queries %v", geo.queries)
	}
}

func TestArgsOverrideRequest(t *testing.T) {
	out, geo, err := run(t, "de", "Berlin", "--from", "2021-03-01", "--to", "2021-03-03", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geo.queries[0].String() != "Berlin, Germany" {
		t.Fatalf("unexpected query %q", geo.queries[0])
	}
	if !strings.HasPrefix(out, `[{"DATE":"2021-03-01","TAVG":0}`) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRawOutput(t *testing.T) {
	out, _, err := run(t, "--raw", "--format", "csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "time,tavg\n") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestErrors(t *testing.T) {
	if _, _, err := run(t, "HU"); err == nil {
		t.Fatal("expected error for a single argument")
	}
	if _, _, err := run(t, "XY", "Nowhere"); !errors.Is(err, loader.ErrUnknownCountry) {
		t.Fatalf("expected ErrUnknownCountry, got %v", err)
	}
	if _, _, err := run(t, "--from", "2020-02-01"); !errors.Is(err, loader.ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, _, err := run(t, "--format", "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTableHeaderGoesToStdout(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "")
	t.Setenv("LOG_LEVEL", "")

	cmd, err := New([]byte(defaults), func(*config.Config, *zap.Logger) (*loader.Loader, error) {
		return loader.New(&fakeGeocoder{}, fakeProvider{}, nil), nil
	})
	if err != nil {
		t.Fatalf("new cli: %v", err)
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{"--format", "table"})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "LOCATION\t Budapest, Hungary (HU)\n") {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "PERIOD\t\t 2020-01-01 - 2020-01-02\n") {
		t.Fatalf("missing period in %q", stdout.String())
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}
