package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/frame"
)

var (
	ErrUnknownCountry   = errors.New("invalid ISO country code")
	ErrInvalidDateRange = errors.New("date_to must not be earlier than date_from")
	ErrLocationNotFound = errors.New("location not found")
	ErrInvalidConfig    = errors.New("invalid data loader config")
)

// Date column name used by the daily series providers.
const (
	ProviderDateColumn  = "time"
	FormattedDateColumn = "DATE"
)

// Loader runs the country -> coordinate -> daily series pipeline. It keeps
// no state besides its collaborators and is safe for concurrent use.
type Loader struct {
	geocoder Geocoder
	provider Provider
	logger   *zap.Logger
}

func New(geocoder Geocoder, provider Provider, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		geocoder: geocoder,
		provider: provider,
		logger:   logger,
	}
}

// Coordinates geocodes "{city}, {country}".
func (l *Loader) Coordinates(ctx context.Context, countryName, cityName string) (Coordinate, error) {
	query := Query{City: cityName, Country: countryName}

	point, err := l.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			return Coordinate{}, fmt.Errorf("%w: %s", ErrLocationNotFound, query)
		}
		return Coordinate{}, err
	}

	l.logger.Debug("geocoded location",
		zap.Stringer("query", query),
		zap.Float64("latitude", point.Latitude),
		zap.Float64("longitude", point.Longitude))

	return point, nil
}

// RawWeatherData returns the provider's daily series for the configured
// place and range, as is.
func (l *Loader) RawWeatherData(ctx context.Context, config Config) (*frame.Frame, error) {
	point, err := l.Coordinates(ctx, config.CountryName(), config.CityName())
	if err != nil {
		return nil, err
	}

	data, err := l.provider.Daily(ctx, point, config.DateFrom(), config.DateTo())
	if err != nil {
		return nil, err
	}

	if data != nil {
		l.logger.Debug("fetched daily series",
			zap.String("city", config.CityName()),
			zap.String("country", config.CountryName()),
			zap.Time("from", config.DateFrom()),
			zap.Time("to", config.DateTo()),
			zap.Int("rows", data.Len()))
	}

	return data, nil
}

// WeatherData returns the daily series with the date index flattened into a
// DATE column and every column name uppercased.
func (l *Loader) WeatherData(ctx context.Context, config Config) (*frame.Frame, error) {
	raw, err := l.RawWeatherData(ctx, config)
	if err != nil {
		return nil, err
	}
	return Format(raw)
}

// Format flattens the index, uppercases the column names and renames TIME to
// DATE. Values and row order are left as they are; raw is not modified.
func Format(raw *frame.Frame) (*frame.Frame, error) {
	if raw == nil {
		return nil, errors.New("format: nil frame")
	}

	data, err := raw.ResetIndex().MapNames(strings.ToUpper)
	if err != nil {
		return nil, err
	}

	return data.Rename(map[string]string{
		strings.ToUpper(ProviderDateColumn): FormattedDateColumn,
	})
}
