package geocoding

import (
	"context"
	"errors"
	"strings"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/loader"
)

var errMissingAPIKey = errors.New("google geocoding requires an api key")

// NewGoogle configures the Google Geocoding API backend. The underlying
// client keeps its key in a package variable, so only one key can be active
// per process.
func NewGoogle(cfg config.Google, logger *zap.Logger) (*google, error) {
	if cfg.APIKey == "" {
		return nil, errMissingAPIKey
	}
	geocoder.ApiKey = cfg.APIKey

	return &google{
		lookup: geocoder.Geocoding,
		logger: logger,
	}, nil
}

type google struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
	logger *zap.Logger
}

func (g google) Geocode(ctx context.Context, query loader.Query) (loader.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return loader.Coordinate{}, err
	}

	location, err := g.lookup(geocoder.Address{
		City:    query.City,
		Country: query.Country,
	})
	if err != nil {
		if zeroResults(err) {
			return loader.Coordinate{}, loader.ErrLocationNotFound
		}
		return loader.Coordinate{}, err
	}

	if location.Latitude == 0 && location.Longitude == 0 {
		return loader.Coordinate{}, loader.ErrLocationNotFound
	}

	if g.logger != nil {
		g.logger.Debug("google geocoding match", zap.Stringer("query", query))
	}

	return loader.Coordinate{Latitude: location.Latitude, Longitude: location.Longitude}, nil
}

func zeroResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "zero_results") || strings.Contains(msg, "no results")
}
