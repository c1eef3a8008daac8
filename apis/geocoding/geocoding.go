package geocoding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/loader"
)

// New returns the geocoder selected by cfg.Backend.
func New(cfg config.Geocoding, logger *zap.Logger) (loader.Geocoder, error) {
	switch cfg.Backend {
	case config.GeocoderNominatim, "":
		return NewNominatim(cfg.Nominatim, logger), nil
	case config.GeocoderGoogle:
		g, err := NewGoogle(cfg.Google, logger)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown geocoding backend %q", cfg.Backend)
	}
}
