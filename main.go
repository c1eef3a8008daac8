package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/apis/geocoding"
	"github.com/silyecsabi/weather-forecast/apis/meteostat"
	"github.com/silyecsabi/weather-forecast/apis/openmeteo"
	"github.com/silyecsabi/weather-forecast/cli"
	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/loader"
)

//go:embed config.yaml
var configRaw []byte

func main() {
	ctx := context.Background()

	cmd, err := cli.New(configRaw, build)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new cli: %s\n", err)
		os.Exit(1)
	}

	if err = cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "exec: %s\n", err)
		os.Exit(1)
	}
}

func build(cfg *config.Config, logger *zap.Logger) (*loader.Loader, error) {
	geocoder, err := geocoding.New(cfg.Geocoding, logger)
	if err != nil {
		return nil, err
	}

	var provider loader.Provider
	switch cfg.Weather.Provider {
	case config.ProviderOpenMeteo:
		provider = openmeteo.New(cfg.Weather.OpenMeteo, logger)
	default:
		provider = meteostat.New(cfg.Weather.Meteostat, logger)
	}

	logger.Debug("data loader ready",
		zap.String("geocoder", cfg.Geocoding.Backend),
		zap.String("provider", cfg.Weather.Provider))

	return loader.New(geocoder, provider, logger), nil
}
