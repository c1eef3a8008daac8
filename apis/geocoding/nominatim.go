package geocoding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/loader"
)

func NewNominatim(cfg config.Nominatim, logger *zap.Logger) *nominatim {
	return &nominatim{
		client:    resty.New(),
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		apiKey:    cfg.APIKey,
		logger:    logger,
	}
}

type nominatim struct {
	client    *resty.Client
	url       string
	userAgent string
	apiKey    string
	logger    *zap.Logger
}

// Geocode returns the first place the search endpoint ranks for the query.
func (n nominatim) Geocode(ctx context.Context, query loader.Query) (loader.Coordinate, error) {
	params := map[string]string{
		"q":      query.String(),
		"format": "json",
		"limit":  "1",
	}
	if n.apiKey != "" {
		params["api_key"] = n.apiKey
	}

	request := n.client.R().SetContext(ctx)
	request.SetHeader("User-Agent", n.userAgent)
	request.SetQueryParams(params)

	response, err := request.Get(n.url)
	if err != nil {
		return loader.Coordinate{}, err
	}

	if response.StatusCode() != 200 {
		return loader.Coordinate{}, statusError(response)
	}

	type place struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}

	places := make([]place, 0, 1)
	if err = json.Unmarshal(response.Body(), &places); err != nil {
		return loader.Coordinate{}, err
	}

	if len(places) == 0 {
		return loader.Coordinate{}, loader.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return loader.Coordinate{}, fmt.Errorf("latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return loader.Coordinate{}, fmt.Errorf("longitude %q: %w", places[0].Lon, err)
	}

	if n.logger != nil {
		n.logger.Debug("nominatim match", zap.String("place", places[0].DisplayName))
	}

	return loader.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func statusError(response *resty.Response) error {
	buf := &bytes.Buffer{}
	if err := json.Indent(buf, response.Body(), "", "  "); err != nil {
		buf.Reset()
		buf.Write(response.Body())
	}
	return fmt.Errorf("status code: %d\n%s", response.StatusCode(), buf.String())
}
