package meteostat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/frame"
	"github.com/silyecsabi/weather-forecast/loader"
)

const apiName = "meteostat"

func New(cfg config.Meteostat, logger *zap.Logger) *meteostat {
	return &meteostat{
		client: resty.New(),
		url:    cfg.URL,
		host:   cfg.Host,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

type meteostat struct {
	client *resty.Client
	url    string
	host   string
	apiKey string
	logger *zap.Logger
}

// Daily fetches the point/daily series and returns it indexed by "time"
// with tavg, tmin and tmax columns. Null observations become NaN.
func (m meteostat) Daily(ctx context.Context, point loader.Coordinate, from, to time.Time) (*frame.Frame, error) {
	params := map[string]string{
		"lat":   fmt.Sprintf("%f", point.Latitude),
		"lon":   fmt.Sprintf("%f", point.Longitude),
		"start": from.Format(frame.DateLayout),
		"end":   to.Format(frame.DateLayout),
	}

	request := m.client.R().SetContext(ctx)
	request.SetQueryParams(params)
	if m.apiKey != "" {
		request.SetHeader("x-rapidapi-key", m.apiKey)
	}
	if m.host != "" {
		request.SetHeader("x-rapidapi-host", m.host)
	}

	response, err := request.Get(m.url)
	if err != nil {
		return nil, err
	}

	if response.StatusCode() != 200 {
		buf := &bytes.Buffer{}
		if err = json.Indent(buf, response.Body(), "", "  "); err != nil {
			buf.Reset()
			buf.Write(response.Body())
		}
		return nil, fmt.Errorf("%s status code: %d\n%s", apiName, response.StatusCode(), buf.String())
	}

	data, err := unmarshal(response.Body())
	if err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logger.Debug("meteostat daily series", zap.Int("rows", data.Len()))
	}

	return data, nil
}

func unmarshal(body []byte) (*frame.Frame, error) {
	type result struct {
		Data []struct {
			Date string   `json:"date"`
			Tavg *float64 `json:"tavg"`
			Tmin *float64 `json:"tmin"`
			Tmax *float64 `json:"tmax"`
		} `json:"data"`
	}

	var r result

	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}

	var (
		dates = make([]time.Time, 0, len(r.Data))
		tavg  = make([]float64, 0, len(r.Data))
		tmin  = make([]float64, 0, len(r.Data))
		tmax  = make([]float64, 0, len(r.Data))
	)

	for _, row := range r.Data {
		date, err := time.Parse(frame.DateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("%s date %q: %w", apiName, row.Date, err)
		}
		dates = append(dates, date)
		tavg = append(tavg, value(row.Tavg))
		tmin = append(tmin, value(row.Tmin))
		tmax = append(tmax, value(row.Tmax))
	}

	return frame.New(
		frame.Times(loader.ProviderDateColumn, dates),
		frame.Floats("tavg", tavg),
		frame.Floats("tmin", tmin),
		frame.Floats("tmax", tmax),
	)
}

func value(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
