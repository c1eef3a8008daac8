package openmeteo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/silyecsabi/weather-forecast/config"
	"github.com/silyecsabi/weather-forecast/frame"
	"github.com/silyecsabi/weather-forecast/loader"
)

const apiName = "archive-api.open-meteo.com"

// Series requested from the archive and the column each one is exposed as.
var series = []struct {
	param  string
	column string
}{
	{"temperature_2m_mean", "tavg"},
	{"temperature_2m_min", "tmin"},
	{"temperature_2m_max", "tmax"},
}

func New(cfg config.OpenMeteo, logger *zap.Logger) *openMeteo {
	return &openMeteo{
		client: resty.New(),
		url:    cfg.URL,
		logger: logger,
	}
}

type openMeteo struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

func (o openMeteo) Daily(ctx context.Context, point loader.Coordinate, from, to time.Time) (*frame.Frame, error) {
	params := url.Values{}

	params.Set("latitude", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(point.Longitude, 'f', -1, 64))
	params.Set("start_date", from.Format(frame.DateLayout))
	params.Set("end_date", to.Format(frame.DateLayout))
	params.Set("timezone", "auto")
	for _, s := range series {
		params.Add("daily", s.param)
	}

	request := o.client.R().SetContext(ctx)
	request.SetQueryParamsFromValues(params)

	response, err := request.Get(o.url)
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

	if o.logger != nil {
		o.logger.Debug("open-meteo daily series", zap.Int("rows", data.Len()))
	}

	return data, nil
}

func unmarshal(body []byte) (*frame.Frame, error) {
	type result struct {
		Daily map[string]json.RawMessage `json:"daily"`
	}

	var r result

	if err := json.Unmarshal(body, &r); err != nil {
		return nil, err
	}

	raw, ok := r.Daily["time"]
	if !ok {
		return nil, fmt.Errorf("%s: response has no daily time series", apiName)
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(days))
	for _, day := range days {
		date, err := time.Parse(frame.DateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("%s date %q: %w", apiName, day, err)
		}
		dates = append(dates, date)
	}

	columns := make([]*frame.Column, 0, len(series))
	for _, s := range series {
		raw, ok := r.Daily[s.param]
		if !ok {
			return nil, fmt.Errorf("%s: response has no %s series", apiName, s.param)
		}
		var values []*float64
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("%s %s: %w", apiName, s.param, err)
		}
		if len(values) != len(dates) {
			return nil, fmt.Errorf("%s %s: %d values for %d days", apiName, s.param, len(values), len(dates))
		}

		// null marks a missing observation
		floats := make([]float64, len(values))
		for i, v := range values {
			floats[i] = math.NaN()
			if v != nil {
				floats[i] = *v
			}
		}
		columns = append(columns, frame.Floats(s.column, floats))
	}

	return frame.New(frame.Times(loader.ProviderDateColumn, dates), columns...)
}
