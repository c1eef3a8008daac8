package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RawConfig holds the caller supplied request fields. Resolve turns it into
// a validated Config.
type RawConfig struct {
	CountryCode string    `validate:"required,len=2,alpha"`
	CityName    string    `validate:"required"`
	DateFrom    time.Time `validate:"required"`
	DateTo      time.Time `validate:"required"`
}

// Config is a resolved, immutable data loader request.
type Config struct {
	countryCode string
	countryName string
	cityName    string
	dateFrom    time.Time
	dateTo      time.Time
}

func NewConfig(countryCode, cityName string, dateFrom, dateTo time.Time) (Config, error) {
	return RawConfig{
		CountryCode: countryCode,
		CityName:    cityName,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
	}.Resolve()
}

// Resolve checks the date range and fields, then derives the country name.
// Dates are truncated to calendar days.
func (r RawConfig) Resolve() (Config, error) {
	from, to := calendarDay(r.DateFrom), calendarDay(r.DateTo)
	if from.After(to) {
		return Config{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	if err := validate.Struct(r); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name, err := CountryName(r.CountryCode)
	if err != nil {
		return Config{}, err
	}

	return Config{
		countryCode: strings.ToUpper(r.CountryCode),
		countryName: name,
		cityName:    r.CityName,
		dateFrom:    from,
		dateTo:      to,
	}, nil
}

func (c Config) CountryCode() string { return c.countryCode }
func (c Config) CountryName() string { return c.countryName }
func (c Config) CityName() string    { return c.cityName }
func (c Config) DateFrom() time.Time { return c.dateFrom }
func (c Config) DateTo() time.Time   { return c.dateTo }

func calendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
