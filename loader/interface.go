package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/silyecsabi/weather-forecast/frame"
)

// Geocoder resolves a free-text place to a coordinate. Implementations
// return ErrLocationNotFound (possibly wrapped) when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, query Query) (Coordinate, error)
}

// Provider returns the daily temperature series for a point, indexed by
// date. The returned frame is the provider's native table.
type Provider interface {
	Daily(ctx context.Context, point Coordinate, from, to time.Time) (*frame.Frame, error)
}

type Query struct {
	City    string
	Country string
}

func (q Query) String() string {
	return fmt.Sprintf("%s, %s", q.City, q.Country)
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
