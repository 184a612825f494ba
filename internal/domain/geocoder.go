package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Geocoder when the provider has no match for the
// query. It is a definitive answer, unlike transport or provider errors.
var ErrNotFound = errors.New("location not found")

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geo returns the coordinate pair of the result.
func (r GeocodingResult) Geo() Geo {
	return Geo{Lat: r.Lat, Lon: r.Lon}
}

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// ForwardGeocode converts a place name to coordinates. It returns
	// ErrNotFound (possibly wrapped) when the provider has no match.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
