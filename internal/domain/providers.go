package domain

import "context"

// GeocodingResult contains place data returned by a geocoding provider.
type GeocodingResult struct {
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves coordinates to a human-readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}

// ElevationProvider resolves coordinates to terrain elevation in meters.
type ElevationProvider interface {
	ElevationAt(ctx context.Context, lat, lng float64) (int, error)
}
