package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"valetquotes/internal/types"
)

// GeocodeService resolves free-text venue addresses through the Google
// Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a GeocodeService with the given API key.
func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Geocode returns the coordinate and place ID for an address. An address the
// API cannot resolve returns (nil, "", nil); venues without coordinates are
// still valid.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (*types.Point, string, error) {
	resp, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, "", fmt.Errorf("geocoding api error: %w", err)
	}
	if len(resp) == 0 {
		return nil, "", nil
	}
	best := resp[0]
	return &types.Point{
		Lat: best.Geometry.Location.Lat,
		Lng: best.Geometry.Location.Lng,
	}, best.PlaceID, nil
}
