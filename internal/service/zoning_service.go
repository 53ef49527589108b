package service

import (
	"context"
	"errors"
	"fmt"

	"property-resolver/internal/models"
)

// ErrZoningUnavailable is returned when no zoning layer is loaded.
var ErrZoningUnavailable = errors.New("zoning layer not configured")

// ZoningLookup interface for dependency injection
type ZoningLookup interface {
	ZoningAt(lat, lon float64) (string, bool)
}

// ZoningService answers point zoning queries from the local zoning layer
type ZoningService struct {
	layer ZoningLookup
}

// NewZoningService creates a new zoning service. layer may be nil.
func NewZoningService(layer ZoningLookup) *ZoningService {
	return &ZoningService{layer: layer}
}

// ZoningAt returns the zoning at the given coordinates, or nil when the point
// falls outside every polygon.
func (s *ZoningService) ZoningAt(ctx context.Context, lat, lon float64) (*models.ParcelLocation, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f: %w", lat, ErrInvalidInput)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f: %w", lon, ErrInvalidInput)
	}
	if s.layer == nil {
		return nil, ErrZoningUnavailable
	}

	code, ok := s.layer.ZoningAt(lat, lon)
	if !ok {
		return nil, nil
	}
	return &models.ParcelLocation{Latitude: lat, Longitude: lon, Zoning: code}, nil
}
