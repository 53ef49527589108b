package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"property-resolver/internal/models"
)

// ErrGeocoderUnavailable is returned when no geocoder is configured.
var ErrGeocoderUnavailable = errors.New("geocoder not configured")

// GeoCodeService locates a civic address and reports the zoning at that point
type GeoCodeService struct {
	locator Locator
	zoning  ZoningLookup
}

// Locator interface for dependency injection
type Locator interface {
	Locate(ctx context.Context, address, city string) (*models.ParcelLocation, error)
}

// NewGeoCodeService creates a new geo code service. Either argument may be nil.
func NewGeoCodeService(locator Locator, zoning ZoningLookup) *GeoCodeService {
	return &GeoCodeService{locator: locator, zoning: zoning}
}

// Geocode returns the location of address in city, or nil when the geocoder
// has no confident match.
func (s *GeoCodeService) Geocode(ctx context.Context, address, city string) (*models.ParcelLocation, error) {
	if strings.TrimSpace(address) == "" || strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("service: address and city cannot be empty: %w", ErrInvalidInput)
	}

	if s.locator == nil {
		return nil, ErrGeocoderUnavailable
	}

	loc, err := s.locator.Locate(ctx, address, city)
	if err != nil {
		return nil, fmt.Errorf("service: failed to locate address: %w", err)
	}
	if loc == nil {
		return nil, nil
	}

	if s.zoning != nil {
		if code, ok := s.zoning.ZoningAt(loc.Latitude, loc.Longitude); ok {
			loc.Zoning = code
		}
	}
	return loc, nil
}
