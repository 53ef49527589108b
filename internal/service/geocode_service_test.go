package service

import (
	"context"
	"testing"

	"property-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockLocator is a mock implementation of the Locator interface
type MockLocator struct {
	mock.Mock
}

// Locate implements Locator.
func (m *MockLocator) Locate(ctx context.Context, address, city string) (*models.ParcelLocation, error) {
	args := m.Called(ctx, address, city)
	loc, _ := args.Get(0).(*models.ParcelLocation)
	return loc, args.Error(1)
}

// MockZoningLookup is a mock implementation of the ZoningLookup interface
type MockZoningLookup struct {
	mock.Mock
}

// ZoningAt implements ZoningLookup.
func (m *MockZoningLookup) ZoningAt(lat, lon float64) (string, bool) {
	args := m.Called(lat, lon)
	return args.String(0), args.Bool(1)
}

func TestGeoCodeService_Geocode(t *testing.T) {
	tests := []struct {
		name        string
		address     string
		city        string
		mockLoc     *models.ParcelLocation
		mockError   error
		zoning      string
		expected    *models.ParcelLocation
		expectError bool
	}{
		{
			name:        "empty address",
			address:     "",
			city:        "Maple Ridge",
			expectError: true,
		},
		{
			name:    "located with zoning",
			address: "20387 Dale Drive",
			city:    "Maple Ridge",
			mockLoc: &models.ParcelLocation{Address: "20387 Dale Dr, Maple Ridge, BC", Latitude: 49.2198, Longitude: -122.6123},
			zoning:  "RS-1",
			expected: &models.ParcelLocation{
				Address:   "20387 Dale Dr, Maple Ridge, BC",
				Latitude:  49.2198,
				Longitude: -122.6123,
				Zoning:    "RS-1",
			},
		},
		{
			name:    "no confident match",
			address: "1 Nowhere Rd",
			city:    "Maple Ridge",
		},
		{
			name:        "geocoder error",
			address:     "20387 Dale Drive",
			city:        "Maple Ridge",
			mockError:   assert.AnError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := new(MockLocator)
			zoning := new(MockZoningLookup)
			service := NewGeoCodeService(locator, zoning)

			if tt.address != "" {
				locator.On("Locate", mock.Anything, tt.address, tt.city).Return(tt.mockLoc, tt.mockError)
			}
			if tt.mockLoc != nil {
				zoning.On("ZoningAt", tt.mockLoc.Latitude, tt.mockLoc.Longitude).Return(tt.zoning, tt.zoning != "")
			}

			result, err := service.Geocode(context.Background(), tt.address, tt.city)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}

			locator.AssertExpectations(t)
			zoning.AssertExpectations(t)
		})
	}
}

func TestGeoCodeService_NoGeocoder(t *testing.T) {
	service := NewGeoCodeService(nil, nil)

	result, err := service.Geocode(context.Background(), "20387 Dale Drive", "Maple Ridge")

	assert.ErrorIs(t, err, ErrGeocoderUnavailable)
	assert.Nil(t, result)
}
