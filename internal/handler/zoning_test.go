package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"property-resolver/internal/models"
	"property-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockZoningService is a mock implementation of the ZoningService interface
type MockZoningService struct {
	mock.Mock
}

func (m *MockZoningService) ZoningAt(ctx context.Context, lat, lon float64) (*models.ParcelLocation, error) {
	args := m.Called(ctx, lat, lon)
	loc, _ := args.Get(0).(*models.ParcelLocation)
	return loc, args.Error(1)
}

func TestZoningHandler_ZoningAt(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		lat            string
		lon            string
		callService    bool
		mockLocation   *models.ParcelLocation
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing lat parameter",
			lon:            "-122.6123",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"missing required query parameters 'lat' and 'lon'"}`,
		},
		{
			name:           "invalid latitude format",
			lat:            "invalid",
			lon:            "-122.6123",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid latitude format"}`,
		},
		{
			name:           "invalid longitude format",
			lat:            "49.2198",
			lon:            "invalid",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid longitude format"}`,
		},
		{
			name:           "successful zoning lookup",
			lat:            "49.2198",
			lon:            "-122.6123",
			callService:    true,
			mockLocation:   &models.ParcelLocation{Latitude: 49.2198, Longitude: -122.6123, Zoning: "RS-1"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"address":"","latitude":49.2198,"longitude":-122.6123,"zoning":"RS-1"}`,
		},
		{
			name:           "outside every zone",
			lat:            "49.0",
			lon:            "-123.0",
			callService:    true,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"no zoning found at the specified coordinates"}`,
		},
		{
			name:           "coordinates out of range",
			lat:            "91",
			lon:            "-122.6123",
			callService:    true,
			mockError:      fmt.Errorf("service: zoning: %w", service.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"coordinates out of range"}`,
		},
		{
			name:           "layer not configured",
			lat:            "49.2198",
			lon:            "-122.6123",
			callService:    true,
			mockError:      service.ErrZoningUnavailable,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"error":"zoning layer not configured"}`,
		},
		{
			name:           "service error",
			lat:            "49.2198",
			lon:            "-122.6123",
			callService:    true,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockZoningService)
			handler := NewZoningHandler(mockSvc)

			if tt.callService {
				var lat, lon float64
				fmt.Sscan(tt.lat, &lat)
				fmt.Sscan(tt.lon, &lon)
				mockSvc.On("ZoningAt", mock.Anything, lat, lon).Return(tt.mockLocation, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/zoning", nil)
			q := req.URL.Query()
			if tt.lat != "" {
				q.Add("lat", tt.lat)
			}
			if tt.lon != "" {
				q.Add("lon", tt.lon)
			}
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.ZoningAt(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
