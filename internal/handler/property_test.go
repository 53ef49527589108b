package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"property-resolver/internal/models"
	"property-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPropertyService is a mock implementation of the PropertyService interface
type MockPropertyService struct {
	mock.Mock
}

func (m *MockPropertyService) Resolve(ctx context.Context, address, city string) (models.PropertyDataResult, error) {
	args := m.Called(ctx, address, city)
	return args.Get(0).(models.PropertyDataResult), args.Error(1)
}

func TestPropertyHandler_Resolve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	found := models.PropertyDataResult{
		Address: "4505 W 8th Ave",
		City:    "Vancouver",
		Assessment: &models.AssessmentRecord{
			ParcelID:           "012-345-678",
			Address:            "4505 W 8TH AVENUE",
			LandValue:          2100000,
			ImprovementValue:   350000,
			TotalAssessedValue: 2450000,
			Zoning:             "R1-1",
			Provenance: models.Provenance{
				Kind:   models.KindMunicipalOpenData,
				Source: "opendata:vancouver",
			},
		},
		Comparables: []models.ComparableSale{},
		Market:      models.MarketStatistics{Trend: models.TrendStable},
	}
	absent := models.PropertyDataResult{
		Address:     "1 Nowhere Rd",
		City:        "Maple Ridge",
		Comparables: []models.ComparableSale{},
		Market:      models.MarketStatistics{Trend: models.TrendStable},
	}

	tests := []struct {
		name             string
		address          string
		city             string
		callService      bool
		mockResult       models.PropertyDataResult
		mockError        error
		expectedStatus   int
		expectedError    string
		expectedStatusOf models.AssessmentStatus
		expectedManual   bool
	}{
		{
			name:           "missing address",
			city:           "Vancouver",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing required query parameters 'address' and 'city'",
		},
		{
			name:             "assessment found",
			address:          "4505 W 8th Ave",
			city:             "Vancouver",
			callService:      true,
			mockResult:       found,
			expectedStatus:   http.StatusOK,
			expectedStatusOf: models.AssessmentFound,
		},
		{
			name:             "nothing matched needs manual entry",
			address:          "1 Nowhere Rd",
			city:             "Maple Ridge",
			callService:      true,
			mockResult:       absent,
			expectedStatus:   http.StatusOK,
			expectedStatusOf: models.AssessmentAbsent,
			expectedManual:   true,
		},
		{
			name:           "blank input",
			address:        " ",
			city:           "Vancouver",
			callService:    true,
			mockError:      fmt.Errorf("service: resolve: %w", service.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "address and city must not be blank",
		},
		{
			name:           "service error",
			address:        "4505 W 8th Ave",
			city:           "Vancouver",
			callService:    true,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockPropertyService)
			handler := NewPropertyHandler(mockSvc)

			if tt.callService {
				mockSvc.On("Resolve", mock.Anything, tt.address, tt.city).Return(tt.mockResult, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/property", nil)
			q := req.URL.Query()
			if tt.address != "" {
				q.Add("address", tt.address)
			}
			if tt.city != "" {
				q.Add("city", tt.city)
			}
			req.URL.RawQuery = q.Encode()
			w := httptest.NewRecorder()

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.Resolve(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)

			if tt.expectedError != "" {
				assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.expectedError), w.Body.String())
				return
			}

			var body propertyResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.mockResult, body.PropertyDataResult)
			assert.Equal(t, tt.expectedStatusOf, body.AssessmentStatus)
			assert.Equal(t, tt.expectedManual, body.NeedsManualEntry)
			assert.Contains(t, w.Body.String(), `"comparables":[]`)
		})
	}
}
