package handler

import (
	"context"
	"errors"
	"net/http"

	"property-resolver/internal/models"
	"property-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PropertyHandler handles property resolution requests
type PropertyHandler struct {
	service PropertyService
}

// PropertyService interface for dependency injection
type PropertyService interface {
	Resolve(ctx context.Context, address, city string) (models.PropertyDataResult, error)
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(svc PropertyService) *PropertyHandler {
	return &PropertyHandler{service: svc}
}

type propertyResponse struct {
	models.PropertyDataResult
	AssessmentStatus models.AssessmentStatus `json:"assessment_status"`
	NeedsManualEntry bool                    `json:"needs_manual_entry"`
}

// Resolve handles GET /property requests
func (h *PropertyHandler) Resolve(c *gin.Context) {
	address := c.Query("address")
	city := c.Query("city")
	if address == "" || city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'address' and 'city'"})
		return
	}

	result, err := h.service.Resolve(c.Request.Context(), address, city)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address and city must not be blank"})
			return
		}
		log.Error().Err(err).Str("address", address).Str("city", city).Msg("property resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, propertyResponse{
		PropertyDataResult: result,
		AssessmentStatus:   result.AssessmentStatus(),
		NeedsManualEntry:   result.NeedsManualEntry(),
	})
}
