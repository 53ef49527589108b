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

// GeoCodeHandler handles address location requests
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Geocode(ctx context.Context, address, city string) (*models.ParcelLocation, error)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

// GeoCode handles GET /geocode requests
func (h *GeoCodeHandler) GeoCode(c *gin.Context) {
	address := c.Query("address")
	city := c.Query("city")
	if address == "" || city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'address' and 'city'"})
		return
	}

	location, err := h.service.Geocode(c.Request.Context(), address, city)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address and city must not be blank"})
			return
		}
		if errors.Is(err, service.ErrGeocoderUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "geocoder not configured"})
			return
		}
		log.Warn().Err(err).Str("address", address).Msg("geocode failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "address could not be located"})
		return
	}

	c.JSON(http.StatusOK, location)
}
