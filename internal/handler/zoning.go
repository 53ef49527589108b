package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"property-resolver/internal/models"
	"property-resolver/internal/service"

	"github.com/gin-gonic/gin"
)

// ZoningHandler handles point zoning requests
type ZoningHandler struct {
	service ZoningService
}

// ZoningService interface for dependency injection
type ZoningService interface {
	ZoningAt(ctx context.Context, lat, lon float64) (*models.ParcelLocation, error)
}

// NewZoningHandler creates a new zoning handler
func NewZoningHandler(svc ZoningService) *ZoningHandler {
	return &ZoningHandler{service: svc}
}

// ZoningAt handles GET /zoning requests
func (h *ZoningHandler) ZoningAt(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	location, err := h.service.ZoningAt(c.Request.Context(), lat, lon)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	case errors.Is(err, service.ErrZoningUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "zoning layer not configured"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no zoning found at the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, location)
}
