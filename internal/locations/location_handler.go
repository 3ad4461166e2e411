package locations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type LocationHandler struct {
	Repository *LocationRepository
	Assets     *registry.Repository
}

func NewLocationHandler(r *LocationRepository, assets *registry.Repository) *LocationHandler {
	return &LocationHandler{Repository: r, Assets: assets}
}

func (h *LocationHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/locations", security.Authorize(roles.Manager), h.CreateLocation)
	router.GET("/locations", security.Authorize(roles.Viewer), h.GetLocations)
	router.GET("/locations/:id/assets", security.Authorize(roles.Viewer), h.GetLocationAssets)
	router.PATCH("/locations/:id", security.Authorize(roles.Manager), h.UpdateLocation)
	router.DELETE("/locations/:id", security.Authorize(roles.Admin), h.RemoveLocation)
}

func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.Repository.GetLocations()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.Repository.PersistLocation(&location)
	var unique *apperrors.UniqueViolationError
	if errors.As(err, &unique) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert location, name not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert location"})
		return
	}

	c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) GetLocationAssets(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	assets, err := h.Assets.GetAssetsByLocation(locationID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not get location assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	location, err := h.Repository.UpdateLocation(locationID, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) RemoveLocation(c *gin.Context) {
	locationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid location id"})
		return
	}

	err = h.Repository.RemoveLocation(locationID)
	var fk *apperrors.ForeignKeyViolationError
	if errors.As(err, &fk) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not delete location", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not delete location", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
