package valuation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type Handler struct {
	assets *registry.Repository
}

func NewHandler(assets *registry.Repository) *Handler {
	return &Handler{assets: assets}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/assets/:id/value", security.Authorize(roles.Viewer), h.GetValue)
	router.GET("/assets/:id/projection", security.Authorize(roles.Viewer), h.GetProjection)
}

// GetValue returns the asset's book value as of a date, defaulting to
// today.
func (h *Handler) GetValue(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	asOf := time.Now()
	if rawAsOf := c.Query("as_of"); rawAsOf != "" {
		asOf, err = time.Parse("2006-01-02", rawAsOf)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid as_of date, expected YYYY-MM-DD"})
			return
		}
	}

	asset, err := h.assets.GetAsset(assetID)
	if errors.Is(err, registry.ErrAssetNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}

	result, err := Compute(*asset, asOf)
	if err != nil {
		var invalidAsOf *apperrors.InvalidAsOfDateError
		if errors.As(err, &invalidAsOf) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Valuation date precedes purchase date", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compute valuation", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset_id":  asset.ID,
		"tag_code":  asset.TagCode,
		"valuation": result,
	})
}

// GetProjection returns the depreciation schedule on purchase
// anniversaries for the requested number of years.
func (h *Handler) GetProjection(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	years := 0
	if rawYears := c.Query("years"); rawYears != "" {
		years, err = strconv.Atoi(rawYears)
		if err != nil || years < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid years parameter"})
			return
		}
	}

	asset, err := h.assets.GetAsset(assetID)
	if errors.Is(err, registry.ErrAssetNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}

	if years == 0 {
		years = asset.UsefulLifeYears
	}

	schedule, err := Schedule(*asset, years)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to compute projection", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset_id": asset.ID,
		"tag_code": asset.TagCode,
		"schedule": schedule,
	})
}
