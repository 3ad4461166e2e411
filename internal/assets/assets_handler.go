package assets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	activityrepo "assetregister/internal/activity"
	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type AssetHandler struct {
	repository  *registry.Repository
	service     *AssetService
	activityLog *activityrepo.ActivityLogRepository
}

func NewAssetHandler(r *registry.Repository, s *AssetService, a *activityrepo.ActivityLogRepository) *AssetHandler {
	return &AssetHandler{
		repository:  r,
		service:     s,
		activityLog: a,
	}
}

func (h *AssetHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/assets", security.Authorize(roles.Manager), h.CreateAsset)
	router.GET("/assets", security.Authorize(roles.Viewer), h.GetAssets)
	router.GET("/assets/:id", security.Authorize(roles.Viewer), h.GetAsset)
	router.GET("/assets/:id/logs", security.Authorize(roles.Viewer), h.GetAssetLogs)
	router.POST("/assets/categories", security.Authorize(roles.Manager), h.CreateCategory)
	router.GET("/assets/categories", security.Authorize(roles.Viewer), h.GetCategories)
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	req := models.AssetRequest{
		LocationID: models.DefaultStoreLocationID,
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	asset, err := h.service.RegisterAsset(req)
	if err != nil {
		var uniqueViolation *apperrors.UniqueViolationError
		if errors.As(err, &uniqueViolation) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Serial number already registered", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to register asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) GetAssets(c *gin.Context) {
	assets, err := h.repository.GetAssets()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	asset, err := h.repository.GetAsset(assetID)
	if errors.Is(err, registry.ErrAssetNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) GetAssetLogs(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	entries, err := h.activityLog.GetResourceLog(assetID, "asset")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get asset logs", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *AssetHandler) CreateCategory(c *gin.Context) {
	var category models.AssetCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.repository.PersistCategory(&category); err != nil {
		var uniqueViolation *apperrors.UniqueViolationError
		if errors.As(err, &uniqueViolation) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Category type already exists", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *AssetHandler) GetCategories(c *gin.Context) {
	categories, err := h.repository.GetCategories()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list categories", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}
