package maintenance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetregister/internal/lifecycle"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	maintenanceGroup := router.Group("/maintenance")
	{
		maintenanceGroup.GET("/requests", security.Authorize(roles.Viewer), h.getRecords)
		maintenanceGroup.GET("/requests/:id", security.Authorize(roles.Viewer), h.getRecord)
		maintenanceGroup.PUT("/requests/:id/status", security.Authorize(roles.Manager), h.changeStatus)
		maintenanceGroup.PUT("/requests/:id/assign", security.Authorize(roles.Manager), h.assignRecord)
		maintenanceGroup.POST("/requests/:id/resolve", security.Authorize(roles.Manager), h.resolveRecord)
		maintenanceGroup.GET("/requests/:id/comments", security.Authorize(roles.Viewer), h.getComments)
		maintenanceGroup.POST("/requests/:id/comments", security.Authorize(roles.Viewer), h.addComment)
	}
}

func (h *Handler) getRecords(c *gin.Context) {
	status := c.Query("status")

	assetID := 0
	if rawAssetID := c.Query("asset_id"); rawAssetID != "" {
		parsed, err := strconv.Atoi(rawAssetID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset_id filter"})
			return
		}
		assetID = parsed
	}

	limit, offset, err := getQueryPaginationParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit or offset", "details": err.Error()})
		return
	}

	records, err := h.service.GetRecords(status, assetID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list maintenance records", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *Handler) getRecord(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	record, err := h.service.GetRecord(recordID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance record not found", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) changeStatus(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.service.ChangeStatus(recordID, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status", "details": err.Error()})
		case errors.Is(err, ErrRecordClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Record is already resolved", "details": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to change status", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status changed"})
}

func (h *Handler) assignRecord(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req struct {
		AssignedToID int `json:"assigned_to_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.service.AssignRecord(recordID, req.AssignedToID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to assign record", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record assigned"})
}

func (h *Handler) resolveRecord(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req struct {
		Outcome string `json:"outcome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	outcome := lifecycle.Outcome(req.Outcome)
	if outcome != lifecycle.OutcomeResolved && outcome != lifecycle.OutcomeNeedsFurtherRepair {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown outcome: " + req.Outcome})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	record, err := h.service.Resolve(recordID, outcome, actorID)
	if err != nil {
		var invalidTransition *apperrors.InvalidTransitionError
		switch {
		case errors.Is(err, ErrRecordClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Record is already resolved", "details": err.Error()})
		case errors.As(err, &invalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "Asset cannot complete maintenance", "details": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to resolve record", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) getComments(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	comments, err := h.service.GetComments(recordID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list comments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) addComment(c *gin.Context) {
	recordID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	userID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user", "details": err.Error()})
		return
	}

	comment, err := h.service.AddComment(recordID, req.Content, userID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to add comment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, comment)
}

func getQueryPaginationParams(c *gin.Context) (int, int, error) {
	limit := c.DefaultQuery("limit", "50")
	offset := c.DefaultQuery("offset", "0")

	limitInt, err := strconv.Atoi(limit)
	if err != nil {
		return 0, 0, err
	}

	offsetInt, err := strconv.Atoi(offset)
	if err != nil {
		return 0, 0, err
	}

	return limitInt, offsetInt, nil
}
