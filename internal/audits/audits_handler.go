package audits

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type AuditHandler struct {
	service *AuditService
}

func NewHandler(service *AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/audits", security.Authorize(roles.Manager), h.CreateAudit)
	router.GET("/audits/:id", security.Authorize(roles.Viewer), h.GetAudit)
	router.GET("/audits/:id/discrepancies", security.Authorize(roles.Viewer), h.GetDiscrepancies)
	router.PATCH("/audits/:id/verify", security.Authorize(roles.Viewer), h.VerifyAsset)
	router.PATCH("/audits/:id/complete", security.Authorize(roles.Manager), h.CompleteAudit)
}

func (h *AuditHandler) CreateAudit(c *gin.Context) {
	var req CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	run, err := h.service.CreateAudit(req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to create audit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, run)
}

func (h *AuditHandler) GetAudit(c *gin.Context) {
	auditID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid audit id"})
		return
	}

	run, err := h.service.GetAudit(auditID)
	if errors.Is(err, ErrAuditNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Audit not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *AuditHandler) GetDiscrepancies(c *gin.Context) {
	auditID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid audit id"})
		return
	}

	discrepancies, err := h.service.GetDiscrepancies(auditID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list discrepancies", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, discrepancies)
}

func (h *AuditHandler) VerifyAsset(c *gin.Context) {
	auditID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid audit id"})
		return
	}

	var req struct {
		AssetID int `json:"asset_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	run, err := h.service.VerifyAsset(auditID, req.AssetID)
	if err != nil {
		var closed *apperrors.AuditAlreadyClosedError
		switch {
		case errors.As(err, &closed):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Audit is already completed", "details": err.Error()})
		case errors.Is(err, ErrAuditNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Audit not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify asset", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *AuditHandler) CompleteAudit(c *gin.Context) {
	auditID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid audit id"})
		return
	}

	run, err := h.service.CompleteAudit(auditID)
	if err != nil {
		if errors.Is(err, ErrAuditNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Audit not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to complete audit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}
