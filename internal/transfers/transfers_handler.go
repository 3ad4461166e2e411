package transfers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/roles"
	"assetregister/pkg/security"
)

type TransferHandler struct {
	service *TransferService
}

func NewHandler(service *TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

func (h *TransferHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/transfers", security.Authorize(roles.Viewer), h.CreateTransfer)
	router.GET("/transfers/:id", security.Authorize(roles.Viewer), h.GetTransfer)
	router.GET("/assets/:id/transfers", security.Authorize(roles.Viewer), h.GetAssetTransfers)
	router.PATCH("/transfers/:id/approve", security.Authorize(roles.Manager), h.ApproveTransfer)
	router.PATCH("/transfers/:id/reject", security.Authorize(roles.Manager), h.RejectTransfer)
}

func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	requesterID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve requesting user"})
		return
	}

	transfer, err := h.service.CreateTransfer(req, requesterID)
	if err != nil {
		var noOp *apperrors.NoOpTransferError
		switch {
		case errors.As(err, &noOp):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Transfer would not move the asset", "details": err.Error()})
		case errors.Is(err, registry.ErrAssetNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create transfer", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) GetTransfer(c *gin.Context) {
	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer id"})
		return
	}

	transfer, err := h.service.GetTransfer(transferID)
	if errors.Is(err, ErrTransferNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get transfer", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) GetAssetTransfers(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	transfers, err := h.service.GetAssetTransfers(assetID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list asset transfers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer id"})
		return
	}

	approverID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve approving user"})
		return
	}

	asset, err := h.service.ApproveTransfer(transferID, approverID)
	if err != nil {
		var stale *apperrors.StaleTransferRequestError
		var finalized *apperrors.AlreadyFinalizedError
		switch {
		case errors.As(err, &stale):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Transfer request is stale", "details": err.Error()})
		case errors.As(err, &finalized):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Transfer request already finalized", "details": err.Error()})
		case errors.Is(err, ErrTransferNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to approve transfer", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *TransferHandler) RejectTransfer(c *gin.Context) {
	transferID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid transfer id"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	actorID, err := security.GetUserIDFromContext(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unable to resolve rejecting user"})
		return
	}

	transfer, err := h.service.RejectTransfer(transferID, req.Reason, actorID)
	if err != nil {
		var finalized *apperrors.AlreadyFinalizedError
		switch {
		case errors.As(err, &finalized):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Transfer request already finalized", "details": err.Error()})
		case errors.Is(err, ErrTransferNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Transfer not found"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to reject transfer", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, transfer)
}
