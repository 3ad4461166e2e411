package lifecycle

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

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.PATCH("/assets/:id/status", security.Authorize(roles.Manager), h.TransitionStatus)
}

type transitionRequest struct {
	Event   string  `json:"event" binding:"required"`
	Outcome string  `json:"outcome"`
	UserID  *int    `json:"user_id"`
	Reason  string  `json:"reason"`
}

func (h *Handler) TransitionStatus(c *gin.Context) {
	assetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	event, err := NewEvent(req.Event)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown lifecycle event", "details": err.Error()})
		return
	}

	actorID, _ := security.GetUserIDFromContext(c)

	asset, err := h.service.TransitionStatus(assetID, event, Payload{
		Outcome: Outcome(req.Outcome),
		UserID:  req.UserID,
		Reason:  req.Reason,
	}, actorID)

	if err != nil {
		var invalid *apperrors.InvalidTransitionError
		switch {
		case errors.As(err, &invalid):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "Transition not allowed",
				"from":  invalid.From,
				"event": invalid.Event,
			})
		case errors.Is(err, registry.ErrAssetNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unable to change status", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, asset)
}
