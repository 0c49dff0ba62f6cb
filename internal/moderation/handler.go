// File: internal/moderation/handler.go
package moderation

import (
	"dormview_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for moderation handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new moderation handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the admin moderation routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	moderationGroup := router.Group("/moderation")
	moderationGroup.Use(authMW)
	moderationGroup.Use(adminRoleMW)
	{
		moderationGroup.GET("/summary", h.getPendingSummary)
	}
}

func (h *Handler) getPendingSummary(c *gin.Context) {
	summary, err := h.service.PendingSummary(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Moderation summary retrieved successfully.", summary)
}
