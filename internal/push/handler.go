package push

import (
	"errors"

	"dormview_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for device token operations.
// All routes in this group should be authenticated.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("", h.registerDevice)
	router.DELETE("/:token", h.unregisterDevice)
}

func (h *Handler) registerDevice(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Register device: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.RegisterDevice(c.Request.Context(), userID, req); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Device registered successfully.", nil)
}

func (h *Handler) unregisterDevice(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("User ID not found in token."))
		return
	}

	token := c.Param("token")
	if token == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Device token is required."))
		return
	}

	if err := h.service.UnregisterDevice(c.Request.Context(), userID, token); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
