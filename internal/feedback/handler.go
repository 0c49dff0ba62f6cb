// File: internal/feedback/handler.go
package feedback

import (
	"errors"

	"dormview_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for feedback handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new feedback handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for feedback operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	feedbackGroup := router.Group("/feedback")
	feedbackGroup.Use(authMW)
	{
		feedbackGroup.POST("", h.createFeedback)

		adminGroup := feedbackGroup.Group("")
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.GET("", h.listFeedback)
		}
	}
}

func (h *Handler) createFeedback(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	feedback, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Feedback submitted successfully.", ToFeedbackResponse(feedback))
}

func (h *Handler) listFeedback(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)

	items, pagination, err := h.service.List(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Feedback retrieved successfully.", ToFeedbackResponses(items), pagination)
}
