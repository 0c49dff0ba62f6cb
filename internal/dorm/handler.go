// File: internal/dorm/handler.go
package dorm

import (
	"errors"

	"dormview_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for dorm handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new dorm handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for dorm operations. Listing dorms for a
// school lives under the school resource, the rest under /dorms.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.GET("/schools/:id/dorms", h.listDormsForSchool)

	dormGroup := router.Group("/dorms")
	{
		dormGroup.GET("/:id", h.getDormByID)

		authedGroup := dormGroup.Group("")
		authedGroup.Use(authMW)
		{
			authedGroup.POST("", h.createDorm)
			authedGroup.DELETE("/:id", h.deleteDorm)
			authedGroup.POST("/:id/favorite", h.toggleFavorite)
			authedGroup.GET("/favorites", h.listFavorites)
			authedGroup.GET("/pending", h.listPending)
		}

		adminGroup := dormGroup.Group("")
		adminGroup.Use(authMW)
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.POST("/:id/approve", h.approveDorm)
			adminGroup.POST("/:id/reject", h.rejectDorm)
		}
	}
}

func (h *Handler) listDormsForSchool(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	dorms, pagination, err := h.service.ListBySchool(c.Request.Context(), schoolID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Dorms retrieved successfully.", ToDormResponses(dorms), pagination)
}

func (h *Handler) getDormByID(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}
	dorm, err := h.service.GetByID(c.Request.Context(), dormID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dorm retrieved successfully.", ToDormResponse(dorm))
}

func (h *Handler) createDorm(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreateDormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin
	dorm, err := h.service.Create(c.Request.Context(), userID, isAdmin, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Dorm submitted successfully.", ToDormResponse(dorm))
}

func (h *Handler) deleteDorm(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin

	if err := h.service.Delete(c.Request.Context(), dormID, userID, isAdmin); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)

	favorited, err := h.service.ToggleFavorite(c.Request.Context(), userID, dormID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite updated successfully.", gin.H{"favorited": favorited})
}

func (h *Handler) listFavorites(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	dorms, pagination, err := h.service.ListFavorites(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Favorite dorms retrieved successfully.", ToDormResponses(dorms), pagination)
}

func (h *Handler) listPending(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin
	page, pageSize := common.GetPaginationParams(c)

	dorms, pagination, err := h.service.ListPending(c.Request.Context(), userID, isAdmin, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Pending dorms retrieved successfully.", ToDormResponses(dorms), pagination)
}

func (h *Handler) approveDorm(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}

	var req ApproveDormRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	dorm, err := h.service.Approve(c.Request.Context(), dormID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Dorm approved successfully.", ToDormResponse(dorm))
}

func (h *Handler) rejectDorm(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}

	var req RejectDormRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	if err := h.service.Reject(c.Request.Context(), dormID, req.Reason); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
