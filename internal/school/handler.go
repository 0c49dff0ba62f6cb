// File: internal/school/handler.go
package school

import (
	"errors"
	"strconv"

	"dormview_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for school handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new school handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for school operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	schoolGroup := router.Group("/schools")
	{
		schoolGroup.GET("", h.listSchools)
		schoolGroup.GET("/search", h.searchSchools)
		schoolGroup.GET("/:id", h.getSchoolByID)

		authedGroup := schoolGroup.Group("")
		authedGroup.Use(authMW)
		{
			authedGroup.POST("", h.createSchool)
			authedGroup.DELETE("/:id", h.deleteSchool)
			authedGroup.POST("/:id/favorite", h.toggleFavorite)
			authedGroup.GET("/favorites", h.listFavorites)
			authedGroup.GET("/pending", h.listPending)
		}

		adminGroup := schoolGroup.Group("")
		adminGroup.Use(authMW)
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.POST("/:id/approve", h.approveSchool)
			adminGroup.POST("/:id/reject", h.rejectSchool)
		}
	}
}

func (h *Handler) listSchools(c *gin.Context) {
	var query ListSchoolsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	schools, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Schools retrieved successfully.", ToSchoolResponses(schools), pagination)
}

func (h *Handler) searchSchools(c *gin.Context) {
	term := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "0"))

	results, err := h.service.Search(c.Request.Context(), term, size)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search results retrieved successfully.", results)
}

func (h *Handler) getSchoolByID(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}
	school, err := h.service.GetByID(c.Request.Context(), schoolID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "School retrieved successfully.", ToSchoolResponse(school))
}

func (h *Handler) createSchool(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreateSchoolRequest
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
	school, err := h.service.Create(c.Request.Context(), userID, isAdmin, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "School submitted successfully.", ToSchoolResponse(school))
}

func (h *Handler) deleteSchool(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin

	if err := h.service.Delete(c.Request.Context(), schoolID, userID, isAdmin); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)

	favorited, err := h.service.ToggleFavorite(c.Request.Context(), userID, schoolID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Favorite updated successfully.", gin.H{"favorited": favorited})
}

func (h *Handler) listFavorites(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	schools, pagination, err := h.service.ListFavorites(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Favorite schools retrieved successfully.", ToSchoolResponses(schools), pagination)
}

func (h *Handler) listPending(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin
	page, pageSize := common.GetPaginationParams(c)

	schools, pagination, err := h.service.ListPending(c.Request.Context(), userID, isAdmin, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Pending schools retrieved successfully.", ToSchoolResponses(schools), pagination)
}

func (h *Handler) approveSchool(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}

	var req ApproveSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	school, err := h.service.Approve(c.Request.Context(), schoolID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "School approved successfully.", ToSchoolResponse(school))
}

func (h *Handler) rejectSchool(c *gin.Context) {
	schoolID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid school ID format."))
		return
	}

	var req RejectSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	if err := h.service.Reject(c.Request.Context(), schoolID, req.Reason); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
