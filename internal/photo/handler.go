// File: internal/photo/handler.go
package photo

import (
	"errors"
	"mime/multipart"

	"dormview_backend/internal/common"
	"dormview_backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for photo handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
	cfg     *config.Config
}

// NewHandler creates a new photo handler.
func NewHandler(service Service, logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		cfg:     cfg,
	}
}

// RegisterRoutes sets up the routes for photo operations. Dorm-scoped reads
// live under the dorm resource, the rest under /photos.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	router.GET("/dorms/:id/photos", h.listPhotosForDorm)
	router.GET("/dorms/:id/rooms", h.listRoomsForDorm)

	photoGroup := router.Group("/photos")
	{
		photoGroup.GET("/:id", h.getPhotoByID)

		authedGroup := photoGroup.Group("")
		authedGroup.Use(authMW)
		{
			authedGroup.POST("", h.createPhoto)
			authedGroup.DELETE("/:id", h.deletePhoto)
			authedGroup.POST("/:id/save", h.toggleSaved)
			authedGroup.GET("/saved", h.listSaved)
			authedGroup.GET("/mine", h.listMine)
			authedGroup.GET("/pending", h.listPending)
		}

		adminGroup := photoGroup.Group("")
		adminGroup.Use(authMW)
		adminGroup.Use(adminRoleMW)
		{
			adminGroup.POST("/:id/approve", h.approvePhoto)
			adminGroup.POST("/:id/reject", h.rejectPhoto)
		}
	}
}

func (h *Handler) listPhotosForDorm(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}

	var query ListDormPhotosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}
	query.Page, query.PageSize = common.GetPaginationParams(c)

	photos, pagination, err := h.service.ListByDorm(c.Request.Context(), dormID, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Photos retrieved successfully.", ToPhotoResponses(photos, h.cfg.PhotoPublicBaseURL), pagination)
}

func (h *Handler) listRoomsForDorm(c *gin.Context) {
	dormID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid dorm ID format."))
		return
	}
	rooms, err := h.service.RoomsForDorm(c.Request.Context(), dormID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Rooms retrieved successfully.", rooms)
}

func (h *Handler) getPhotoByID(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid photo ID format."))
		return
	}
	photo, err := h.service.GetByID(c.Request.Context(), photoID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Photo retrieved successfully.", ToPhotoResponse(photo, h.cfg.PhotoPublicBaseURL))
}

func (h *Handler) createPhoto(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	// Full image plus thumbnail, capped well above any phone camera output.
	if err := c.Request.ParseMultipartForm(30 << 20); err != nil {
		h.logger.Warn("Create photo: Failed to parse multipart form", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request format or files too large: "+err.Error()))
		return
	}

	var req CreatePhotoRequest
	if err := c.ShouldBindWith(&req, binding.FormMultipart); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid form data: "+err.Error()))
		return
	}

	form := c.Request.MultipartForm
	full, thumb := firstFile(form.File["photo"]), firstFile(form.File["thumbnail"])
	if full == nil || thumb == nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Both 'photo' and 'thumbnail' files are required."))
		return
	}

	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin
	photo, err := h.service.Create(c.Request.Context(), userID, isAdmin, req, full, thumb)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Photo submitted successfully.", ToPhotoResponse(photo, h.cfg.PhotoPublicBaseURL))
}

func firstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func (h *Handler) deletePhoto(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid photo ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin

	if err := h.service.Delete(c.Request.Context(), photoID, userID, isAdmin); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) toggleSaved(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid photo ID format."))
		return
	}
	userID := common.GetUserIDFromContext(c)

	saved, err := h.service.ToggleSaved(c.Request.Context(), userID, photoID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Saved state updated successfully.", gin.H{"saved": saved})
}

func (h *Handler) listSaved(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	photos, pagination, err := h.service.ListSaved(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Saved photos retrieved successfully.", ToPhotoResponses(photos, h.cfg.PhotoPublicBaseURL), pagination)
}

func (h *Handler) listMine(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	photos, pagination, err := h.service.ListMine(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Your photos retrieved successfully.", ToPhotoResponses(photos, h.cfg.PhotoPublicBaseURL), pagination)
}

func (h *Handler) listPending(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	isAdmin := common.GetUserRoleFromContext(c) == common.RoleAdmin
	page, pageSize := common.GetPaginationParams(c)

	photos, pagination, err := h.service.ListPending(c.Request.Context(), userID, isAdmin, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Pending photos retrieved successfully.", ToPhotoResponses(photos, h.cfg.PhotoPublicBaseURL), pagination)
}

func (h *Handler) approvePhoto(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid photo ID format."))
		return
	}

	var req ApprovePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	photo, err := h.service.Approve(c.Request.Context(), photoID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Photo approved successfully.", ToPhotoResponse(photo, h.cfg.PhotoPublicBaseURL))
}

func (h *Handler) rejectPhoto(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid photo ID format."))
		return
	}

	var req RejectPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request payload: "+err.Error()))
		return
	}

	if err := h.service.Reject(c.Request.Context(), photoID, req.Reason); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
