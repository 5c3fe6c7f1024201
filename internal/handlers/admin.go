package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"unreal-studio/internal/middleware"
	"unreal-studio/internal/models"
	"unreal-studio/internal/services"
	"unreal-studio/internal/supabase"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
	// 10MB
	maxImageSize = 10 << 20
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListLeads(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit < 1 || limit > maxPageSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid offset"})
		return
	}

	rows, err := h.admin.ListLeads(c.Request.Context(), accessToken(c), limit, offset)
	if err != nil {
		backendError(c, "failed to list leads", err)
		return
	}
	c.JSON(http.StatusOK, models.RowsResponse{Rows: rows})
}

func (h *AdminHandler) DeleteLead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rows, err := h.admin.DeleteLead(c.Request.Context(), accessToken(c), id)
	if err != nil {
		backendError(c, "failed to delete lead", err)
		return
	}
	c.JSON(http.StatusOK, models.RowsResponse{Rows: rows})
}

func (h *AdminHandler) SetProjectPublished(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	rows, err := h.admin.SetProjectPublished(c.Request.Context(), accessToken(c), id, *req.Published)
	if err != nil {
		backendError(c, "failed to update project", err)
		return
	}
	c.JSON(http.StatusOK, models.RowsResponse{Rows: rows})
}

func (h *AdminHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file provided",
			Message: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	objectPath, publicURL, err := h.admin.UploadImage(c.Request.Context(), accessToken(c), fileHeader.Filename, file)
	if err != nil {
		backendError(c, "failed to upload image", err)
		return
	}
	c.JSON(http.StatusCreated, models.UploadResponse{Path: objectPath, PublicURL: publicURL})
}

func accessToken(c *gin.Context) string {
	return c.GetString(middleware.AccessTokenKey)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// backendError passes authorization failures through and reports anything
// else as a bad gateway.
func backendError(c *gin.Context, msg string, err error) {
	status := http.StatusBadGateway
	var reqErr *supabase.RequestError
	var selErr *supabase.SelectError
	switch {
	case errors.As(err, &reqErr):
		status = passThrough(reqErr.StatusCode)
	case errors.As(err, &selErr):
		status = passThrough(selErr.StatusCode)
	}
	c.JSON(status, models.ErrorResponse{Error: msg, Message: err.Error()})
}

func passThrough(status int) int {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return status
	}
	return http.StatusBadGateway
}
