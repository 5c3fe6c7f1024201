package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"unreal-studio/internal/models"
	"unreal-studio/internal/services"
)

const (
	LeadThanksMessage = "¡Gracias! Te contactaremos pronto."
	LeadErrorMessage  = "Hubo un error. Por favor intenta de nuevo."
)

type SiteHandler struct {
	site *services.SiteService
}

func NewSiteHandler(site *services.SiteService) *SiteHandler {
	return &SiteHandler{site: site}
}

// Metrics godoc
// @Summary     Landing page metrics
// @Tags        landing
// @Produce     json
// @Success     200 {object} models.MetricsResponse
// @Router      /api/v1/landing/metrics [get]
func (h *SiteHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.Metrics(c.Request.Context()))
}

// Projects godoc
// @Summary     Published projects
// @Tags        landing
// @Produce     json
// @Success     200 {object} models.ProjectsResponse
// @Router      /api/v1/landing/projects [get]
func (h *SiteHandler) Projects(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.Projects(c.Request.Context()))
}

// BlogPosts godoc
// @Summary     Published blog posts, newest first
// @Tags        blog
// @Produce     json
// @Success     200 {object} models.BlogResponse
// @Router      /api/v1/blog/posts [get]
func (h *SiteHandler) BlogPosts(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.BlogPosts(c.Request.Context()))
}

// SubmitLead godoc
// @Summary     Capture a lead from a site form
// @Tags        leads
// @Accept      json
// @Produce     json
// @Param       request body models.LeadRequest true "Lead"
// @Success     201 {object} models.LeadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /api/v1/leads [post]
func (h *SiteHandler) SubmitLead(c *gin.Context) {
	var req models.LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
		})
		return
	}

	if err := h.site.SubmitLead(c.Request.Context(), req.Email, req.Source); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to submit lead",
			Message: LeadErrorMessage,
		})
		return
	}

	c.JSON(http.StatusCreated, models.LeadResponse{Message: LeadThanksMessage})
}
