package handler

import (
	"net/http"
	"strconv"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

func (h *SiteHandler) RegisterRoutes(router *gin.RouterGroup) {
	sites := router.Group("/api/sites")
	{
		sites.GET("", middleware.RequirePermission("sites.read"), h.List)
		sites.GET("/:id", middleware.RequirePermission("sites.read"), h.GetByID)
		sites.POST("", middleware.RequirePermission("sites.write"), h.Create)
		sites.PUT("/:id", middleware.RequirePermission("sites.write"), h.Update)
		sites.DELETE("/:id", middleware.RequirePermission("sites.write"), h.Delete)
	}
}

// List handles GET /api/sites with pagination and filters
// @Summary      List construction sites
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 10)"
// @Param        status  query     string  false  "Filter by status (active, inactive)"
// @Param        search  query     string  false  "Search by name or client"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sites, total, err := h.siteService.List(c.Request.Context(), page, limit, c.Query("status"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch sites"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"sites": sites,
		"total": total,
		"page":  page,
		"limit": limit,
	}))
}

// GetByID handles GET /api/sites/:id
// @Summary      Get site by ID
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response{data=service.SiteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sites/{id} [get]
func (h *SiteHandler) GetByID(c *gin.Context) {
	site, err := h.siteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// Create handles POST /api/sites
// @Summary      Create construction site
// @Description  Registers a construction site, completing the address from the postal code when possible
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SiteRequest  true  "Site Payload"
// @Success      201      {object}  response.Response{data=service.SiteResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req service.SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, site))
}

// Update handles PUT /api/sites/:id
// @Summary      Update construction site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Site ID"
// @Param        payload  body      service.SiteRequest  true  "Site Payload"
// @Success      200      {object}  response.Response{data=service.SiteResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/sites/{id} [put]
func (h *SiteHandler) Update(c *gin.Context) {
	var req service.SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

// Delete handles DELETE /api/sites/:id
// @Summary      Delete construction site
// @Tags         sites
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Site ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/sites/{id} [delete]
func (h *SiteHandler) Delete(c *gin.Context) {
	if err := h.siteService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Site deleted"))
}
