package handler

import (
	"net/http"
	"strconv"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CraneHandler struct {
	craneService service.CraneService
}

func NewCraneHandler(craneService service.CraneService) *CraneHandler {
	return &CraneHandler{craneService: craneService}
}

func (h *CraneHandler) RegisterRoutes(router *gin.RouterGroup) {
	cranes := router.Group("/api/cranes")
	{
		cranes.GET("", middleware.RequirePermission("cranes.read"), h.List)
		cranes.GET("/:id", middleware.RequirePermission("cranes.read"), h.GetByID)
		cranes.POST("", middleware.RequirePermission("cranes.write"), h.Create)
		cranes.PUT("/:id", middleware.RequirePermission("cranes.write"), h.Update)
		cranes.DELETE("/:id", middleware.RequirePermission("cranes.write"), h.Delete)
	}
}

// List handles GET /api/cranes with pagination and filters
// @Summary      List cranes
// @Description  Retrieves a paginated list of fleet cranes, filterable by status and search term
// @Tags         cranes
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 10)"
// @Param        status  query     string  false  "Filter by status (available, rented, maintenance)"
// @Param        search  query     string  false  "Search by name or model"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/cranes [get]
func (h *CraneHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	cranes, total, err := h.craneService.List(c.Request.Context(), page, limit, c.Query("status"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch cranes"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"cranes": cranes,
		"total":  total,
		"page":   page,
		"limit":  limit,
	}))
}

// GetByID handles GET /api/cranes/:id
// @Summary      Get crane by ID
// @Tags         cranes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Crane ID"
// @Success      200  {object}  response.Response{data=service.CraneResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/cranes/{id} [get]
func (h *CraneHandler) GetByID(c *gin.Context) {
	crane, err := h.craneService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, crane))
}

// Create handles POST /api/cranes
// @Summary      Create crane
// @Tags         cranes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CraneRequest  true  "Crane Payload"
// @Success      201      {object}  response.Response{data=service.CraneResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cranes [post]
func (h *CraneHandler) Create(c *gin.Context) {
	var req service.CraneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	crane, err := h.craneService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, crane))
}

// Update handles PUT /api/cranes/:id
// @Summary      Update crane
// @Tags         cranes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                true  "Crane ID"
// @Param        payload  body      service.CraneRequest  true  "Crane Payload"
// @Success      200      {object}  response.Response{data=service.CraneResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/cranes/{id} [put]
func (h *CraneHandler) Update(c *gin.Context) {
	var req service.CraneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	crane, err := h.craneService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, crane))
}

// Delete handles DELETE /api/cranes/:id
// @Summary      Delete crane
// @Description  Removes a crane from the fleet. Rented cranes cannot be deleted.
// @Tags         cranes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Crane ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/cranes/{id} [delete]
func (h *CraneHandler) Delete(c *gin.Context) {
	if err := h.craneService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Crane deleted"))
}
