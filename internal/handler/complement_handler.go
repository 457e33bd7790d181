package handler

import (
	"net/http"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ComplementHandler struct {
	complementService service.ComplementService
}

func NewComplementHandler(complementService service.ComplementService) *ComplementHandler {
	return &ComplementHandler{complementService: complementService}
}

func (h *ComplementHandler) RegisterRoutes(router *gin.RouterGroup) {
	rentals := router.Group("/api/rentals/:id/complements")
	{
		rentals.GET("", middleware.RequirePermission("complements.read"), h.ListByRental)
		rentals.POST("", middleware.RequirePermission("complements.write"), h.Create)
		rentals.POST("/from-catalog", middleware.RequirePermission("complements.write"), h.AddFromCatalog)
	}

	complements := router.Group("/api/complements")
	{
		complements.GET("/catalog", middleware.RequirePermission("complements.read"), h.Catalog)
		complements.PUT("/:id", middleware.RequirePermission("complements.write"), h.Update)
		complements.DELETE("/:id", middleware.RequirePermission("complements.write"), h.Delete)
		complements.PATCH("/:id/toggle", middleware.RequirePermission("complements.write"), h.ToggleIncluded)
		complements.PATCH("/:id/status", middleware.RequirePermission("complements.write"), h.UpdateStatus)
	}
}

// ListByRental returns a rental's complement items plus aggregated totals
// @Summary      List rental complements
// @Description  Retrieves all complement items of a rental with monthly, one-time and contract totals
// @Tags         complements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rental ID"
// @Success      200  {object}  response.Response{data=service.ComplementTotalsResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/rentals/{id}/complements [get]
func (h *ComplementHandler) ListByRental(c *gin.Context) {
	result, err := h.complementService.ListByRental(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Create handles POST /api/rentals/:id/complements
// @Summary      Create complement
// @Description  Adds a complement item to a rental contract
// @Tags         complements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Rental ID"
// @Param        payload  body      service.ComplementRequest  true  "Complement Payload"
// @Success      201      {object}  response.Response{data=service.ComplementResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/rentals/{id}/complements [post]
func (h *ComplementHandler) Create(c *gin.Context) {
	var req service.ComplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.complementService.Create(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// AddFromCatalog handles POST /api/rentals/:id/complements/from-catalog
// @Summary      Add complement from catalog
// @Description  Instantiates a catalog entry as a complement item on the rental
// @Tags         complements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Rental ID"
// @Param        payload  body      service.AddFromCatalogRequest  true  "Catalog SKU"
// @Success      201      {object}  response.Response{data=service.ComplementResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/rentals/{id}/complements/from-catalog [post]
func (h *ComplementHandler) AddFromCatalog(c *gin.Context) {
	var req service.AddFromCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.complementService.AddFromCatalog(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// Catalog returns the predefined complement catalog, optionally filtered
// @Summary      Complement catalog
// @Description  Lists the predefined complement catalog entries, filterable by name or SKU
// @Tags         complements
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Filter by name or SKU"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/complements/catalog [get]
func (h *ComplementHandler) Catalog(c *gin.Context) {
	entries := h.complementService.Catalog(c.Request.Context(), c.Query("search"))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Update handles PUT /api/complements/:id
// @Summary      Update complement
// @Description  Updates a complement item. Invoiced items are immutable.
// @Tags         complements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Complement ID"
// @Param        payload  body      service.ComplementRequest  true  "Complement Payload"
// @Success      200      {object}  response.Response{data=service.ComplementResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/complements/{id} [put]
func (h *ComplementHandler) Update(c *gin.Context) {
	var req service.ComplementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.complementService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// Delete handles DELETE /api/complements/:id
// @Summary      Delete complement
// @Description  Removes a complement item. Invoiced items cannot be deleted.
// @Tags         complements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Complement ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/complements/{id} [delete]
func (h *ComplementHandler) Delete(c *gin.Context) {
	if err := h.complementService.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Complement deleted"))
}

// ToggleIncluded handles PATCH /api/complements/:id/toggle
// @Summary      Toggle complement inclusion
// @Description  Flips whether the item counts towards the rental totals. Allowed in any status.
// @Tags         complements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Complement ID"
// @Success      200  {object}  response.Response{data=service.ComplementResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/complements/{id}/toggle [patch]
func (h *ComplementHandler) ToggleIncluded(c *gin.Context) {
	item, err := h.complementService.ToggleIncluded(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateStatus handles PATCH /api/complements/:id/status
// @Summary      Update complement status
// @Description  Moves a complement item through draft, requested, approved, ordered, delivered or invoiced
// @Tags         complements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Complement ID"
// @Param        payload  body      service.ComplementStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.ComplementResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/complements/{id}/status [patch]
func (h *ComplementHandler) UpdateStatus(c *gin.Context) {
	var req service.ComplementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.complementService.UpdateStatus(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}
