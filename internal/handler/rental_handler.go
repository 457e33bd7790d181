package handler

import (
	"net/http"
	"strconv"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	rentalService service.RentalService
}

func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

func (h *RentalHandler) RegisterRoutes(router *gin.RouterGroup) {
	rentals := router.Group("/api/rentals")
	{
		rentals.GET("", middleware.RequirePermission("rentals.read"), h.List)
		rentals.GET("/:id", middleware.RequirePermission("rentals.read"), h.GetByID)
		rentals.POST("", middleware.RequirePermission("rentals.write"), h.Create)
		rentals.PUT("/:id", middleware.RequirePermission("rentals.write"), h.Update)
	}
}

// List handles GET /api/rentals with pagination and filters
// @Summary      List rentals
// @Description  Retrieves a paginated list of rental contracts, filterable by status and search term
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 10)"
// @Param        status  query     string  false  "Filter by status (active, finished, cancelled)"
// @Param        search  query     string  false  "Search by contract number or client name"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/rentals [get]
func (h *RentalHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rentals, total, err := h.rentalService.List(c.Request.Context(), page, limit, c.Query("status"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch rentals"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"rentals": rentals,
		"total":   total,
		"page":    page,
		"limit":   limit,
	}))
}

// GetByID handles GET /api/rentals/:id
// @Summary      Get rental by ID
// @Description  Fetch a single rental contract with crane and site preloaded
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Rental ID"
// @Success      200  {object}  response.Response{data=service.RentalResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/rentals/{id} [get]
func (h *RentalHandler) GetByID(c *gin.Context) {
	rental, err := h.rentalService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}

// Create handles POST /api/rentals
// @Summary      Create rental
// @Description  Opens a rental contract, assigns the contract number and marks the crane as rented
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRentalRequest  true  "Rental Payload"
// @Success      201      {object}  response.Response{data=service.RentalResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/rentals [post]
func (h *RentalHandler) Create(c *gin.Context) {
	var req service.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rental, err := h.rentalService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rental))
}

// Update handles PUT /api/rentals/:id
// @Summary      Update rental
// @Description  Updates rental fields or transitions its status, releasing the crane when it ends
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Rental ID"
// @Param        payload  body      service.UpdateRentalRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=service.RentalResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/rentals/{id} [put]
func (h *RentalHandler) Update(c *gin.Context) {
	var req service.UpdateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rental, err := h.rentalService.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rental))
}
