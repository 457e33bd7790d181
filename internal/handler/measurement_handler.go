package handler

import (
	"net/http"
	"strconv"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MeasurementHandler struct {
	measurementService service.MeasurementService
}

func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

func (h *MeasurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	measurements := router.Group("/api/measurements")
	{
		measurements.GET("", middleware.RequirePermission("measurements.read"), h.List)
		measurements.GET("/:id", middleware.RequirePermission("measurements.read"), h.GetByID)
		measurements.POST("", middleware.RequirePermission("measurements.write"), h.Create)
		measurements.POST("/:id/approve", middleware.RequirePermission("measurements.approve"), h.Approve)
		measurements.POST("/:id/finalize", middleware.RequirePermission("measurements.approve"), h.Finalize)
		measurements.POST("/:id/cancel", middleware.RequirePermission("measurements.write"), h.Cancel)
	}
}

// List handles GET /api/measurements with pagination and filters
// @Summary      List measurements
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 10)"
// @Param        status     query     string  false  "Filter by status (pending, approved, finalized, cancelled)"
// @Param        rental_id  query     string  false  "Filter by rental contract"
// @Param        period     query     string  false  "Filter by period (YYYY-MM)"
// @Param        search     query     string  false  "Search by measurement number"
// @Success      200        {object}  response.Response{data=object}
// @Router       /api/measurements [get]
func (h *MeasurementHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	measurements, total, err := h.measurementService.List(c.Request.Context(), page, limit,
		c.Query("status"), c.Query("rental_id"), c.Query("period"), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch measurements"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"measurements": measurements,
		"total":        total,
		"page":         page,
		"limit":        limit,
	}))
}

// GetByID handles GET /api/measurements/:id
// @Summary      Get measurement by ID
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Measurement ID"
// @Success      200  {object}  response.Response{data=service.MeasurementResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/measurements/{id} [get]
func (h *MeasurementHandler) GetByID(c *gin.Context) {
	measurement, err := h.measurementService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, measurement))
}

// Create handles POST /api/measurements
// @Summary      Create measurement
// @Description  Opens a monthly measurement for a rental, snapshotting the base rate and complement totals
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateMeasurementRequest  true  "Measurement Payload"
// @Success      201      {object}  response.Response{data=service.MeasurementResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/measurements [post]
func (h *MeasurementHandler) Create(c *gin.Context) {
	var req service.CreateMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	measurement, err := h.measurementService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, measurement))
}

// Approve handles POST /api/measurements/:id/approve
// @Summary      Approve measurement
// @Description  Moves a pending measurement to approved
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Measurement ID"
// @Success      200  {object}  response.Response{data=service.MeasurementResponse}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/measurements/{id}/approve [post]
func (h *MeasurementHandler) Approve(c *gin.Context) {
	measurement, err := h.measurementService.Approve(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, measurement))
}

// Finalize handles POST /api/measurements/:id/finalize
// @Summary      Finalize measurement
// @Description  Finalizes an approved measurement, crediting its total to the chosen bank account
// @Tags         measurements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Measurement ID"
// @Param        payload  body      service.FinalizeMeasurementRequest  true  "Target Bank Account"
// @Success      200      {object}  response.Response{data=service.MeasurementResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/measurements/{id}/finalize [post]
func (h *MeasurementHandler) Finalize(c *gin.Context) {
	var req service.FinalizeMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	measurement, err := h.measurementService.Finalize(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, measurement))
}

// Cancel handles POST /api/measurements/:id/cancel
// @Summary      Cancel measurement
// @Description  Cancels a pending or approved measurement, freeing its period
// @Tags         measurements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Measurement ID"
// @Success      200  {object}  response.Response{data=service.MeasurementResponse}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/measurements/{id}/cancel [post]
func (h *MeasurementHandler) Cancel(c *gin.Context) {
	measurement, err := h.measurementService.Cancel(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, measurement))
}
