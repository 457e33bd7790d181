package handler

import (
	"net/http"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/pagination"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TimeClockHandler struct {
	timeClockService service.TimeClockService
}

func NewTimeClockHandler(timeClockService service.TimeClockService) *TimeClockHandler {
	return &TimeClockHandler{timeClockService: timeClockService}
}

func (h *TimeClockHandler) RegisterRoutes(router *gin.RouterGroup) {
	timeclock := router.Group("/api/timeclock")
	{
		timeclock.POST("/punch", middleware.RequirePermission("timeclock.punch"), h.Punch)
		timeclock.GET("/today", middleware.RequirePermission("timeclock.punch"), h.Today)
		timeclock.GET("/entries", middleware.RequirePermission("timeclock.read"), h.List)
		timeclock.POST("/entries/:id/approve", middleware.RequirePermission("timeclock.approve"), h.Approve)
	}
}

// Punch handles POST /api/timeclock/punch
// @Summary      Record clock event
// @Description  Records a clock_in, lunch_out, lunch_in or clock_out event for the authenticated employee
// @Tags         timeclock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PunchRequest  true  "Clock Event"
// @Success      200      {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/timeclock/punch [post]
func (h *TimeClockHandler) Punch(c *gin.Context) {
	var req service.PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.timeClockService.Punch(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Today handles GET /api/timeclock/today
// @Summary      Get today's time entry
// @Description  Returns the authenticated employee's time entry for the current day
// @Tags         timeclock
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/timeclock/today [get]
func (h *TimeClockHandler) Today(c *gin.Context) {
	entry, err := h.timeClockService.Today(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// List handles GET /api/timeclock/entries with pagination and filters
// @Summary      List time entries
// @Tags         timeclock
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        status       query     string  false  "Filter by status (open, closed, approved)"
// @Param        from         query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to           query     string  false  "End date (YYYY-MM-DD)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /api/timeclock/entries [get]
func (h *TimeClockHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	entries, total, err := h.timeClockService.List(c.Request.Context(), p.Page, p.Limit,
		c.Query("employee_id"), c.Query("status"), c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch time entries"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"page":    p.Page,
		"limit":   p.Limit,
	}))
}

// Approve handles POST /api/timeclock/entries/:id/approve
// @Summary      Approve time entry
// @Description  Approves a closed time entry, freezing it against further edits
// @Tags         timeclock
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Time Entry ID"
// @Success      200  {object}  response.Response{data=service.TimeEntryResponse}
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/timeclock/entries/{id}/approve [post]
func (h *TimeClockHandler) Approve(c *gin.Context) {
	entry, err := h.timeClockService.Approve(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), response.Error(statusForError(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}
