package handler

import (
	"fmt"
	"net/http"
	"time"

	"gruas-backend/internal/middleware"
	"gruas-backend/internal/service"
	"gruas-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	reports.Use(middleware.RequirePermission("reports.export"))
	{
		reports.GET("/rentals/:id/complements.pdf", h.ComplementPDF)
		reports.GET("/measurements.xlsx", h.MeasurementXLSX)
	}
}

// ComplementPDF handles GET /api/reports/rentals/:id/complements.pdf
// @Summary      Export complement report as PDF
// @Description  Renders the rental's complement items and totals as a downloadable PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Rental ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /api/reports/rentals/{id}/complements.pdf [get]
func (h *ReportHandler) ComplementPDF(c *gin.Context) {
	pdf, err := h.reportService.ComplementPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		if status == http.StatusBadRequest {
			// Rendering failures come from the converter, not the client
			status = http.StatusBadGateway
		}
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	filename := fmt.Sprintf("complementos-%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// MeasurementXLSX handles GET /api/reports/measurements.xlsx
// @Summary      Export measurements as spreadsheet
// @Description  Exports measurements matching the filters as an xlsx file
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        rental_id  query     string  false  "Filter by rental contract"
// @Param        period     query     string  false  "Filter by period (YYYY-MM)"
// @Success      200        {file}    binary
// @Failure      500        {object}  response.Response
// @Router       /api/reports/measurements.xlsx [get]
func (h *ReportHandler) MeasurementXLSX(c *gin.Context) {
	data, err := h.reportService.MeasurementXLSX(c.Request.Context(),
		c.Query("status"), c.Query("rental_id"), c.Query("period"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	filename := fmt.Sprintf("medicoes-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
