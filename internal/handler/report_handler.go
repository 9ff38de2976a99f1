package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/genkan-institute/genkan-api/internal/service"
	"github.com/genkan-institute/genkan-api/pkg/response"
)

// ReportHandler exposes recap and export endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Summaries godoc
// @Summary Per-batch registration recap
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reports/recap [get]
func (h *ReportHandler) Summaries(c *gin.Context) {
	summaries, err := h.service.Summaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// ExportCSV godoc
// @Summary Export registrations as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Security BearerAuth
// @Router /admin/reports/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	raw, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "registrations-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", raw)
}

// ExportPDF godoc
// @Summary Export registrations as PDF
// @Tags Reports
// @Produce application/pdf
// @Success 200 {string} string "PDF payload"
// @Security BearerAuth
// @Router /admin/reports/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	raw, err := h.service.ExportPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := "registrations-" + time.Now().UTC().Format("20060102-150405") + ".pdf"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", raw)
}
