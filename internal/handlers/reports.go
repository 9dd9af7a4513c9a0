package handlers

import (
	"net/http"
	"time"

	"github.com/Biswajit213/gym-management/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetRevenueReport aggregates receipts in a date range (staff only).
// Defaults to the current month when no range is given.
func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}

	report, err := h.reports.Revenue(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Revenue report generated successfully",
		"data":    report,
	})
}

// GetOutstandingReport sums what members still owe (staff only).
func (h *ReportHandler) GetOutstandingReport(c *gin.Context) {
	report, err := h.reports.Outstanding(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Outstanding report generated successfully",
		"data":    report,
	})
}
