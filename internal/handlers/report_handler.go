package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispend/internal/services"
)

// ReportHandler handles read-only ledger reports.
type ReportHandler struct {
	reportService services.ReportServicer
	location      *time.Location
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reportService: reportService, location: loc}
}

// SpendingByCategoryQuery holds the date range for SpendingByCategory.
type SpendingByCategoryQuery struct {
	StartDate string `form:"startDate" binding:"required,iso_date"`
	EndDate   string `form:"endDate" binding:"required,iso_date"`
}

// MonthlySummaryQuery holds the window for MonthlySummary.
type MonthlySummaryQuery struct {
	Months int    `form:"months" binding:"omitempty,min=1,max=36"`
	Date   string `form:"date"`
}

// SpendingByCategory handles per-category expense totals over a date range.
// @Summary     Spending by category
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       startDate query string true "First date (YYYY-MM-DD)"
// @Param       endDate   query string true "Last date (YYYY-MM-DD)"
// @Success     200 {object} map[string][]services.CategorySpending "Spending per category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/spending-by-category [get]
func (h *ReportHandler) SpendingByCategory(c *gin.Context) {
	var q SpendingByCategoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	rows, err := h.reportService.SpendingByCategory(q.StartDate, q.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

// MonthlySummary handles income and expense totals per calendar month.
// @Summary     Monthly summary
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       months query int    false "Number of months (default 12, max 36)"
// @Param       date   query string false "Month to end on (YYYY-MM-DD or RFC 3339)"
// @Success     200 {object} map[string][]services.MonthSummary "Monthly totals, oldest first"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/monthly-summary [get]
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	q := MonthlySummaryQuery{Months: 12}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	ref, err := parseReferenceDate(q.Date, h.location)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.reportService.MonthlySummary(q.Months, ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"months": months})
}
