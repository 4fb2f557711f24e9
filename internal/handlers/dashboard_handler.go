package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"dompet/internal/dashboard"
	apperrors "dompet/internal/errors"
	"dompet/internal/models"
	"dompet/internal/report"
)

const maxReportPageSize = 100

// DashboardHandler serves the dashboard, the transaction report, its exports
// and the advice panel.
type DashboardHandler struct {
	dashboardService dashboard.Servicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService dashboard.Servicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the dashboard view model for a period
// @Summary     Get dashboard
// @Description Summary cards, category pie charts, month comparison, daily trend and category summary for a period
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "today, this-week, this-month (default) or this-year"
// @Success     200 {object} dashboard.View "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data temporarily unavailable"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.dashboardService.Dashboard(c.Request.Context(), userID, c.Query("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RecomputeDashboard rebuilds the dashboard ignoring the cache
// @Summary     Recompute dashboard
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "today, this-week, this-month (default) or this-year"
// @Success     200 {object} dashboard.View "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data temporarily unavailable"
// @Router      /dashboard/recompute [post]
func (h *DashboardHandler) RecomputeDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.dashboardService.Recompute(c.Request.Context(), userID, c.Query("period"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTransactionReport returns one page of the filtered, sorted report table
// @Summary     Transaction report
// @Description Filtered and sorted transactions with totals over the whole filtered set
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       from            query string false "Start date (YYYY-MM-DD), inclusive"
// @Param       to              query string false "End date (YYYY-MM-DD), inclusive"
// @Param       type            query string false "all, income or expense"
// @Param       category_id     query string false "Category ID or all"
// @Param       bank_account_id query string false "Bank account ID, none for cash, or all"
// @Param       search          query string false "Case-insensitive description search"
// @Param       sort            query string false "date, type, amount, description, category or account"
// @Param       dir             query string false "asc or desc"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Rows per page (default 10, max 100)"
// @Success     200 {object} report.View "Report page"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data temporarily unavailable"
// @Router      /reports/transactions [get]
func (h *DashboardHandler) GetTransactionReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := parseReportQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.dashboardService.Report(c.Request.Context(), userID, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ExportTransactionsCSV downloads every filtered transaction as CSV
// @Summary     Export report as CSV
// @Description UTF-8 CSV with a byte order mark, every field quoted. Pagination is ignored.
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       from            query string false "Start date (YYYY-MM-DD)"
// @Param       to              query string false "End date (YYYY-MM-DD)"
// @Param       type            query string false "all, income or expense"
// @Param       category_id     query string false "Category ID or all"
// @Param       bank_account_id query string false "Bank account ID, none or all"
// @Param       search          query string false "Description search"
// @Param       sort            query string false "Sort key"
// @Param       dir             query string false "asc or desc"
// @Success     200 {file}   file "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /reports/transactions/export/csv [get]
func (h *DashboardHandler) ExportTransactionsCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := parseReportQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := h.dashboardService.ExportCSV(c.Request.Context(), userID, q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sendFile(c, file, true)
}

// ExportTransactionsDocument renders the filtered transactions as a printable document
// @Summary     Export report as a printable document
// @Description HTML ready for printing, or PDF when the server has PDF rendering enabled
// @Tags        reports
// @Produce     text/html,application/pdf
// @Security    BearerAuth
// @Param       format          query string false "html (default) or pdf"
// @Param       from            query string false "Start date (YYYY-MM-DD)"
// @Param       to              query string false "End date (YYYY-MM-DD)"
// @Param       type            query string false "all, income or expense"
// @Param       category_id     query string false "Category ID or all"
// @Param       bank_account_id query string false "Bank account ID, none or all"
// @Param       search          query string false "Description search"
// @Param       sort            query string false "Sort key"
// @Param       dir             query string false "asc or desc"
// @Success     200 {file}   file "Document"
// @Failure     400 {object} ErrorResponse "Invalid input or PDF disabled"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Export failed"
// @Router      /reports/transactions/export/document [get]
func (h *DashboardHandler) ExportTransactionsDocument(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	q, err := parseReportQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	format := strings.ToLower(c.Query("format"))
	file, err := h.dashboardService.ExportDocument(c.Request.Context(), userID, q, format)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// HTML opens in the browser for printing; PDF downloads.
	sendFile(c, file, format == dashboard.FormatPDF)
}

// GetAdvice returns suggestions for the current month
// @Summary     Financial advice
// @Description Suggestions from the advice service for the current month. available is false when the service is not reachable.
// @Tags        advice
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} dashboard.AdviceResult "Advice"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Data temporarily unavailable"
// @Router      /advice [get]
func (h *DashboardHandler) GetAdvice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.dashboardService.Advice(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func sendFile(c *gin.Context, file *dashboard.File, download bool) {
	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func parseReportQuery(c *gin.Context) (report.Query, error) {
	var q report.Query

	if v := c.Query("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from date, use YYYY-MM-DD")
		}
		q.Filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to date, use YYYY-MM-DD")
		}
		q.Filter.To = &t
	}

	if v := c.Query("type"); v != "" && v != report.All {
		if !models.TransactionType(v).Valid() {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid type, must be all, income or expense")
		}
		q.Filter.Type = v
	}
	q.Filter.CategoryID = c.Query("category_id")
	q.Filter.BankAccountID = c.Query("bank_account_id")
	q.Filter.Search = c.Query("search")

	if v := c.Query("sort"); v != "" {
		key, ok := report.ParseSortKey(v)
		if !ok {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid sort key")
		}
		q.SortKey = key
	}
	if v := c.Query("dir"); v != "" {
		dir, ok := report.ParseDirection(v)
		if !ok {
			return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid dir, must be asc or desc")
		}
		q.Direction = dir
	}

	var err error
	if q.Page, err = positiveIntQuery(c, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = positiveIntQuery(c, "page_size"); err != nil {
		return q, err
	}
	if q.PageSize > maxReportPageSize {
		return q, apperrors.WithMessage(apperrors.ErrInvalidInput, "page_size must be at most 100")
	}

	return q, nil
}

// positiveIntQuery returns 0 when the parameter is absent.
func positiveIntQuery(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+name)
	}
	return n, nil
}
