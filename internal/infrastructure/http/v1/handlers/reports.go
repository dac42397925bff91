package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cantina/internal/core/apperror"
	"cantina/internal/domain/reports"
)

// ReportsHandler serves the dashboard and period reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// Dashboard handles GET /reports/dashboard.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.service.Dashboard(ctx, time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// periodBounds parses from/to query params. Dates come as YYYY-MM-DD and
// cover whole local days; full RFC 3339 timestamps are taken as-is.
func (h *ReportsHandler) periodBounds(c *gin.Context) (time.Time, time.Time, error) {
	parse := func(raw string, endOfDay bool) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if endOfDay {
			d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return d, nil
	}

	rawFrom := c.Query("from")
	rawTo := c.Query("to")
	if rawFrom == "" || rawTo == "" {
		return time.Time{}, time.Time{}, apperror.NewValidation("'from' and 'to' are required")
	}

	from, err := parse(rawFrom, false)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid 'from' date").WithDetail("from", rawFrom)
	}
	to, err := parse(rawTo, true)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid 'to' date").WithDetail("to", rawTo)
	}

	return from, to, nil
}

// Period handles GET /reports/period?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportsHandler) Period(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := h.periodBounds(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.Period(ctx, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportPeriodCSV handles GET /reports/period/export - streams the period's
// sale lines as CSV.
func (h *ReportsHandler) ExportPeriodCSV(c *gin.Context) {
	ctx := c.Request.Context()

	from, to, err := h.periodBounds(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sales_%s_%s.csv", from.Format("2006-01-02"), to.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	if err := h.service.WritePeriodCSV(ctx, c.Writer, from, to); err != nil {
		// Headers are gone; all we can do is log through the error chain.
		h.Error(c, err)
	}
}
