package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pool_monitor/internal/service"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errShowInvalid  = "invalid 'show_suspicious'; use true or false"
	errLimitInvalid = "invalid 'limit'; use a positive integer"
	errViewFailed   = "failed to load alerts"
	errLogFailed    = "failed to load alert log"
	errClearFailed  = "failed to clear alerts"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseFeedOptions reads ?show_suspicious= and ?limit=. Missing values keep defaults.
func parseFeedOptions(c *gin.Context) (service.FeedOptions, string) {
	var opts service.FeedOptions
	if qs := c.Query("show_suspicious"); qs != "" {
		v, err := strconv.ParseBool(qs)
		if err != nil {
			return opts, errShowInvalid
		}
		opts.ShowSuspicious = v
	}
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			return opts, errLimitInvalid
		}
		opts.Limit = v
	}
	return opts, ""
}

// @Summary      Grouped alerts
// @Description  Recent alerts classified by severity and grouped by type and message, newest activity first. Sensor faults are hidden unless show_suspicious=true.
// @Tags         alerts
// @Produce      json
// @Param        show_suspicious  query     bool  false  "Include implausible sensor readings"
// @Param        limit            query     int   false  "How many log entries to group (clamped to the server maximum)"
// @Success      200              {object}  map[string]interface{}  "count, alerts"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      500              {object}  map[string]string
// @Router       /api/v1/alerts [get]
// @Security     BearerAuth
func (h *Handler) getAlerts(c *gin.Context) {
	opts, msg := parseFeedOptions(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	groups, err := h.services.AlertFeed.View(c.Request.Context(), opts)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errViewFailed, "alerts_view_failed", err,
			"show_suspicious", opts.ShowSuspicious, "limit", opts.Limit)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(groups),
		"alerts": groups,
	})
}

// @Summary      Alert log
// @Description  Raw alert log entries, oldest first. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' is treated as end of day inclusive.
// @Tags         alerts
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2025-08-01)
// @Param        to    query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type  query   string  false  "Metric"  Enums(tempAgua,tempAire,humedadAire,ph,rssi)
// @Success      200   {object}  map[string]interface{}  "count, alerts"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/alerts/log [get]
// @Security     BearerAuth
func (h *Handler) getAlertLog(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		// metric names are camelCase, so only trim
		metric = strings.TrimSpace(c.Query("type"))
		err    error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	records, err := h.services.AlertLog.List(c.Request.Context(), service.LogFilter{
		From: from,
		To:   to,
		Type: metric,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLogFailed, "alert_log_list_failed", err,
			"from", from, "to", to, "type", metric)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(records),
		"alerts": records,
	})
}

// @Summary      Clear alert log
// @Description  Removes every alert log entry. Admin only.
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  map[string]int64  "removed"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts [delete]
// @Security     BearerAuth
func (h *Handler) clearAlerts(c *gin.Context) {
	n, err := h.services.AlertLog.Clear(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errClearFailed, "alert_log_clear_failed", err)
		return
	}
	h.log.Infow("alert_log_cleared", "removed", n, "userId", c.GetInt(ctxUserID))
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
