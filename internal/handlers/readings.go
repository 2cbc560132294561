package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pool_monitor/internal/metrics"
	"pool_monitor/internal/models"
	"pool_monitor/internal/service"
)

const (
	statusOK = "ok"

	errIngestFailed = "failed to store reading"
	errLatestFailed = "failed to load latest reading"
)

// logAndJSONError logs err (when present) and writes a JSON error with the given status.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Ingest a sensor reading
// @Description  Accepts one feed update as a JSON object of metric name to number, e.g. {"tempAgua":26.4,"phVoltaje":2.5}.
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Param        X-Device-Key  header    string                false  "Shared device key"
// @Param        reading       body      models.SensorReading  true   "metric values"
// @Success      202           {object}  models.ReadingSnapshot
// @Failure      400           {object}  map[string]string
// @Failure      401           {object}  map[string]string
// @Failure      429           {object}  map[string]string
// @Failure      500           {object}  map[string]string
// @Router       /ingest/readings [post]
func (h *Handler) ingestReading(c *gin.Context) {
	var reading models.SensorReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		metrics.IngestRejected.WithLabelValues("bad_body").Inc()
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.services.Telemetry.Ingest(c.Request.Context(), reading)
	switch {
	case errors.Is(err, service.ErrEmptyReading), errors.Is(err, service.ErrInvalidReading):
		metrics.IngestRejected.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errIngestFailed, "reading_ingest_failed", err)
		return
	}

	c.JSON(http.StatusAccepted, snap)
}

// @Summary      Latest reading
// @Description  Returns the most recent reading with derived pH. A null reading means nothing has arrived yet.
// @Tags         readings
// @Produce      json
// @Success      200  {object}  models.ReadingSnapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/readings/latest [get]
// @Security     BearerAuth
func (h *Handler) latestReading(c *gin.Context) {
	snap, err := h.services.Telemetry.Latest(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLatestFailed, "reading_latest_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
