package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pool_monitor/internal/alerts"
	"pool_monitor/internal/models"
)

const (
	errThresholdsLoad = "failed to load thresholds"
	errThresholdsSave = "failed to save thresholds"
)

// @Summary      Effective thresholds
// @Description  Returns the caller's effective ranges (defaults with enabled overrides applied) and the raw override settings.
// @Tags         thresholds
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "thresholds, settings"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/thresholds [get]
// @Security     BearerAuth
func (h *Handler) getThresholds(c *gin.Context) {
	h.respondWithThresholds(c, c.GetInt(ctxUserID))
}

// @Summary      Save threshold overrides
// @Description  Premium and admin accounts only. Enabled overrides must satisfy min < max.
// @Tags         thresholds
// @Accept       json
// @Produce      json
// @Param        input  body      models.ThresholdSettings  true  "override settings"
// @Success      200    {object}  map[string]interface{}    "thresholds, settings"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/thresholds [put]
// @Security     BearerAuth
func (h *Handler) putThresholds(c *gin.Context) {
	var input models.ThresholdSettings
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	userID := c.GetInt(ctxUserID)
	if err := h.services.Thresholds.Save(c.Request.Context(), userID, input); err != nil {
		if errors.Is(err, alerts.ErrInvalidThreshold) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errThresholdsSave, "thresholds_save_failed", err,
			"userId", userID)
		return
	}
	h.respondWithThresholds(c, userID)
}

func (h *Handler) respondWithThresholds(c *gin.Context, userID int) {
	ctx := c.Request.Context()
	ranges, err := h.services.Thresholds.Get(ctx, userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errThresholdsLoad, "thresholds_get_failed", err,
			"userId", userID)
		return
	}
	settings, err := h.services.Thresholds.Settings(ctx, userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errThresholdsLoad, "thresholds_settings_failed", err,
			"userId", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"thresholds": ranges,
		"settings":   settings,
	})
}
