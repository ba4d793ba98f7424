package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/replenish"
	"github.com/martinalejandrohakanson29-art/ml-dashboard-lite-backend/internal/service"
)

// DecisionHandler serves the replenishment decision routes.
type DecisionHandler struct {
	service  *service.DecisionService
	defaults replenish.Params
}

func NewDecisionHandler(svc *service.DecisionService, defaults replenish.Params) *DecisionHandler {
	return &DecisionHandler{service: svc, defaults: defaults.Normalize()}
}

// parseParams reads the scoring knobs from the query string. Absent or
// malformed values fall back to the configured defaults.
func (h *DecisionHandler) parseParams(c *gin.Context) replenish.Params {
	params := h.defaults

	parseInt := func(names ...string) (int, bool) {
		for _, name := range names {
			value := strings.TrimSpace(c.Query(name))
			if value == "" {
				continue
			}
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				return n, true
			}
		}
		return 0, false
	}

	// "window" and "lead_time" are the historical names; the longer forms
	// are accepted for symmetry with the response payload.
	if n, ok := parseInt("window", "window_days"); ok {
		params.WindowDays = n
	}
	if n, ok := parseInt("lead_time", "lead_time_days"); ok {
		params.LeadTimeDays = n
	}
	if n, ok := parseInt("storage_days"); ok {
		params.StorageDays = n
	}
	if n, ok := parseInt("near_margin", "near_margin_days"); ok {
		params.NearMarginDays = n
	}

	return params.Normalize()
}

func (h *DecisionHandler) GetDecisions(c *gin.Context) {
	params := h.parseParams(c)

	report, err := h.service.Decisions(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("decision computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":     true,
		"count":  report.Count,
		"items":  report.Items,
		"window": report.Window,
		"params": report.Params,
	})
}

func (h *DecisionHandler) GetDiagnostics(c *gin.Context) {
	params := h.parseParams(c)

	report, err := h.service.Diagnostics(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("diagnostics computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "report": report})
}

func (h *DecisionHandler) ProbeItem(c *gin.Context) {
	params := h.parseParams(c)
	itemID := c.Param("item_id")
	raw := c.Query("raw") == "1"

	report, err := h.service.Probe(c.Request.Context(), itemID, params, raw)
	if err != nil {
		if errors.Is(err, replenish.ErrMissingItemID) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		log.Error().Err(err).Str("item_id", itemID).Msg("item probe failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "report": report})
}
