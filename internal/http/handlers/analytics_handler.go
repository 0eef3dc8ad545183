// README: Analytics handlers for the operator dashboard.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"valetquotes/internal/modules/analytics"
	"valetquotes/internal/modules/pricing"
)

type AnalyticsHandler struct {
	analytics        *analytics.Service
	defaultTimeframe string
}

func NewAnalyticsHandler(svc *analytics.Service, defaultTimeframe string) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, defaultTimeframe: defaultTimeframe}
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	timeframe := c.Query("timeframe")
	if timeframe == "" {
		timeframe = h.defaultTimeframe
	}
	d, err := h.analytics.Dashboard(c.Request.Context(), timeframe)
	if err != nil {
		if errors.Is(err, analytics.ErrBadTimeframe) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, d)
}

// Forecast handles GET /api/analytics/forecast.
func (h *AnalyticsHandler) Forecast(c *gin.Context) {
	f, err := h.analytics.Forecast(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, f)
}

// Insights handles GET /api/analytics/insights/:service_type.
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	ins, err := h.analytics.Insights(c.Request.Context(), pricing.ServiceType(c.Param("service_type")))
	if err != nil {
		if errors.Is(err, pricing.ErrUnsupportedServiceType) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, ins)
}
