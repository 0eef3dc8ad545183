// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"valetquotes/internal/http/handlers"
	"valetquotes/internal/http/middleware"
	"valetquotes/internal/modules/analytics"
	"valetquotes/internal/modules/lead"
	"valetquotes/internal/modules/quote"
	"valetquotes/internal/modules/venue"
)

type ServerDeps struct {
	Quote     *quote.Service
	Lead      *lead.Service
	Venue     *venue.Service
	Analytics *analytics.Service
	DB        *pgxpool.Pool

	// OperatorToken guards the operator portal routes.
	OperatorToken string
	// DefaultTimeframe is used when the dashboard request omits one.
	DefaultTimeframe string
}

// NewRouter wires the public quoting surface and the token-guarded operator
// portal onto one engine.
func NewRouter(deps ServerDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	quoteHandler := handlers.NewQuoteHandler(deps.Quote)
	leadHandler := handlers.NewLeadHandler(deps.Lead)
	venueHandler := handlers.NewVenueHandler(deps.Venue)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics, deps.DefaultTimeframe)

	r.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public quoting surface.
	r.GET("/api/pricing/options", quoteHandler.Options)
	r.POST("/api/quotes", quoteHandler.Create)
	r.GET("/api/quotes/:id", quoteHandler.Get)
	r.POST("/api/leads", leadHandler.Create)

	// Operator portal.
	op := r.Group("/api", middleware.OperatorAuth(deps.OperatorToken))
	{
		op.GET("/quotes", quoteHandler.List)
		op.GET("/quotes/stats", quoteHandler.Stats)
		op.PATCH("/quotes/:id", quoteHandler.Update)
		op.POST("/quotes/:id/approve", quoteHandler.Approve)
		op.POST("/quotes/:id/reject", quoteHandler.Reject)
		op.POST("/quotes/:id/cancel", quoteHandler.Cancel)
		op.POST("/quotes/:id/duplicate", quoteHandler.Duplicate)
		op.DELETE("/quotes/:id", quoteHandler.Delete)

		op.GET("/leads", leadHandler.List)
		op.GET("/leads/:id", leadHandler.Get)
		op.PATCH("/leads/:id", leadHandler.Update)
		op.DELETE("/leads/:id", leadHandler.Delete)

		op.POST("/venues", venueHandler.Create)
		op.GET("/venues", venueHandler.List)
		op.GET("/venues/:id", venueHandler.Get)
		op.PATCH("/venues/:id", venueHandler.Update)
		op.DELETE("/venues/:id", venueHandler.Delete)

		op.GET("/analytics/dashboard", analyticsHandler.Dashboard)
		op.GET("/analytics/forecast", analyticsHandler.Forecast)
		op.GET("/analytics/insights/:service_type", analyticsHandler.Insights)
	}

	return r
}
