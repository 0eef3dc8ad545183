// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"valetquotes/internal/ai"
	"valetquotes/internal/config"
	httptransport "valetquotes/internal/http"
	"valetquotes/internal/infra"
	"valetquotes/internal/maps"
	"valetquotes/internal/modules/analytics"
	"valetquotes/internal/modules/history"
	"valetquotes/internal/modules/lead"
	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/modules/quote"
	"valetquotes/internal/modules/venue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	historyStore := history.NewPgStore(dbPool)
	historySvc := history.NewService(historyStore)

	var estimator pricing.Estimator
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiEstimator(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		estimator = gemini
	} else {
		log.Println("GEMINI_API_KEY not set; quoting runs on tiers and history only")
	}

	pricingSvc := pricing.NewService(historySvc, estimator)

	quoteStore := quote.NewStore(dbPool)
	quoteSvc := quote.NewService(quoteStore, pricingSvc, historySvc)

	leadStore := lead.NewStore(dbPool)
	leadSvc := lead.NewService(leadStore)

	var geocoder venue.Geocoder
	if cfg.Maps.APIKey != "" {
		geo, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		geocoder = geo
	} else {
		log.Println("MAPS_API_KEY not set; venues are saved without coordinates")
	}

	venueStore := venue.NewStore(dbPool)
	venueSvc := venue.NewService(venueStore, geocoder)

	cache := analytics.NewRedisCache(redisClient)
	ttl := time.Duration(cfg.Analytics.CacheTTLSeconds) * time.Second
	analyticsSvc := analytics.NewService(historyStore, cache, ttl)

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Quote:            quoteSvc,
		Lead:             leadSvc,
		Venue:            venueSvc,
		Analytics:        analyticsSvc,
		DB:               dbPool,
		OperatorToken:    cfg.Operator.Token,
		DefaultTimeframe: cfg.Analytics.DefaultTimeframe,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
