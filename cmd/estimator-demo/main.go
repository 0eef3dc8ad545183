// README: Manual smoke test for the Gemini price estimator.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"valetquotes/internal/ai"
	"valetquotes/internal/modules/pricing"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	estimator, err := ai.NewGeminiEstimator(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize estimator: %v", err)
	}
	defer estimator.Close()

	req := pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleLuxury,
		LocationText:    "downtown convention center",
		DurationBand:    pricing.Duration4to6,
	}

	tier, err := pricing.ResolveTier(req, time.Now())
	if err != nil {
		log.Fatalf("Tier resolution failed: %v", err)
	}
	fmt.Printf("Tier quote: base=%d fees=%d total=%d\n", tier.BasePrice, tier.AdditionalFees, tier.Total)

	suggestion, err := estimator.Suggest(ctx, req, pricing.EstimatorContext{
		TierQuote: tier,
		Market:    pricing.MarketInsightsFor(req.ServiceType, time.Now()),
	})
	if err != nil {
		log.Fatalf("Estimator error: %v", err)
	}
	if suggestion == nil {
		fmt.Println("No usable suggestion; tier quote stands")
		return
	}

	fmt.Printf("Suggested: base=%d fees=%d total=%d (confidence %.2f)\n",
		suggestion.BasePrice, suggestion.AdditionalFees, suggestion.Total, suggestion.Confidence)
	for _, f := range suggestion.Factors {
		fmt.Printf("  - %s\n", f)
	}
}
