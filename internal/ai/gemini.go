package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"valetquotes/internal/modules/pricing"
)

// GeminiEstimator implements the resolver's Estimator port using Google's
// Gemini models. Every upstream failure degrades to a (nil, nil) return so
// the resolver falls back to the tier quote; external pricing advice is
// never allowed to fail a customer request.
type GeminiEstimator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiEstimator initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiEstimator(ctx context.Context, apiKey string) (*GeminiEstimator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature: pricing advice should be stable, not creative.
	model.SetTemperature(0.2)

	return &GeminiEstimator{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (e *GeminiEstimator) Close() {
	e.client.Close()
}

// Suggest asks the model for a price suggestion given the deterministic tier
// quote, historical prediction, and market context.
func (e *GeminiEstimator) Suggest(ctx context.Context, req pricing.Request, ec pricing.EstimatorContext) (*pricing.Suggestion, error) {
	prompt := buildEstimatePrompt(req, ec)

	resp, err := e.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Printf("ai: gemini generation error: %v", err)
		return nil, nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Printf("ai: no response candidates from Gemini")
		return nil, nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Clean up potential markdown formatting (json mode should handle this, safety first).
	cleanJSON := cleanJSONString(responseText.String())

	var payload estimatePayload
	if err := json.Unmarshal([]byte(cleanJSON), &payload); err != nil {
		log.Printf("ai: failed to parse JSON response: %v. Raw: %s", err, cleanJSON)
		return nil, nil
	}
	if payload.Total <= 0 {
		log.Printf("ai: rejected non-positive suggested total %d", payload.Total)
		return nil, nil
	}

	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &pricing.Suggestion{
		BasePrice:      payload.BasePrice,
		AdditionalFees: payload.AdditionalFees,
		Total:          payload.Total,
		Factors:        payload.Factors,
		Confidence:     confidence,
	}, nil
}

// buildEstimatePrompt constructs the instructions for the model.
func buildEstimatePrompt(req pricing.Request, ec pricing.EstimatorContext) string {
	historical := "NONE"
	if ec.Historical != nil {
		historical = fmt.Sprintf("predicted $%d from %d similar accepted quotes (confidence %.2f)",
			ec.Historical.PredictedPrice, ec.Historical.SampleSize, ec.Historical.Confidence)
	}

	return fmt.Sprintf(`Role: You are the pricing analyst for a premium valet parking operator.

Request:
- Service type: %s
- Vehicle category: %s
- Location: %s
- Duration: %s hours

Rule-based quote (the baseline you are refining):
- Base price: $%d
- Additional fees: $%d
- Total: $%d
- Expected conversion rate: %.2f

Historical signal: %s

Market context:
- Competitor pricing: $%d low / $%d average / $%d high
- Seasonal demand index: %.2f
- Price elasticity: %.2f

Task: Suggest an all-in price in whole US dollars. Stay within a credible
distance of the competitor range, respect the baseline's structure, and keep
the suggestion commercially defensible. Report honest confidence: use values
above 0.7 only when the request closely matches the market context.

Output JSON Schema:
{
  "base_price": integer,
  "additional_fees": integer,
  "total": integer,
  "factors": ["short pricing justification strings"],
  "confidence": number between 0 and 1
}
`,
		req.ServiceType, req.VehicleCategory, req.LocationText, req.DurationBand,
		ec.TierQuote.BasePrice, ec.TierQuote.AdditionalFees, ec.TierQuote.Total, ec.TierQuote.ExpectedConversionRate,
		historical,
		ec.Market.CompetitorMin, ec.Market.CompetitorAvg, ec.Market.CompetitorMax,
		ec.Market.SeasonalDemand, ec.Market.PriceElasticity,
	)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
