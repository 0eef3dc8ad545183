// README: Price resolver — deterministic tier pipeline plus optional AI/history blend.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

var (
	ErrUnsupportedServiceType     = errors.New("unsupported service type")
	ErrUnsupportedVehicleCategory = errors.New("unsupported vehicle category")
	ErrUnsupportedDurationBand    = errors.New("unsupported duration band")
	// ErrTierConfig means a recognized service type has no tier row. That is
	// a configuration defect; the resolver fails rather than guessing.
	ErrTierConfig = errors.New("tier table missing entry for service type")
)

// blendConfidenceThreshold gates blending: suggestions at or below it are
// discarded and the tier quote is returned untouched.
const blendConfidenceThreshold = 0.7

// historyConfidenceThreshold gates the historical leg of the blend.
const historyConfidenceThreshold = 0.5

// demandNoteThreshold is how far the demand multiplier must depart from 1.0
// before the quote carries a demand factor line.
const demandNoteThreshold = 0.05

// tierConfidence reflects that tier-based pricing is grounded in observed
// market data.
const tierConfidence = 0.92

// Predictor supplies a historical-similarity price estimate. A (nil, nil)
// return means insufficient history.
type Predictor interface {
	Predict(ctx context.Context, req Request) (*Prediction, error)
}

// Estimator supplies an external price suggestion. Implementations convert
// every transport or parse failure into a (nil, nil) return; the resolver
// never sees estimator errors.
type Estimator interface {
	Suggest(ctx context.Context, req Request, ec EstimatorContext) (*Suggestion, error)
}

// Service resolves quote requests. Both collaborators are optional: with a
// nil predictor and estimator the service is the pure tier pipeline.
type Service struct {
	predictor Predictor
	estimator Estimator
	now       func() time.Time
}

func NewService(predictor Predictor, estimator Estimator) *Service {
	return &Service{predictor: predictor, estimator: estimator, now: time.Now}
}

// WithClock replaces the service clock. Used by tests to pin the demand
// multiplier.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Quote runs the full resolution flow: tier pipeline, optional historical
// prediction, optional external suggestion, and the blend when the
// suggestion clears the confidence threshold.
func (s *Service) Quote(ctx context.Context, req Request) (Quote, error) {
	now := s.now()
	tier, err := ResolveTier(req, now)
	if err != nil {
		return Quote{}, err
	}

	var hist *Prediction
	if s.predictor != nil {
		hist, err = s.predictor.Predict(ctx, req)
		if err != nil {
			// History is a refinement, not a dependency.
			log.Printf("pricing: history prediction failed: %v", err)
			hist = nil
		}
	}

	if s.estimator == nil {
		return tier, nil
	}

	sug, err := s.estimator.Suggest(ctx, req, EstimatorContext{
		TierQuote:  tier,
		Historical: hist,
		Market:     MarketInsightsFor(req.ServiceType, now),
	})
	if err != nil || sug == nil {
		if err != nil {
			log.Printf("pricing: estimator unavailable, tier-only quote: %v", err)
		}
		return tier, nil
	}
	if sug.Confidence <= blendConfidenceThreshold {
		return tier, nil
	}
	return Blend(req.ServiceType, tier, *sug, hist), nil
}

// ResolveTier runs the deterministic pipeline. For a fixed request and
// timestamp it returns an identical quote on every call.
func ResolveTier(req Request, now time.Time) (Quote, error) {
	// Inputs are validated upstream, but the resolver re-validates and never
	// substitutes a default.
	if !req.ServiceType.Valid() {
		return Quote{}, ErrUnsupportedServiceType
	}
	if !req.VehicleCategory.Valid() {
		return Quote{}, ErrUnsupportedVehicleCategory
	}
	if !req.DurationBand.Valid() {
		return Quote{}, ErrUnsupportedDurationBand
	}

	tier, err := tierFor(req.ServiceType)
	if err != nil {
		return Quote{}, err
	}

	basePrice := tier.Base.Optimal
	additionalFees := 0.0
	factors := []string{fmt.Sprintf("%s valet service", req.ServiceType)}

	switch req.VehicleCategory {
	case VehicleLuxury:
		additionalFees += tier.LuxuryPremium.Optimal
		factors = append(factors, "Luxury vehicle handling")
	case VehicleExotic:
		additionalFees += tier.ExoticPremium.Optimal
		factors = append(factors, "Exotic vehicle premium")
	}

	zone := Classify(req.LocationText)
	if premium := tier.LocationPremium[zone]; premium > 0 {
		additionalFees += premium
		factors = append(factors, fmt.Sprintf("%s location premium", zone))
	}

	multiplier, ok := tier.DurationMultiplier[req.DurationBand]
	if !ok {
		return Quote{}, ErrTierConfig
	}
	basePrice *= multiplier
	if multiplier > 1.0 {
		factors = append(factors, fmt.Sprintf("Extended duration (%s)", req.DurationBand))
	}

	demand := DemandMultiplier(now)
	if demand > 1.0+demandNoteThreshold {
		factors = append(factors, "High demand period")
	} else if demand < 1.0-demandNoteThreshold {
		factors = append(factors, "Off-peak pricing")
	}

	// Demand scales each component so the rounded parts still add up to the
	// rounded total within the documented ±1 tolerance.
	subtotal := (basePrice + additionalFees) * demand
	total := NudgeTowardBestBand(req.ServiceType, subtotal)

	q := Quote{
		BasePrice:         roundDollars(basePrice * demand),
		AdditionalFees:    roundDollars(additionalFees * demand),
		Total:             roundDollars(total),
		EstimatedDuration: req.DurationBand,
		Factors:           factors,
		Confidence:        tierConfidence,
		Strategy:          StrategyTier,
	}
	q.ExpectedConversionRate = ExpectedConversion(req.ServiceType, float64(q.Total))
	return q, nil
}

// Blend combines the tier quote, the external suggestion, and (when present
// and confident) the historical prediction into a new hybrid quote. Weights:
// 0.4 tier / 0.4 suggested / 0.2 historical, with the historical share
// redistributed evenly when the prediction is absent or weak. The base price
// stays tier-deterministic; the blend lands in the fee component.
func Blend(serviceType ServiceType, tier Quote, sug Suggestion, hist *Prediction) Quote {
	tierWeight, sugWeight := 0.4, 0.4
	historical := 0.0
	factors := make([]string, 0, len(tier.Factors)+len(sug.Factors)+1)
	factors = append(factors, tier.Factors...)
	factors = append(factors, sug.Factors...)

	if hist != nil && hist.Confidence > historyConfidenceThreshold {
		historical = float64(hist.PredictedPrice) * 0.2
		factors = append(factors, fmt.Sprintf("Informed by %d similar past quotes", hist.SampleSize))
	} else {
		tierWeight, sugWeight = 0.5, 0.5
	}

	finalTotal := float64(tier.Total)*tierWeight + float64(sug.Total)*sugWeight + historical

	q := Quote{
		BasePrice:         tier.BasePrice,
		AdditionalFees:    roundDollars(finalTotal - float64(tier.BasePrice)),
		Total:             roundDollars(finalTotal),
		EstimatedDuration: tier.EstimatedDuration,
		Factors:           factors,
		Confidence:        math.Min(0.95, (tier.Confidence+sug.Confidence)/2),
		Strategy:          StrategyHybrid,
	}
	q.ExpectedConversionRate = ExpectedConversion(serviceType, float64(q.Total))
	return q
}

func roundDollars(v float64) int64 {
	return int64(math.Round(v))
}
