// README: History service — outcome recording and similarity-weighted price prediction.
package history

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

// Weighting constants for the similarity predictor. Exact duration matches
// dominate; mismatches still contribute at a discount. Recency decays
// exponentially with a 30-day half-life-ish scale.
const (
	durationMatchWeight    = 1.5
	durationMismatchWeight = 0.8
	locationMatchBoost     = 1.3
	recencyScaleDays       = 30.0
	maxPredictionSamples   = 10.0
	maxPredictionConf      = 0.95
)

// Service records quote outcomes and predicts prices from similar past
// records. It implements the resolver's Predictor port.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock pins the recency reference point. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record appends one finished quote outcome. Missing ID and timestamp are
// filled in; everything else is stored as given.
func (s *Service) Record(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = types.ID(uuid.NewString())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if err := s.store.Append(ctx, rec); err != nil {
		return fmt.Errorf("record quote outcome: %w", err)
	}
	return nil
}

// Predict estimates a price from accepted records with the same service type
// and vehicle category. Each record is weighted by duration match, location
// similarity, and recency; the prediction is the weighted mean of final
// prices. Returns (nil, nil) when no record qualifies.
func (s *Service) Predict(ctx context.Context, req pricing.Request) (*pricing.Prediction, error) {
	accepted := true
	recs, err := s.store.Query(ctx, Filter{
		ServiceType:     req.ServiceType,
		VehicleCategory: req.VehicleCategory,
		Accepted:        &accepted,
	})
	if err != nil {
		return nil, fmt.Errorf("predict from history: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	now := s.now()
	token := leadingToken(req.LocationText)
	var weightedSum, totalWeight float64
	for _, rec := range recs {
		w := durationMismatchWeight
		if rec.DurationBand == req.DurationBand {
			w = durationMatchWeight
		}
		if token != "" && strings.Contains(strings.ToLower(rec.LocationText), token) {
			w *= locationMatchBoost
		}
		ageDays := now.Sub(rec.CreatedAt).Hours() / 24
		w *= math.Exp(-ageDays / recencyScaleDays)

		weightedSum += float64(rec.FinalPrice) * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return nil, nil
	}

	return &pricing.Prediction{
		PredictedPrice: int64(math.Round(weightedSum / totalWeight)),
		Confidence:     math.Min(maxPredictionConf, float64(len(recs))/maxPredictionSamples),
		SampleSize:     len(recs),
	}, nil
}

func leadingToken(locationText string) string {
	fields := strings.Fields(strings.ToLower(locationText))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
