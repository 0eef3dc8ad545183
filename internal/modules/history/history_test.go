// README: History service tests (similarity predictor + recording).
package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

var predictorNow = time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)

func memService(t *testing.T, recs ...Record) *Service {
	t.Helper()
	store := NewMemStore()
	for i := range recs {
		if err := store.Append(context.Background(), &recs[i]); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
	return NewService(store).WithClock(func() time.Time { return predictorNow })
}

func eventRecord(finalPrice int64, band pricing.DurationBand, location string, age time.Duration) Record {
	return Record{
		ID:              types.ID(fmt.Sprintf("h_%d", finalPrice)),
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    location,
		DurationBand:    band,
		QuotedPrice:     finalPrice,
		FinalPrice:      finalPrice,
		Accepted:        true,
		CreatedAt:       predictorNow.Add(-age),
	}
}

func TestPredictNilOnNoHistory(t *testing.T) {
	svc := memService(t)
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "downtown",
		DurationBand:    pricing.Duration1to2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil prediction, got %+v", p)
	}
}

func TestPredictIgnoresNonMatchingRecords(t *testing.T) {
	rejected := eventRecord(500, pricing.Duration1to2, "suburb", 0)
	rejected.Accepted = false
	otherService := eventRecord(500, pricing.Duration1to2, "suburb", 0)
	otherService.ServiceType = pricing.ServiceHotel
	otherVehicle := eventRecord(500, pricing.Duration1to2, "suburb", 0)
	otherVehicle.VehicleCategory = pricing.VehicleExotic

	svc := memService(t, rejected, otherService, otherVehicle, eventRecord(55, pricing.Duration1to2, "suburb", 0))
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "suburb lane",
		DurationBand:    pricing.Duration1to2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p == nil {
		t.Fatal("expected a prediction")
	}
	if p.SampleSize != 1 {
		t.Errorf("sample size = %d, want 1 (filters must exclude the noise)", p.SampleSize)
	}
	if p.PredictedPrice != 55 {
		t.Errorf("predicted price = %d, want 55", p.PredictedPrice)
	}
}

func TestPredictWeighsDurationMatch(t *testing.T) {
	// Fresh records, no location overlap: only the duration weight differs.
	// (1.5*60 + 0.8*100) / 2.3 = 73.9 -> 74
	svc := memService(t,
		eventRecord(60, pricing.Duration2to4, "plaza", 0),
		eventRecord(100, pricing.Duration8Up, "plaza", 0),
	)
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "harbor front",
		DurationBand:    pricing.Duration2to4,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p == nil || p.PredictedPrice != 74 {
		t.Errorf("prediction = %+v, want price 74", p)
	}
	if p != nil && p.Confidence != 0.2 {
		t.Errorf("confidence = %v, want 0.2 for 2 samples", p.Confidence)
	}
}

func TestPredictBoostsLocationMatch(t *testing.T) {
	// Both fresh, both duration matches. The downtown record gets the 1.3
	// boost: (1.95*50 + 1.5*100) / 3.45 = 71.7 -> 72. Unboosted it would be 75.
	svc := memService(t,
		eventRecord(50, pricing.Duration1to2, "Downtown garage on 5th", 0),
		eventRecord(100, pricing.Duration1to2, "airport lot", 0),
	)
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "Downtown plaza",
		DurationBand:    pricing.Duration1to2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p == nil || p.PredictedPrice != 72 {
		t.Errorf("prediction = %+v, want price 72", p)
	}
}

func TestPredictDecaysOldRecords(t *testing.T) {
	// A 30-day-old record carries weight e^-1 of a fresh one, so the
	// prediction leans toward the fresh price.
	svc := memService(t,
		eventRecord(50, pricing.Duration1to2, "plaza", 0),
		eventRecord(100, pricing.Duration1to2, "plaza", 30*24*time.Hour),
	)
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "harbor front",
		DurationBand:    pricing.Duration1to2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p == nil {
		t.Fatal("expected a prediction")
	}
	if p.PredictedPrice >= 75 {
		t.Errorf("predicted price = %d, want below the unweighted mean 75", p.PredictedPrice)
	}
	if p.PredictedPrice <= 50 {
		t.Errorf("predicted price = %d, old record should still contribute", p.PredictedPrice)
	}
}

func TestPredictConfidenceCaps(t *testing.T) {
	recs := make([]Record, 0, 12)
	for i := 0; i < 12; i++ {
		rec := eventRecord(60, pricing.Duration1to2, "plaza", time.Duration(i)*time.Hour)
		rec.ID = types.ID(fmt.Sprintf("h_cap_%d", i))
		recs = append(recs, rec)
	}
	svc := memService(t, recs...)
	p, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "plaza",
		DurationBand:    pricing.Duration1to2,
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if p == nil {
		t.Fatal("expected a prediction")
	}
	if p.Confidence != 0.95 {
		t.Errorf("confidence = %v, want cap 0.95", p.Confidence)
	}
	if p.SampleSize != 12 {
		t.Errorf("sample size = %d, want 12", p.SampleSize)
	}
}

func TestRecordFillsDefaults(t *testing.T) {
	store := NewMemStore()
	svc := NewService(store).WithClock(func() time.Time { return predictorNow })

	rec := Record{
		ServiceType:     pricing.ServiceRestaurant,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "bistro row",
		DurationBand:    pricing.Duration2to4,
		QuotedPrice:     40,
		FinalPrice:      38,
		Accepted:        true,
	}
	if err := svc.Record(context.Background(), &rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected a generated ID")
	}
	if !rec.CreatedAt.Equal(predictorNow) {
		t.Errorf("created at = %s, want clock time", rec.CreatedAt)
	}

	got, err := store.Query(context.Background(), Filter{ServiceType: pricing.ServiceRestaurant})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("stored records = %d, want 1", len(got))
	}
}

type failingStore struct{}

func (failingStore) Append(context.Context, *Record) error { return errors.New("disk full") }
func (failingStore) Query(context.Context, Filter) ([]Record, error) {
	return nil, errors.New("connection reset")
}

func TestPredictPropagatesStoreError(t *testing.T) {
	svc := NewService(failingStore{})
	_, err := svc.Predict(context.Background(), pricing.Request{
		ServiceType:     pricing.ServiceEvent,
		VehicleCategory: pricing.VehicleStandard,
		DurationBand:    pricing.Duration1to2,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
}
