// README: Analytics service tests (memory-backed, fixed clock).
package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"valetquotes/internal/modules/history"
	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

var analyticsNow = time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)

func seededService(t *testing.T, recs ...history.Record) (*Service, *history.MemStore) {
	t.Helper()
	store := history.NewMemStore()
	for i := range recs {
		if err := store.Append(context.Background(), &recs[i]); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
	svc := NewService(store, NewMemCache(), 5*time.Minute).WithClock(func() time.Time { return analyticsNow })
	return svc, store
}

func rec(id string, st pricing.ServiceType, quoted, final int64, accepted bool, age time.Duration) history.Record {
	return history.Record{
		ID:              types.ID(id),
		ServiceType:     st,
		VehicleCategory: pricing.VehicleStandard,
		LocationText:    "downtown",
		DurationBand:    pricing.Duration1to2,
		QuotedPrice:     quoted,
		FinalPrice:      final,
		Accepted:        accepted,
		CreatedAt:       analyticsNow.Add(-age),
	}
}

func TestDashboardRollups(t *testing.T) {
	r1 := rec("r1", pricing.ServiceEvent, 50, 48, true, 24*time.Hour)
	r1.ConversionSeconds = 1200
	rating := 4.8
	r1.Satisfaction = &rating
	r2 := rec("r2", pricing.ServiceEvent, 97, 97, false, 48*time.Hour)
	r3 := rec("r3", pricing.ServiceCorporate, 87, 87, true, 10*24*time.Hour)
	r3.ConversionSeconds = 600
	r3.VehicleCategory = pricing.VehicleLuxury
	r3.DurationBand = pricing.Duration4to6
	svc, _ := seededService(t, r1, r2, r3)

	d, err := svc.Dashboard(context.Background(), "30d")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if d.TotalQuotes != 3 || d.AcceptedQuotes != 2 {
		t.Errorf("totals = %d/%d, want 3/2", d.TotalQuotes, d.AcceptedQuotes)
	}
	if math.Abs(d.ConversionRate-2.0/3.0) > 1e-9 {
		t.Errorf("conversion rate = %v, want 2/3", d.ConversionRate)
	}
	if d.TotalRevenue != 135 {
		t.Errorf("revenue = %d, want 135", d.TotalRevenue)
	}
	if d.AvgQuote != 78 {
		t.Errorf("avg quote = %v, want 78", d.AvgQuote)
	}

	if len(d.ByService) != 2 {
		t.Fatalf("service rollups = %d, want 2", len(d.ByService))
	}
	// ServiceTypes order puts event before corporate.
	event := d.ByService[0]
	if event.ServiceType != pricing.ServiceEvent || event.Quotes != 2 || event.Accepted != 1 || event.Revenue != 48 {
		t.Errorf("event rollup = %+v", event)
	}
	if event.ConversionRate != 0.5 || event.AvgQuote != 73.5 {
		t.Errorf("event rollup rates = %+v", event)
	}

	if len(d.ByPriceRange) != 2 {
		t.Fatalf("range rollups = %d, want 2", len(d.ByPriceRange))
	}
	if d.ByPriceRange[0].PriceRange != "40-60" || d.ByPriceRange[0].ConversionRate != 1.0 {
		t.Errorf("40-60 rollup = %+v", d.ByPriceRange[0])
	}
	if d.ByPriceRange[1].PriceRange != "80-100" || d.ByPriceRange[1].Quotes != 2 || d.ByPriceRange[1].ConversionRate != 0.5 {
		t.Errorf("80-100 rollup = %+v", d.ByPriceRange[1])
	}

	if len(d.ByVehicleCategory) != 2 {
		t.Fatalf("vehicle rollups = %d, want 2", len(d.ByVehicleCategory))
	}
	// VehicleCategories order puts standard before luxury.
	std := d.ByVehicleCategory[0]
	if std.VehicleCategory != pricing.VehicleStandard || std.Quotes != 2 || std.Accepted != 1 || std.ConversionRate != 0.5 {
		t.Errorf("standard rollup = %+v", std)
	}
	lux := d.ByVehicleCategory[1]
	if lux.VehicleCategory != pricing.VehicleLuxury || lux.Quotes != 1 || lux.ConversionRate != 1.0 {
		t.Errorf("luxury rollup = %+v", lux)
	}

	if len(d.ByDurationBand) != 2 {
		t.Fatalf("duration rollups = %d, want 2", len(d.ByDurationBand))
	}
	if d.ByDurationBand[0].DurationBand != pricing.Duration1to2 || d.ByDurationBand[0].Quotes != 2 || d.ByDurationBand[0].ConversionRate != 0.5 {
		t.Errorf("1-2 rollup = %+v", d.ByDurationBand[0])
	}
	if d.ByDurationBand[1].DurationBand != pricing.Duration4to6 || d.ByDurationBand[1].ConversionRate != 1.0 {
		t.Errorf("4-6 rollup = %+v", d.ByDurationBand[1])
	}

	if d.AvgConversionSeconds != 600 {
		t.Errorf("avg conversion seconds = %v, want 600", d.AvgConversionSeconds)
	}
	// Only r1 carries a rating; the average ignores unrated quotes.
	if d.AvgSatisfaction != 4.8 {
		t.Errorf("avg satisfaction = %v, want 4.8", d.AvgSatisfaction)
	}

	// This week closed 48 against 87 the week before.
	if math.Abs(d.WeeklyGrowth-(-39.0/87.0)) > 1e-9 {
		t.Errorf("weekly growth = %v, want %v", d.WeeklyGrowth, -39.0/87.0)
	}
	if d.ProjectedMonthlyRevenue != 75 {
		t.Errorf("projected monthly = %v, want 75", d.ProjectedMonthlyRevenue)
	}
}

func TestDashboardCachesByTimeframe(t *testing.T) {
	svc, store := seededService(t,
		rec("r1", pricing.ServiceEvent, 50, 50, true, 24*time.Hour),
	)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, "30d")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	// New history must not show up while the cached report is fresh.
	extra := rec("r2", pricing.ServiceEvent, 60, 60, true, time.Hour)
	if err := store.Append(ctx, &extra); err != nil {
		t.Fatalf("append: %v", err)
	}

	second, err := svc.Dashboard(ctx, "30d")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if second.TotalQuotes != first.TotalQuotes {
		t.Errorf("cached total = %d, want %d", second.TotalQuotes, first.TotalQuotes)
	}

	// A different timeframe is a different cache key and sees the new record.
	other, err := svc.Dashboard(ctx, "7d")
	if err != nil {
		t.Fatalf("Dashboard 7d: %v", err)
	}
	if other.TotalQuotes != 2 {
		t.Errorf("7d total = %d, want 2", other.TotalQuotes)
	}
}

func TestDashboardRejectsUnknownTimeframe(t *testing.T) {
	svc, _ := seededService(t)
	if _, err := svc.Dashboard(context.Background(), "13d"); !errors.Is(err, ErrBadTimeframe) {
		t.Errorf("expected ErrBadTimeframe, got %v", err)
	}
}

func TestForecastFromWeeklyRevenue(t *testing.T) {
	svc, _ := seededService(t,
		rec("r1", pricing.ServiceEvent, 120, 120, true, 24*time.Hour),
		rec("r2", pricing.ServiceEvent, 100, 100, true, 8*24*time.Hour),
		rec("r3", pricing.ServiceEvent, 90, 90, false, 24*time.Hour), // rejected, excluded
	)

	f, err := svc.Forecast(context.Background())
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if f.SampleSize != 2 {
		t.Errorf("sample size = %d, want 2 accepted records", f.SampleSize)
	}
	if f.AvgWeeklyRevenue != 110 {
		t.Errorf("avg weekly = %v, want 110", f.AvgWeeklyRevenue)
	}
	if math.Abs(f.GrowthRate-0.2) > 1e-9 {
		t.Errorf("growth = %v, want 0.2", f.GrowthRate)
	}
	if math.Abs(f.Volatility-10.0/110.0) > 1e-9 {
		t.Errorf("volatility = %v, want %v", f.Volatility, 10.0/110.0)
	}
	// 110 * 4.33 * 1.2 = 571.56
	if f.NextMonthRevenue != 572 {
		t.Errorf("next month = %v, want 572", f.NextMonthRevenue)
	}
	if f.RangeLow != 458 || f.RangeHigh != 686 {
		t.Errorf("range = %v..%v, want 458..686", f.RangeLow, f.RangeHigh)
	}
	if f.Confidence != "low" {
		t.Errorf("confidence = %s, want low", f.Confidence)
	}
	// Records fall in March and April.
	if len(f.SeasonalFactors) != 2 {
		t.Fatalf("seasonal factors = %+v, want 2 months", f.SeasonalFactors)
	}
	if f.SeasonalFactors[0].Month != time.March || f.SeasonalFactors[1].Month != time.April {
		t.Errorf("months = %+v, want March then April", f.SeasonalFactors)
	}
}

func TestForecastEmptyHistory(t *testing.T) {
	svc, _ := seededService(t)
	f, err := svc.Forecast(context.Background())
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if f.SampleSize != 0 || f.NextMonthRevenue != 0 {
		t.Errorf("empty forecast = %+v", f)
	}
	if f.Confidence != "low" {
		t.Errorf("confidence = %s, want low", f.Confidence)
	}
}

func TestConfidenceBuckets(t *testing.T) {
	cases := []struct {
		samples int
		want    string
	}{
		{0, "low"}, {9, "low"}, {10, "medium"}, {49, "medium"}, {50, "high"}, {500, "high"},
	}
	for _, tc := range cases {
		if got := confidenceFor(tc.samples); got != tc.want {
			t.Errorf("confidenceFor(%d) = %s, want %s", tc.samples, got, tc.want)
		}
	}
}

func TestInsights(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	// Event optimal 50 sits below the competitor average of 52.
	got, err := svc.Insights(ctx, pricing.ServiceEvent)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if got.OptimalPrice != 50 || got.CompetitorAvg != 52 {
		t.Errorf("insights = %+v", got)
	}
	if got.MarketPosition != "below market average" {
		t.Errorf("position = %q", got.MarketPosition)
	}
	if len(got.Recommendations) == 0 {
		t.Error("expected at least one recommendation")
	}

	// Private valet in spring carries elevated seasonal demand (1.3).
	private, err := svc.Insights(ctx, pricing.ServicePrivate)
	if err != nil {
		t.Fatalf("Insights private: %v", err)
	}
	if private.SeasonalDemand != 1.3 {
		t.Errorf("seasonal demand = %v, want 1.3", private.SeasonalDemand)
	}
	foundSeasonal := false
	for _, r := range private.Recommendations {
		if r == "Seasonal demand is elevated; premium pricing is defensible" {
			foundSeasonal = true
		}
	}
	if !foundSeasonal {
		t.Errorf("missing seasonal recommendation in %v", private.Recommendations)
	}

	if _, err := svc.Insights(ctx, "boat"); !errors.Is(err, pricing.ErrUnsupportedServiceType) {
		t.Errorf("expected ErrUnsupportedServiceType, got %v", err)
	}
}

func TestInsightsFlagSlowConversionsAndLowSatisfaction(t *testing.T) {
	slow := rec("r1", pricing.ServiceEvent, 50, 50, true, 24*time.Hour)
	slow.ConversionSeconds = 2400
	rating := 4.0
	slow.Satisfaction = &rating
	other := rec("r2", pricing.ServiceEvent, 60, 60, false, 48*time.Hour)
	other.ConversionSeconds = 2000
	svc, _ := seededService(t, slow, other)

	got, err := svc.Insights(context.Background(), pricing.ServiceEvent)
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	want := []string{
		"Long conversion times detected - consider simplifying the booking process",
		"Customer satisfaction could be improved - review service quality",
	}
	for _, w := range want {
		found := false
		for _, r := range got.Recommendations {
			if r == w {
				found = true
			}
		}
		if !found {
			t.Errorf("missing recommendation %q in %v", w, got.Recommendations)
		}
	}

	// A healthy service type draws neither warning.
	healthy, err := svc.Insights(context.Background(), pricing.ServiceCorporate)
	if err != nil {
		t.Fatalf("Insights corporate: %v", err)
	}
	for _, r := range healthy.Recommendations {
		for _, w := range want {
			if r == w {
				t.Errorf("unexpected recommendation %q for clean history", r)
			}
		}
	}
}
