// README: Analytics service — dashboards, revenue forecasting, and market insights.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"valetquotes/internal/modules/history"
	"valetquotes/internal/modules/pricing"
)

var ErrBadTimeframe = errors.New("unrecognized timeframe")

// timeframeDays maps the API timeframe tokens to lookback windows.
var timeframeDays = map[string]int{
	"7d":   7,
	"30d":  30,
	"90d":  90,
	"365d": 365,
}

const weeksPerMonth = 4.33

// Outcome-quality thresholds: decisions slower than 30 minutes point at
// booking friction, ratings under 4.5 at a service problem.
const (
	longConversionSeconds = 1800.0
	lowSatisfaction       = 4.5
)

// priceRangeLabels in ascending order, matching priceRangeLabel.
var priceRangeLabels = []string{"0-40", "40-60", "60-80", "80-100", "100+"}

// Service recomputes analytics from quote history on demand. Reports are
// cached briefly; the history store stays the single source of truth.
type Service struct {
	history history.Store
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
}

func NewService(hist history.Store, cache Cache, ttl time.Duration) *Service {
	return &Service{history: hist, cache: cache, ttl: ttl, now: time.Now}
}

// WithClock pins report timestamps and lookback windows. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Dashboard returns the aggregate snapshot for a timeframe, served from
// cache when fresh.
func (s *Service) Dashboard(ctx context.Context, timeframe string) (*Dashboard, error) {
	days, ok := timeframeDays[timeframe]
	if !ok {
		return nil, ErrBadTimeframe
	}

	key := "analytics:dashboard:" + timeframe
	var cached Dashboard
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	now := s.now()
	recs, err := s.history.Query(ctx, history.Filter{Since: now.AddDate(0, 0, -days)})
	if err != nil {
		return nil, fmt.Errorf("dashboard query: %w", err)
	}

	d := buildDashboard(timeframe, days, recs, now)
	s.toCache(ctx, key, d)
	return d, nil
}

// Forecast projects next-month revenue from the trailing year.
func (s *Service) Forecast(ctx context.Context) (*Forecast, error) {
	const key = "analytics:forecast"
	var cached Forecast
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	now := s.now()
	accepted := true
	recs, err := s.history.Query(ctx, history.Filter{
		Accepted: &accepted,
		Since:    now.AddDate(-1, 0, 0),
	})
	if err != nil {
		return nil, fmt.Errorf("forecast query: %w", err)
	}

	f := buildForecast(recs, now)
	s.toCache(ctx, key, f)
	return f, nil
}

// Insights positions a service type against the competitor benchmarks.
func (s *Service) Insights(ctx context.Context, serviceType pricing.ServiceType) (*Insights, error) {
	tier, err := pricing.TierFor(serviceType)
	if err != nil {
		return nil, err
	}
	now := s.now()
	market := pricing.MarketInsightsFor(serviceType, now)
	optimal := tier.Base.Optimal

	position := "at market average"
	switch {
	case optimal < float64(market.CompetitorAvg):
		position = "below market average"
	case optimal > float64(market.CompetitorAvg):
		position = "above market average"
	}

	var recs []string
	if market.SeasonalDemand > 1.2 {
		recs = append(recs, "Seasonal demand is elevated; premium pricing is defensible")
	}
	if market.PriceElasticity > -0.6 {
		recs = append(recs, "Demand is relatively price-insensitive; consider testing higher rates")
	} else {
		recs = append(recs, "Demand is price-sensitive; keep quotes near the competitor average")
	}
	if optimal < float64(market.CompetitorMin) {
		recs = append(recs, "Base price sits below the competitor floor; margin is being left on the table")
	}

	past, err := s.history.Query(ctx, history.Filter{ServiceType: serviceType})
	if err != nil {
		return nil, fmt.Errorf("insights query: %w", err)
	}
	avgConversion, avgSatisfaction := outcomeAverages(past)
	if avgConversion > longConversionSeconds {
		recs = append(recs, "Long conversion times detected - consider simplifying the booking process")
	}
	if avgSatisfaction > 0 && avgSatisfaction < lowSatisfaction {
		recs = append(recs, "Customer satisfaction could be improved - review service quality")
	}

	return &Insights{
		ServiceType:     serviceType,
		OptimalPrice:    optimal,
		CompetitorMin:   market.CompetitorMin,
		CompetitorAvg:   market.CompetitorAvg,
		CompetitorMax:   market.CompetitorMax,
		PriceElasticity: market.PriceElasticity,
		SeasonalDemand:  market.SeasonalDemand,
		MarketPosition:  position,
		Recommendations: recs,
	}, nil
}

func buildDashboard(timeframe string, days int, recs []history.Record, now time.Time) *Dashboard {
	d := &Dashboard{
		Timeframe:   timeframe,
		GeneratedAt: now,
		TotalQuotes: len(recs),
	}

	byService := make(map[pricing.ServiceType]*ServiceRollup)
	byRange := make(map[string]*RangeRollup)
	byVehicle := make(map[pricing.VehicleCategory]*VehicleRollup)
	byDuration := make(map[pricing.DurationBand]*DurationRollup)
	var quotedSum int64
	var weekRevenue, prevWeekRevenue int64
	var conversionSum int64
	var satisfactionSum float64
	var satisfactionCount int

	for _, rec := range recs {
		quotedSum += rec.QuotedPrice
		conversionSum += rec.ConversionSeconds
		if rec.Satisfaction != nil {
			satisfactionSum += *rec.Satisfaction
			satisfactionCount++
		}

		sr := byService[rec.ServiceType]
		if sr == nil {
			sr = &ServiceRollup{ServiceType: rec.ServiceType}
			byService[rec.ServiceType] = sr
		}
		sr.Quotes++
		sr.AvgQuote += float64(rec.QuotedPrice)

		label := priceRangeLabel(rec.QuotedPrice)
		rr := byRange[label]
		if rr == nil {
			rr = &RangeRollup{PriceRange: label}
			byRange[label] = rr
		}
		rr.Quotes++

		vr := byVehicle[rec.VehicleCategory]
		if vr == nil {
			vr = &VehicleRollup{VehicleCategory: rec.VehicleCategory}
			byVehicle[rec.VehicleCategory] = vr
		}
		vr.Quotes++

		dr := byDuration[rec.DurationBand]
		if dr == nil {
			dr = &DurationRollup{DurationBand: rec.DurationBand}
			byDuration[rec.DurationBand] = dr
		}
		dr.Quotes++

		if rec.Accepted {
			d.AcceptedQuotes++
			d.TotalRevenue += rec.FinalPrice
			sr.Accepted++
			sr.Revenue += rec.FinalPrice
			rr.Accepted++
			vr.Accepted++
			dr.Accepted++

			age := now.Sub(rec.CreatedAt)
			if age < 7*24*time.Hour {
				weekRevenue += rec.FinalPrice
			} else if age < 14*24*time.Hour {
				prevWeekRevenue += rec.FinalPrice
			}
		}
	}

	if d.TotalQuotes > 0 {
		d.ConversionRate = float64(d.AcceptedQuotes) / float64(d.TotalQuotes)
		d.AvgQuote = float64(quotedSum) / float64(d.TotalQuotes)
		d.AvgConversionSeconds = float64(conversionSum) / float64(d.TotalQuotes)
	}
	if satisfactionCount > 0 {
		d.AvgSatisfaction = satisfactionSum / float64(satisfactionCount)
	}

	for _, st := range pricing.ServiceTypes() {
		sr, ok := byService[st]
		if !ok {
			continue
		}
		sr.AvgQuote /= float64(sr.Quotes)
		sr.ConversionRate = float64(sr.Accepted) / float64(sr.Quotes)
		d.ByService = append(d.ByService, *sr)
	}
	for _, label := range priceRangeLabels {
		rr, ok := byRange[label]
		if !ok {
			continue
		}
		rr.ConversionRate = float64(rr.Accepted) / float64(rr.Quotes)
		d.ByPriceRange = append(d.ByPriceRange, *rr)
	}
	for _, vc := range pricing.VehicleCategories() {
		vr, ok := byVehicle[vc]
		if !ok {
			continue
		}
		vr.ConversionRate = float64(vr.Accepted) / float64(vr.Quotes)
		d.ByVehicleCategory = append(d.ByVehicleCategory, *vr)
	}
	for _, band := range pricing.DurationBands() {
		dr, ok := byDuration[band]
		if !ok {
			continue
		}
		dr.ConversionRate = float64(dr.Accepted) / float64(dr.Quotes)
		d.ByDurationBand = append(d.ByDurationBand, *dr)
	}

	if prevWeekRevenue > 0 {
		d.WeeklyGrowth = float64(weekRevenue-prevWeekRevenue) / float64(prevWeekRevenue)
	}
	weeks := float64(days) / 7
	if weeks > 0 {
		avgWeekly := float64(d.TotalRevenue) / weeks
		d.ProjectedMonthlyRevenue = math.Round(avgWeekly * weeksPerMonth * (1 + d.WeeklyGrowth))
	}
	return d
}

func buildForecast(recs []history.Record, now time.Time) *Forecast {
	f := &Forecast{
		GeneratedAt: now,
		SampleSize:  len(recs),
		Confidence:  confidenceFor(len(recs)),
	}
	if len(recs) == 0 {
		return f
	}

	// Weekly revenue buckets, index 0 = current week.
	weekly := make(map[int]float64)
	monthly := make(map[time.Month]float64)
	maxWeek := 0
	for _, rec := range recs {
		week := int(now.Sub(rec.CreatedAt).Hours() / (24 * 7))
		weekly[week] += float64(rec.FinalPrice)
		if week > maxWeek {
			maxWeek = week
		}
		monthly[rec.CreatedAt.Month()] += float64(rec.FinalPrice)
	}

	weeks := maxWeek + 1
	var total float64
	for _, v := range weekly {
		total += v
	}
	f.AvgWeeklyRevenue = total / float64(weeks)

	// Growth compares the recent half of the window against the older half.
	if weeks >= 2 {
		half := weeks / 2
		var recent, older float64
		for w, v := range weekly {
			if w < half {
				recent += v
			} else {
				older += v
			}
		}
		recentAvg := recent / float64(half)
		olderAvg := older / float64(weeks-half)
		if olderAvg > 0 {
			f.GrowthRate = (recentAvg - olderAvg) / olderAvg
		}
	}

	if f.AvgWeeklyRevenue > 0 {
		var variance float64
		for w := 0; w < weeks; w++ {
			diff := weekly[w] - f.AvgWeeklyRevenue
			variance += diff * diff
		}
		f.Volatility = math.Sqrt(variance/float64(weeks)) / f.AvgWeeklyRevenue
	}

	f.NextMonthRevenue = math.Round(f.AvgWeeklyRevenue * weeksPerMonth * (1 + f.GrowthRate))
	f.RangeLow = math.Round(f.NextMonthRevenue * 0.8)
	f.RangeHigh = math.Round(f.NextMonthRevenue * 1.2)

	// Seasonal factors: each observed month's revenue relative to the
	// average observed month.
	var monthTotal float64
	for _, v := range monthly {
		monthTotal += v
	}
	monthAvg := monthTotal / float64(len(monthly))
	months := make([]time.Month, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	for _, m := range months {
		f.SeasonalFactors = append(f.SeasonalFactors, MonthFactor{Month: m, Factor: monthly[m] / monthAvg})
	}
	return f
}

// outcomeAverages reduces records to mean conversion latency and mean
// satisfaction. Satisfaction averages only the rated records; 0 means no
// ratings exist.
func outcomeAverages(recs []history.Record) (avgConversion, avgSatisfaction float64) {
	if len(recs) == 0 {
		return 0, 0
	}
	var conversionSum int64
	var satisfactionSum float64
	rated := 0
	for _, rec := range recs {
		conversionSum += rec.ConversionSeconds
		if rec.Satisfaction != nil {
			satisfactionSum += *rec.Satisfaction
			rated++
		}
	}
	avgConversion = float64(conversionSum) / float64(len(recs))
	if rated > 0 {
		avgSatisfaction = satisfactionSum / float64(rated)
	}
	return avgConversion, avgSatisfaction
}

func confidenceFor(samples int) string {
	switch {
	case samples < 10:
		return "low"
	case samples < 50:
		return "medium"
	default:
		return "high"
	}
}

func priceRangeLabel(price int64) string {
	switch {
	case price < 40:
		return "0-40"
	case price < 60:
		return "40-60"
	case price < 80:
		return "60-80"
	case price < 100:
		return "80-100"
	default:
		return "100+"
	}
}

func (s *Service) fromCache(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	val, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("analytics: cache get %s: %v", key, err)
		return false
	}
	if !hit {
		return false
	}
	if err := json.Unmarshal(val, out); err != nil {
		log.Printf("analytics: cache decode %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) toCache(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	val, err := json.Marshal(v)
	if err != nil {
		log.Printf("analytics: cache encode %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, val, s.ttl); err != nil {
		log.Printf("analytics: cache set %s: %v", key, err)
	}
}
