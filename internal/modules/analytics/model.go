// README: Analytics report shapes for the operator dashboard.
package analytics

import (
	"time"

	"valetquotes/internal/modules/pricing"
)

// ServiceRollup aggregates quote outcomes for one service type.
type ServiceRollup struct {
	ServiceType    pricing.ServiceType `json:"service_type"`
	Quotes         int                 `json:"quotes"`
	Accepted       int                 `json:"accepted"`
	ConversionRate float64             `json:"conversion_rate"`
	Revenue        int64               `json:"revenue"`
	AvgQuote       float64             `json:"avg_quote"`
}

// RangeRollup aggregates outcomes by quoted price band.
type RangeRollup struct {
	PriceRange     string  `json:"price_range"`
	Quotes         int     `json:"quotes"`
	Accepted       int     `json:"accepted"`
	ConversionRate float64 `json:"conversion_rate"`
}

// VehicleRollup aggregates outcomes by vehicle category.
type VehicleRollup struct {
	VehicleCategory pricing.VehicleCategory `json:"vehicle_category"`
	Quotes          int                     `json:"quotes"`
	Accepted        int                     `json:"accepted"`
	ConversionRate  float64                 `json:"conversion_rate"`
}

// DurationRollup aggregates outcomes by duration band.
type DurationRollup struct {
	DurationBand   pricing.DurationBand `json:"duration_band"`
	Quotes         int                  `json:"quotes"`
	Accepted       int                  `json:"accepted"`
	ConversionRate float64              `json:"conversion_rate"`
}

// Dashboard is the full recomputed analytics snapshot for a timeframe.
type Dashboard struct {
	Timeframe               string          `json:"timeframe"`
	GeneratedAt             time.Time       `json:"generated_at"`
	TotalQuotes             int             `json:"total_quotes"`
	AcceptedQuotes          int             `json:"accepted_quotes"`
	ConversionRate          float64         `json:"conversion_rate"`
	TotalRevenue            int64           `json:"total_revenue"`
	AvgQuote                float64         `json:"avg_quote"`
	ByService               []ServiceRollup  `json:"by_service"`
	ByPriceRange            []RangeRollup    `json:"by_price_range"`
	ByVehicleCategory       []VehicleRollup  `json:"by_vehicle_category"`
	ByDurationBand          []DurationRollup `json:"by_duration_band"`

	// AvgConversionSeconds averages decision latency over decided quotes;
	// AvgSatisfaction averages the 1-5 rating over the quotes that carry one.
	AvgConversionSeconds float64 `json:"avg_conversion_seconds"`
	AvgSatisfaction      float64 `json:"avg_satisfaction"`

	WeeklyGrowth            float64 `json:"weekly_growth"`
	ProjectedMonthlyRevenue float64 `json:"projected_monthly_revenue"`
}

// MonthFactor is one month's revenue relative to the yearly average.
type MonthFactor struct {
	Month  time.Month `json:"month"`
	Factor float64    `json:"factor"`
}

// Forecast projects next-month revenue from the trailing year of accepted
// quotes.
type Forecast struct {
	GeneratedAt      time.Time     `json:"generated_at"`
	SampleSize       int           `json:"sample_size"`
	AvgWeeklyRevenue float64       `json:"avg_weekly_revenue"`
	GrowthRate       float64       `json:"growth_rate"`
	Volatility       float64       `json:"volatility"`
	NextMonthRevenue float64       `json:"next_month_revenue"`
	RangeLow         float64       `json:"range_low"`
	RangeHigh        float64       `json:"range_high"`
	Confidence       string        `json:"confidence"`
	SeasonalFactors  []MonthFactor `json:"seasonal_factors"`
}

// Insights positions one service type against competitor benchmarks.
type Insights struct {
	ServiceType     pricing.ServiceType `json:"service_type"`
	OptimalPrice    float64             `json:"optimal_price"`
	CompetitorMin   int64               `json:"competitor_min"`
	CompetitorAvg   int64               `json:"competitor_avg"`
	CompetitorMax   int64               `json:"competitor_max"`
	PriceElasticity float64             `json:"price_elasticity"`
	SeasonalDemand  float64             `json:"seasonal_demand"`
	MarketPosition  string              `json:"market_position"`
	Recommendations []string            `json:"recommendations"`
}
