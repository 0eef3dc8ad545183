// README: Market insights — competitor benchmarks and seasonal demand per service type.
package pricing

import "time"

// MarketInsights is read-only market context handed to the external
// estimator and to the analytics insights report.
type MarketInsights struct {
	CompetitorMin   int64
	CompetitorAvg   int64
	CompetitorMax   int64
	SeasonalDemand  float64
	PriceElasticity float64
}

type competitorRange struct {
	min, avg, max int64
}

var competitorPricing = map[ServiceType]competitorRange{
	ServiceEvent:      {min: 35, avg: 52, max: 75},
	ServiceRestaurant: {min: 25, avg: 42, max: 65},
	ServiceHotel:      {min: 30, avg: 48, max: 70},
	ServiceCorporate:  {min: 45, avg: 68, max: 95},
	ServicePrivate:    {min: 40, avg: 58, max: 85},
}

var priceElasticity = map[ServiceType]float64{
	ServiceEvent:      -0.7,
	ServiceRestaurant: -0.9,
	ServiceHotel:      -0.8,
	ServiceCorporate:  -0.5,
	ServicePrivate:    -0.6,
}

// seasonalDemand holds per-season demand indices keyed by service type, in
// spring/summer/fall/winter order.
var seasonalDemand = map[ServiceType][4]float64{
	ServiceEvent:      {1.1, 1.4, 1.2, 0.8},
	ServiceRestaurant: {1.0, 1.2, 1.1, 0.9},
	ServiceHotel:      {1.2, 1.5, 1.3, 0.9},
	ServiceCorporate:  {0.9, 0.8, 1.1, 1.2},
	ServicePrivate:    {1.3, 1.6, 1.4, 0.7},
}

// MarketInsightsFor returns the benchmarks and the seasonal demand index for
// the season containing now.
func MarketInsightsFor(serviceType ServiceType, now time.Time) MarketInsights {
	c := competitorPricing[serviceType]
	return MarketInsights{
		CompetitorMin:   c.min,
		CompetitorAvg:   c.avg,
		CompetitorMax:   c.max,
		SeasonalDemand:  seasonalDemand[serviceType][seasonIndex(now.Month())],
		PriceElasticity: priceElasticity[serviceType],
	}
}

func seasonIndex(month time.Month) int {
	switch {
	case month >= time.March && month <= time.May:
		return 0
	case month >= time.June && month <= time.August:
		return 1
	case month >= time.September && month <= time.November:
		return 2
	default:
		return 3
	}
}
