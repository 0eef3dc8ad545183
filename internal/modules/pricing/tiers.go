// README: Static tier table — per service type base ranges, premiums, and multipliers.
package pricing

// PriceRange holds a dollar range plus the point the tier considers optimal.
// Every range satisfies Min <= Optimal <= Max.
type PriceRange struct {
	Min     float64
	Max     float64
	Optimal float64
}

// Tier is one read-only pricing configuration row. The table below is fixed
// reference data derived from market research; nothing mutates it at runtime.
type Tier struct {
	Base               PriceRange
	LuxuryPremium      PriceRange
	ExoticPremium      PriceRange
	LocationPremium    map[LocationCategory]float64
	DurationMultiplier map[DurationBand]float64
}

var pricingTiers = map[ServiceType]Tier{
	ServiceEvent: {
		Base:          PriceRange{Min: 40, Max: 60, Optimal: 50},
		LuxuryPremium: PriceRange{Min: 15, Max: 25, Optimal: 20},
		ExoticPremium: PriceRange{Min: 25, Max: 40, Optimal: 32},
		LocationPremium: map[LocationCategory]float64{
			LocationDowntown: 15, LocationSuburban: 0, LocationRemote: 8,
		},
		DurationMultiplier: map[DurationBand]float64{
			Duration1to2: 1.0, Duration2to4: 1.1, Duration4to6: 1.2, Duration6to8: 1.3, Duration8Up: 1.4,
		},
	},
	ServiceRestaurant: {
		Base:          PriceRange{Min: 30, Max: 50, Optimal: 40},
		LuxuryPremium: PriceRange{Min: 10, Max: 20, Optimal: 15},
		ExoticPremium: PriceRange{Min: 20, Max: 35, Optimal: 27},
		LocationPremium: map[LocationCategory]float64{
			LocationDowntown: 12, LocationSuburban: 0, LocationRemote: 6,
		},
		DurationMultiplier: map[DurationBand]float64{
			Duration1to2: 1.0, Duration2to4: 1.0, Duration4to6: 1.1, Duration6to8: 1.2, Duration8Up: 1.3,
		},
	},
	ServiceHotel: {
		Base:          PriceRange{Min: 35, Max: 55, Optimal: 45},
		LuxuryPremium: PriceRange{Min: 12, Max: 22, Optimal: 17},
		ExoticPremium: PriceRange{Min: 22, Max: 37, Optimal: 29},
		LocationPremium: map[LocationCategory]float64{
			LocationDowntown: 13, LocationSuburban: 0, LocationRemote: 7,
		},
		DurationMultiplier: map[DurationBand]float64{
			Duration1to2: 1.0, Duration2to4: 1.0, Duration4to6: 1.1, Duration6to8: 1.2, Duration8Up: 1.3,
		},
	},
	ServiceCorporate: {
		Base:          PriceRange{Min: 50, Max: 75, Optimal: 62},
		LuxuryPremium: PriceRange{Min: 18, Max: 28, Optimal: 23},
		ExoticPremium: PriceRange{Min: 28, Max: 43, Optimal: 35},
		LocationPremium: map[LocationCategory]float64{
			LocationDowntown: 18, LocationSuburban: 0, LocationRemote: 10,
		},
		DurationMultiplier: map[DurationBand]float64{
			Duration1to2: 1.0, Duration2to4: 1.1, Duration4to6: 1.2, Duration6to8: 1.3, Duration8Up: 1.4,
		},
	},
	ServicePrivate: {
		Base:          PriceRange{Min: 45, Max: 65, Optimal: 55},
		LuxuryPremium: PriceRange{Min: 15, Max: 25, Optimal: 20},
		ExoticPremium: PriceRange{Min: 25, Max: 40, Optimal: 32},
		LocationPremium: map[LocationCategory]float64{
			LocationDowntown: 15, LocationSuburban: 0, LocationRemote: 8,
		},
		DurationMultiplier: map[DurationBand]float64{
			Duration1to2: 1.0, Duration2to4: 1.1, Duration4to6: 1.2, Duration6to8: 1.3, Duration8Up: 1.4,
		},
	},
}

// tierFor returns the tier row for a service type. A valid enum value with no
// tier entry is a configuration defect: fail loudly, never guess a price.
func tierFor(serviceType ServiceType) (Tier, error) {
	tier, ok := pricingTiers[serviceType]
	if !ok {
		return Tier{}, ErrTierConfig
	}
	return tier, nil
}

// TierFor exposes the tier row for read-side consumers (analytics insights).
func TierFor(serviceType ServiceType) (Tier, error) {
	if !serviceType.Valid() {
		return Tier{}, ErrUnsupportedServiceType
	}
	return tierFor(serviceType)
}
