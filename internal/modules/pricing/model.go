// README: Pricing domain model — enumerations, quote request, and quote value object.
package pricing

type ServiceType string

const (
	ServiceEvent      ServiceType = "event"
	ServiceRestaurant ServiceType = "restaurant"
	ServiceHotel      ServiceType = "hotel"
	ServiceCorporate  ServiceType = "corporate"
	ServicePrivate    ServiceType = "private"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceEvent, ServiceRestaurant, ServiceHotel, ServiceCorporate, ServicePrivate:
		return true
	}
	return false
}

// ServiceTypes lists every recognized service type, in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceEvent, ServiceRestaurant, ServiceHotel, ServiceCorporate, ServicePrivate}
}

type VehicleCategory string

const (
	VehicleStandard VehicleCategory = "standard"
	VehicleLuxury   VehicleCategory = "luxury"
	VehicleExotic   VehicleCategory = "exotic"
	VehicleSUV      VehicleCategory = "suv"
	VehicleTruck    VehicleCategory = "truck"
)

// VehicleCategories lists every recognized category, in display order.
func VehicleCategories() []VehicleCategory {
	return []VehicleCategory{VehicleStandard, VehicleLuxury, VehicleExotic, VehicleSUV, VehicleTruck}
}

// Valid reports whether the category is a recognized input. Only luxury and
// exotic carry a premium; suv and truck price as standard.
func (v VehicleCategory) Valid() bool {
	switch v {
	case VehicleStandard, VehicleLuxury, VehicleExotic, VehicleSUV, VehicleTruck:
		return true
	}
	return false
}

// LocationCategory is derived from free-text location input. It is never
// stored; it is recomputed from the text on every quote.
type LocationCategory string

const (
	LocationDowntown LocationCategory = "downtown"
	LocationSuburban LocationCategory = "suburban"
	LocationRemote   LocationCategory = "remote"
)

type DurationBand string

const (
	Duration1to2 DurationBand = "1-2"
	Duration2to4 DurationBand = "2-4"
	Duration4to6 DurationBand = "4-6"
	Duration6to8 DurationBand = "6-8"
	Duration8Up  DurationBand = "8+"
)

func (d DurationBand) Valid() bool {
	switch d {
	case Duration1to2, Duration2to4, Duration4to6, Duration6to8, Duration8Up:
		return true
	}
	return false
}

// DurationBands lists the bands from shortest to longest.
func DurationBands() []DurationBand {
	return []DurationBand{Duration1to2, Duration2to4, Duration4to6, Duration6to8, Duration8Up}
}

type Strategy string

const (
	StrategyTier   Strategy = "tier"
	StrategyAI     Strategy = "ai"
	StrategyHybrid Strategy = "hybrid"
)

// Request carries the validated customer inputs for a quote. LocationText is
// free text; the resolver classifies it itself.
type Request struct {
	ServiceType     ServiceType
	VehicleCategory VehicleCategory
	LocationText    string
	DurationBand    DurationBand
}

// Quote is the finalized price quote. It is immutable once returned: a
// blended quote is a fresh value derived from its inputs, never a mutation.
type Quote struct {
	BasePrice              int64
	AdditionalFees         int64
	Total                  int64
	EstimatedDuration      DurationBand
	Factors                []string
	Confidence             float64
	ExpectedConversionRate float64
	Strategy               Strategy
}

// Prediction is a historical-similarity price estimate. A nil Prediction
// means insufficient history, which is a normal outcome rather than an error.
type Prediction struct {
	PredictedPrice int64
	Confidence     float64
	SampleSize     int
}

// Suggestion is an externally produced price estimate with a confidence
// score. Suggestions with confidence at or below the blend threshold are
// ignored entirely.
type Suggestion struct {
	BasePrice      int64
	AdditionalFees int64
	Total          int64
	Factors        []string
	Confidence     float64
}

// EstimatorContext supplies everything an external estimator may use:
// the deterministic tier quote, the historical prediction (may be nil), and
// current market insights for the service type.
type EstimatorContext struct {
	TierQuote  Quote
	Historical *Prediction
	Market     MarketInsights
}
