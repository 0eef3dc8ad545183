// README: Historical quote records — the raw material for similarity pricing and analytics.
package history

import (
	"time"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

// Record is one finished quote interaction: what we quoted, what the deal
// closed at, and whether the customer accepted. Records are append-only.
type Record struct {
	ID              types.ID
	ServiceType     pricing.ServiceType
	VehicleCategory pricing.VehicleCategory
	LocationText    string
	DurationBand    pricing.DurationBand
	QuotedPrice     int64
	FinalPrice      int64
	Accepted        bool

	// ConversionSeconds is how long the quote sat open before the decision.
	ConversionSeconds int64

	// Satisfaction is the customer's post-service rating on a 1-5 scale,
	// nil when no rating was collected.
	Satisfaction *float64

	CreatedAt time.Time
}
