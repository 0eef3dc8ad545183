// README: Quote aggregate and status definitions.
package quote

import (
	"time"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Quote is a customer-facing quote row: who asked, what they asked for, and
// the priced result. Pricing fields are immutable after creation; only the
// customer contact fields, notes, and status may change.
type Quote struct {
	ID              types.ID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ServiceType     pricing.ServiceType
	VehicleCategory pricing.VehicleCategory
	LocationText    string
	DurationBand    pricing.DurationBand
	EventDate       *time.Time
	Notes           string

	BasePrice              int64
	AdditionalFees         int64
	Total                  int64
	Factors                []string
	Confidence             float64
	ExpectedConversionRate float64
	Strategy               pricing.Strategy

	Status        Status
	StatusVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllowedTransitions represents the quote lifecycle as code. Approved,
// rejected, and cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending: {StatusApproved, StatusRejected, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
