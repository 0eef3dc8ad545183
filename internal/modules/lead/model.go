// README: Sales lead aggregate.
package lead

import (
	"time"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost:
		return true
	}
	return false
}

// Lead is an inbound sales contact, optionally tied to the quote that
// converted it.
type Lead struct {
	ID          types.ID
	Name        string
	Email       string
	Phone       string
	ServiceType pricing.ServiceType
	Message     string
	Source      string
	Status      Status
	QuoteID     *types.ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
