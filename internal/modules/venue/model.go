// README: Serviced venue aggregate.
package venue

import (
	"time"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

// Venue is a location the operator services regularly. The zone is derived
// from the address at creation and drives the location premium shown in the
// operator portal.
type Venue struct {
	ID        types.ID
	Name      string
	Address   string
	Zone      pricing.LocationCategory
	Coords    *types.Point
	PlaceID   string
	Active    bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
