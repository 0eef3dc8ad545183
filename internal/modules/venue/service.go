// README: Venue service — serviced-location management with optional geocoding.
package venue

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("venue not found")
)

// Geocoder resolves an address to coordinates and a place ID. A nil geocoder
// leaves venues without coordinates, which is fine: pricing only needs the
// text-derived zone.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*types.Point, string, error)
}

type Service struct {
	store    *Store
	geocoder Geocoder
	now      func() time.Time
}

func NewService(store *Store, geocoder Geocoder) *Service {
	return &Service{store: store, geocoder: geocoder, now: time.Now}
}

type CreateCommand struct {
	Name    string
	Address string
	Notes   string
}

type UpdateCommand struct {
	VenueID types.ID
	Name    *string
	Address *string
	Active  *bool
	Notes   *string
}

// Create registers a venue, classifies its pricing zone from the address,
// and geocodes it when a geocoder is wired.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Venue, error) {
	if cmd.Name == "" || cmd.Address == "" {
		return nil, ErrBadRequest
	}

	now := s.now()
	v := &Venue{
		ID:        types.ID(uuid.NewString()),
		Name:      cmd.Name,
		Address:   cmd.Address,
		Zone:      pricing.Classify(cmd.Address),
		Active:    true,
		Notes:     cmd.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.geocode(ctx, v)

	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Venue, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Venue, int64, error) {
	return s.store.List(ctx, f)
}

// Update edits a venue. Changing the address reclassifies the zone and
// re-geocodes.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Venue, error) {
	v, err := s.store.Get(ctx, cmd.VenueID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, ErrBadRequest
		}
		v.Name = *cmd.Name
	}
	if cmd.Address != nil {
		if *cmd.Address == "" {
			return nil, ErrBadRequest
		}
		v.Address = *cmd.Address
		v.Zone = pricing.Classify(v.Address)
		v.Coords = nil
		v.PlaceID = ""
		s.geocode(ctx, v)
	}
	if cmd.Active != nil {
		v.Active = *cmd.Active
	}
	if cmd.Notes != nil {
		v.Notes = *cmd.Notes
	}
	v.UpdatedAt = s.now()
	if err := s.store.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	return s.store.Delete(ctx, id)
}

// geocode enriches the venue in place. Geocoding failures only cost the
// coordinates, never the venue.
func (s *Service) geocode(ctx context.Context, v *Venue) {
	if s.geocoder == nil {
		return
	}
	coords, placeID, err := s.geocoder.Geocode(ctx, v.Address)
	if err != nil {
		log.Printf("venue: geocode %q: %v", v.Address, err)
		return
	}
	v.Coords = coords
	v.PlaceID = placeID
}
