// README: Quote service — creation, lifecycle transitions, and outcome recording.
package quote

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"valetquotes/internal/modules/history"
	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("quote not found")
	ErrConflict     = errors.New("quote state conflict")
	ErrInvalidState = errors.New("invalid state transition")
)

// Pricer produces the priced quote for a request. The pricing service
// satisfies this.
type Pricer interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

// OutcomeRecorder receives finished quote outcomes. The history service
// satisfies this; a nil recorder disables outcome capture.
type OutcomeRecorder interface {
	Record(ctx context.Context, rec *history.Record) error
}

type Service struct {
	store    *Store
	pricer   Pricer
	outcomes OutcomeRecorder
	now      func() time.Time
}

func NewService(store *Store, pricer Pricer, outcomes OutcomeRecorder) *Service {
	return &Service{store: store, pricer: pricer, outcomes: outcomes, now: time.Now}
}

// WithClock pins timestamps. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type CreateCommand struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Request       pricing.Request
	EventDate     *time.Time
	Notes         string
}

type UpdateCommand struct {
	QuoteID       types.ID
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	EventDate     *time.Time
	Notes         *string
}

type DecideCommand struct {
	QuoteID types.ID
	// FinalPrice overrides the quoted total in the recorded outcome; nil
	// means the deal closed at the quoted price.
	FinalPrice *int64
	// Satisfaction is an optional 1-5 customer rating attached to the
	// recorded outcome.
	Satisfaction *float64
}

// Create prices the request and persists a pending quote.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Quote, error) {
	if cmd.CustomerName == "" {
		return nil, ErrBadRequest
	}
	if cmd.CustomerEmail == "" && cmd.CustomerPhone == "" {
		return nil, ErrBadRequest
	}

	priced, err := s.pricer.Quote(ctx, cmd.Request)
	if err != nil {
		if errors.Is(err, pricing.ErrUnsupportedServiceType) ||
			errors.Is(err, pricing.ErrUnsupportedVehicleCategory) ||
			errors.Is(err, pricing.ErrUnsupportedDurationBand) {
			return nil, ErrBadRequest
		}
		return nil, err
	}

	now := s.now()
	q := &Quote{
		ID:              types.ID(uuid.NewString()),
		CustomerName:    cmd.CustomerName,
		CustomerEmail:   cmd.CustomerEmail,
		CustomerPhone:   cmd.CustomerPhone,
		ServiceType:     cmd.Request.ServiceType,
		VehicleCategory: cmd.Request.VehicleCategory,
		LocationText:    cmd.Request.LocationText,
		DurationBand:    cmd.Request.DurationBand,
		EventDate:       cmd.EventDate,
		Notes:           cmd.Notes,

		BasePrice:              priced.BasePrice,
		AdditionalFees:         priced.AdditionalFees,
		Total:                  priced.Total,
		Factors:                priced.Factors,
		Confidence:             priced.Confidence,
		ExpectedConversionRate: priced.ExpectedConversionRate,
		Strategy:               priced.Strategy,

		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Quote, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Quote, int64, error) {
	return s.store.List(ctx, f)
}

// Update changes customer contact details and notes on any non-deleted
// quote. Pricing and status are untouchable through this path.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Quote, error) {
	q, err := s.store.Get(ctx, cmd.QuoteID)
	if err != nil {
		return nil, err
	}
	if cmd.CustomerName != nil {
		if *cmd.CustomerName == "" {
			return nil, ErrBadRequest
		}
		q.CustomerName = *cmd.CustomerName
	}
	if cmd.CustomerEmail != nil {
		q.CustomerEmail = *cmd.CustomerEmail
	}
	if cmd.CustomerPhone != nil {
		q.CustomerPhone = *cmd.CustomerPhone
	}
	if cmd.EventDate != nil {
		q.EventDate = cmd.EventDate
	}
	if cmd.Notes != nil {
		q.Notes = *cmd.Notes
	}
	q.UpdatedAt = s.now()
	if err := s.store.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Approve marks a pending quote accepted and records the outcome.
func (s *Service) Approve(ctx context.Context, cmd DecideCommand) error {
	return s.decide(ctx, cmd, StatusApproved, true)
}

// Reject marks a pending quote declined and records the outcome at the
// quoted price.
func (s *Service) Reject(ctx context.Context, cmd DecideCommand) error {
	return s.decide(ctx, cmd, StatusRejected, false)
}

// Cancel withdraws a pending quote without recording an outcome: a cancelled
// quote says nothing about price acceptance.
func (s *Service) Cancel(ctx context.Context, id types.ID) error {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(q.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, q.ID, q.Status, StatusCancelled, q.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (s *Service) decide(ctx context.Context, cmd DecideCommand, to Status, accepted bool) error {
	q, err := s.store.Get(ctx, cmd.QuoteID)
	if err != nil {
		return err
	}
	if !CanTransition(q.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, q.ID, q.Status, to, q.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	if s.outcomes == nil {
		return nil
	}
	finalPrice := q.Total
	if cmd.FinalPrice != nil {
		finalPrice = *cmd.FinalPrice
	}
	rec := &history.Record{
		ServiceType:     q.ServiceType,
		VehicleCategory: q.VehicleCategory,
		LocationText:    q.LocationText,
		DurationBand:    q.DurationBand,
		QuotedPrice:     q.Total,
		FinalPrice:      finalPrice,
		Accepted:        accepted,
		// Time from quote creation to the operator's decision.
		ConversionSeconds: int64(s.now().Sub(q.CreatedAt).Seconds()),
		Satisfaction:      cmd.Satisfaction,
	}
	if err := s.outcomes.Record(ctx, rec); err != nil {
		// The decision already committed; losing one history record must
		// not fail the request.
		log.Printf("quote: record outcome for %s: %v", q.ID, err)
	}
	return nil
}

// Duplicate reprices an existing quote's inputs into a fresh pending quote.
// Repricing reflects current demand rather than copying stale numbers.
func (s *Service) Duplicate(ctx context.Context, id types.ID) (*Quote, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, CreateCommand{
		CustomerName:  src.CustomerName,
		CustomerEmail: src.CustomerEmail,
		CustomerPhone: src.CustomerPhone,
		Request: pricing.Request{
			ServiceType:     src.ServiceType,
			VehicleCategory: src.VehicleCategory,
			LocationText:    src.LocationText,
			DurationBand:    src.DurationBand,
		},
		EventDate: src.EventDate,
		Notes:     src.Notes,
	})
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx)
}
