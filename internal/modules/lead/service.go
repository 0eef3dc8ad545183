// README: Lead service — intake, qualification, and conversion tracking.
package lead

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"valetquotes/internal/modules/pricing"
	"valetquotes/internal/types"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("lead not found")
)

type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

type CreateCommand struct {
	Name        string
	Email       string
	Phone       string
	ServiceType pricing.ServiceType
	Message     string
	Source      string
}

type UpdateCommand struct {
	LeadID  types.ID
	Name    *string
	Email   *string
	Phone   *string
	Message *string
	Status  *Status
	QuoteID *types.ID
}

// Create registers a new inbound lead. A lead needs a name, a way to reach
// them, and a recognized service interest.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Lead, error) {
	if cmd.Name == "" {
		return nil, ErrBadRequest
	}
	if cmd.Email == "" && cmd.Phone == "" {
		return nil, ErrBadRequest
	}
	if !cmd.ServiceType.Valid() {
		return nil, ErrBadRequest
	}

	now := s.now()
	l := &Lead{
		ID:          types.ID(uuid.NewString()),
		Name:        cmd.Name,
		Email:       cmd.Email,
		Phone:       cmd.Phone,
		ServiceType: cmd.ServiceType,
		Message:     cmd.Message,
		Source:      cmd.Source,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Lead, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Lead, int64, error) {
	return s.store.List(ctx, f)
}

// Update edits contact details or moves the lead through the funnel.
// Attaching a QuoteID marks which quote converted the lead.
func (s *Service) Update(ctx context.Context, cmd UpdateCommand) (*Lead, error) {
	l, err := s.store.Get(ctx, cmd.LeadID)
	if err != nil {
		return nil, err
	}
	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, ErrBadRequest
		}
		l.Name = *cmd.Name
	}
	if cmd.Email != nil {
		l.Email = *cmd.Email
	}
	if cmd.Phone != nil {
		l.Phone = *cmd.Phone
	}
	if cmd.Message != nil {
		l.Message = *cmd.Message
	}
	if cmd.Status != nil {
		if !cmd.Status.Valid() {
			return nil, ErrBadRequest
		}
		l.Status = *cmd.Status
	}
	if cmd.QuoteID != nil {
		l.QuoteID = cmd.QuoteID
	}
	l.UpdatedAt = s.now()
	if err := s.store.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id types.ID) error {
	return s.store.Delete(ctx, id)
}
