package inbox

import (
	"context"
	"fmt"
	"slices"
)

// Backend lists contact-form messages.
type Backend interface {
	ListMessages(ctx context.Context) ([]Message, error)
}

// Service gives read-only access to the inbox.
type Service struct {
	backend Backend
}

// NewService creates a new inbox service.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// List returns messages newest first.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	msgs, err := s.backend.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	slices.SortStableFunc(msgs, func(a, b Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return msgs, nil
}

// Get returns the message with the given ID. The API has no single-message
// endpoint, so it is looked up in the listed set.
func (s *Service) Get(ctx context.Context, id int) (*Message, error) {
	msgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(msgs, func(m Message) bool { return m.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("message %d: %w", id, ErrMessageNotFound)
	}
	return &msgs[i], nil
}
