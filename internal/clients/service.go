package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Input carries client fields supplied by the caller.
type Input struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	GSTIN     string `json:"gstin" validate:"omitempty,len=15"`
	StateCode string `json:"stateCode" validate:"omitempty,len=2,numeric"`
	Address   string `json:"address" validate:"max=500"`
}

// Service wraps the repository with input normalisation.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all clients sorted by name.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.repo.List(ctx)
}

// Get returns one client.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Client, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new client.
func (s *Service) Create(ctx context.Context, in Input) (Client, error) {
	c := Client{ID: uuid.New()}
	applyInput(&c, in)
	return s.repo.Create(ctx, c)
}

// Update replaces a client's details.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Client, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Client{}, err
	}
	applyInput(&c, in)
	return s.repo.Update(ctx, c)
}

// Delete removes a client. The database cascades ledgers and vouchers, so the
// caller is expected to have confirmed the action.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return nil
}

func applyInput(c *Client, in Input) {
	c.Name = strings.TrimSpace(in.Name)
	c.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	c.StateCode = strings.TrimSpace(in.StateCode)
	c.Address = strings.TrimSpace(in.Address)
}
