// Package client manages the people and companies projects are billed to.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notably-app/notably/internal/domain"
	domclient "github.com/notably-app/notably/internal/domain/client"
)

// Input carries the writable client fields.
type Input struct {
	Name    string
	Company string
	Email   string
	Phone   string
}

// Service manages clients.
type Service struct {
	repo Repository
}

// New creates a client service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new client.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (domclient.Client, error) {
	if in.Name == "" {
		return domclient.Client{}, fmt.Errorf("create client: %w: name is required", domain.ErrInvalidArgument)
	}
	c := domclient.Client{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.Save(ctx, &c); err != nil {
		return domclient.Client{}, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// Get returns one of the owner's clients.
func (s *Service) Get(ctx context.Context, ownerID, clientID string) (domclient.Client, error) {
	c, err := s.repo.Get(ctx, ownerID, clientID)
	if err != nil {
		return domclient.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List returns the owner's clients, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domclient.Client, error) {
	clients, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// Update rewrites a client's fields.
func (s *Service) Update(ctx context.Context, ownerID, clientID string, in Input) (domclient.Client, error) {
	c, err := s.repo.Get(ctx, ownerID, clientID)
	if err != nil {
		return domclient.Client{}, fmt.Errorf("update client: %w", err)
	}
	if in.Name == "" {
		return domclient.Client{}, fmt.Errorf("update client: %w: name is required", domain.ErrInvalidArgument)
	}

	c.Name = in.Name
	c.Company = in.Company
	c.Email = in.Email
	c.Phone = in.Phone

	if err := s.repo.Save(ctx, &c); err != nil {
		return domclient.Client{}, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete removes a client. Projects keep their client reference; callers
// render a missing client as unassigned.
func (s *Service) Delete(ctx context.Context, ownerID, clientID string) error {
	if err := s.repo.Delete(ctx, ownerID, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
