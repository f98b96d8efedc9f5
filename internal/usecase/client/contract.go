package client

import (
	"context"

	domclient "github.com/notably-app/notably/internal/domain/client"
)

// Repository persists clients.
type Repository interface {
	Save(ctx context.Context, c *domclient.Client) error
	Get(ctx context.Context, ownerID, clientID string) (domclient.Client, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domclient.Client, error)
	Delete(ctx context.Context, ownerID, clientID string) error
}
