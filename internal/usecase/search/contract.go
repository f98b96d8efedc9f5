package search

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// Repository is the note access the search service needs.
type Repository interface {
	SearchSimilar(ctx context.Context, ownerID, projectID string, vector []float32, k int) ([]domnote.Note, error)
	ListByOwner(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
