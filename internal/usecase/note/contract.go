package note

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// Repository persists notes.
type Repository interface {
	Save(ctx context.Context, n *domnote.Note) error
	Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error)
	ListByOwner(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error)
	Delete(ctx context.Context, ownerID, noteID string) error
}

// Embedder vectorizes note text for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SummaryCache drops cached summaries when their note changes.
type SummaryCache interface {
	Delete(ctx context.Context, noteID string) error
}

// Searcher retrieves notes relevant to a query.
type Searcher interface {
	FindSimilar(ctx context.Context, ownerID, query string, limit int, threshold float64) []domnote.Note
}

// Answerer produces an answer grounded in the given notes.
type Answerer interface {
	Generate(ctx context.Context, query string, notes []domnote.Note) (string, error)
}
