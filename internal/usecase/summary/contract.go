package summary

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// NoteFinder resolves the note to summarize.
type NoteFinder interface {
	Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error)
}

// Cache stores generated summaries keyed by note.
type Cache interface {
	Get(ctx context.Context, noteID string) (string, bool, error)
	Set(ctx context.Context, noteID, summary string) error
}

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}
