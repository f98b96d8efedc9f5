package answer

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
)

// Completer produces chat completions.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// FileContext is an uploaded file reduced to its extracted text.
type FileContext struct {
	Name    string
	Content string
}
