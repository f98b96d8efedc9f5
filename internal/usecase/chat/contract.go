package chat

import (
	"context"

	domchat "github.com/notably-app/notably/internal/domain/chat"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// Repository persists sessions and their messages.
type Repository interface {
	SaveSession(ctx context.Context, s *domchat.Session) error
	GetSession(ctx context.Context, ownerID, sessionID string) (domchat.Session, error)
	ListSessions(ctx context.Context, ownerID string) ([]domchat.Session, error)
	SaveMessage(ctx context.Context, m *domchat.Message) error
	ListMessages(ctx context.Context, ownerID, sessionID string) ([]domchat.Message, error)
}

// NoteFinder resolves a note mentioned in a question.
type NoteFinder interface {
	Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error)
}

// Searcher retrieves the notes relevant to a question.
type Searcher interface {
	FindSimilar(ctx context.Context, ownerID, query string, limit int, threshold float64) []domnote.Note
}

// Answerer produces an answer grounded in the given notes.
type Answerer interface {
	Generate(ctx context.Context, query string, notes []domnote.Note) (string, error)
}
