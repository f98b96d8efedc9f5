package chat

import (
	"context"
	"sync"

	"github.com/notably-app/notably/internal/domain"
	domchat "github.com/notably-app/notably/internal/domain/chat"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// memRepo is an in-memory Repository good enough for orchestration tests.
type memRepo struct {
	mu       sync.Mutex
	sessions map[string]domchat.Session
	messages []domchat.Message

	saveSessionErr error
	saveMessageErr error
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[string]domchat.Session)}
}

func (r *memRepo) SaveSession(_ context.Context, s *domchat.Session) error {
	if r.saveSessionErr != nil {
		return r.saveSessionErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *memRepo) GetSession(_ context.Context, ownerID, sessionID string) (domchat.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok || s.OwnerID != ownerID {
		return domchat.Session{}, domain.ErrSessionNotFound
	}
	return s, nil
}

func (r *memRepo) ListSessions(_ context.Context, ownerID string) ([]domchat.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domchat.Session
	for _, s := range r.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memRepo) SaveMessage(_ context.Context, m *domchat.Message) error {
	if r.saveMessageErr != nil {
		return r.saveMessageErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memRepo) ListMessages(_ context.Context, ownerID, sessionID string) ([]domchat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domchat.Message
	for _, m := range r.messages {
		if m.OwnerID == ownerID && m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

type mockNotes struct {
	getFn func(ctx context.Context, ownerID, noteID string) (domnote.Note, error)
}

func (m *mockNotes) Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error) {
	return m.getFn(ctx, ownerID, noteID)
}

type mockSearcher struct {
	findFn func(ctx context.Context, ownerID, query string, limit int, threshold float64) []domnote.Note
}

func (m *mockSearcher) FindSimilar(ctx context.Context, ownerID, query string, limit int, threshold float64) []domnote.Note {
	return m.findFn(ctx, ownerID, query, limit, threshold)
}

type mockAnswerer struct {
	generateFn func(ctx context.Context, query string, notes []domnote.Note) (string, error)
}

func (m *mockAnswerer) Generate(ctx context.Context, query string, notes []domnote.Note) (string, error) {
	return m.generateFn(ctx, query, notes)
}
