package note

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

type mockRepo struct {
	saveFn        func(ctx context.Context, n *domnote.Note) error
	getFn         func(ctx context.Context, ownerID, noteID string) (domnote.Note, error)
	listByOwnerFn func(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error)
	deleteFn      func(ctx context.Context, ownerID, noteID string) error
}

func (m *mockRepo) Save(ctx context.Context, n *domnote.Note) error { return m.saveFn(ctx, n) }

func (m *mockRepo) Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error) {
	return m.getFn(ctx, ownerID, noteID)
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error) {
	return m.listByOwnerFn(ctx, ownerID, projectID)
}

func (m *mockRepo) Delete(ctx context.Context, ownerID, noteID string) error {
	return m.deleteFn(ctx, ownerID, noteID)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

type mockSummaries struct {
	deleteFn func(ctx context.Context, noteID string) error
}

func (m *mockSummaries) Delete(ctx context.Context, noteID string) error {
	return m.deleteFn(ctx, noteID)
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
