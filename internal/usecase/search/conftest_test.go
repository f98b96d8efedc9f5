package search

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

type mockRepo struct {
	searchSimilarFn func(ctx context.Context, ownerID, projectID string, vector []float32, k int) ([]domnote.Note, error)
	listByOwnerFn   func(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error)
}

func (m *mockRepo) SearchSimilar(ctx context.Context, ownerID, projectID string, vector []float32, k int) ([]domnote.Note, error) {
	return m.searchSimilarFn(ctx, ownerID, projectID, vector, k)
}

func (m *mockRepo) ListByOwner(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error) {
	return m.listByOwnerFn(ctx, ownerID, projectID)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

func fixedEmbedder(vec []float32) *mockEmbedder {
	return &mockEmbedder{
		embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{Embedding: vec}, nil
		},
	}
}
