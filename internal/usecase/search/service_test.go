package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

func TestFindSimilar_FiltersBelowThreshold(t *testing.T) {
	repo := &mockRepo{
		searchSimilarFn: func(_ context.Context, ownerID, projectID string, _ []float32, k int) ([]domnote.Note, error) {
			if ownerID != "user-1" {
				t.Fatalf("ownerID = %q", ownerID)
			}
			if projectID != "" {
				t.Fatalf("projectID = %q, want empty for global search", projectID)
			}
			if k != DefaultLimit {
				t.Fatalf("k = %d, want %d", k, DefaultLimit)
			}
			return []domnote.Note{
				{ID: "n1", Similarity: 0.91},
				{ID: "n2", Similarity: 0.78},
				{ID: "n3", Similarity: 0.60},
			}, nil
		},
	}

	svc := New(repo, fixedEmbedder([]float32{0.1, 0.2}), zap.NewNop())
	got := svc.FindSimilar(context.Background(), "user-1", "roadmap", 0, 0)

	if len(got) != 2 {
		t.Fatalf("got %d notes, want 2", len(got))
	}
	if got[0].ID != "n1" || got[1].ID != "n2" {
		t.Errorf("ids = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestFindSimilar_EmbedFailureReturnsEmpty(t *testing.T) {
	embed := &mockEmbedder{
		embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, errors.New("provider down")
		},
	}
	repo := &mockRepo{
		searchSimilarFn: func(context.Context, string, string, []float32, int) ([]domnote.Note, error) {
			t.Fatal("search must not run when embedding fails")
			return nil, nil
		},
	}

	svc := New(repo, embed, zap.NewNop())
	if got := svc.FindSimilar(context.Background(), "user-1", "q", 5, 0.78); len(got) != 0 {
		t.Errorf("got %d notes, want 0", len(got))
	}
}

func TestFindSimilar_SearchFailureReturnsEmpty(t *testing.T) {
	repo := &mockRepo{
		searchSimilarFn: func(context.Context, string, string, []float32, int) ([]domnote.Note, error) {
			return nil, errors.New("index gone")
		},
	}

	svc := New(repo, fixedEmbedder([]float32{1}), zap.NewNop())
	if got := svc.FindSimilar(context.Background(), "user-1", "q", 5, 0.78); len(got) != 0 {
		t.Errorf("got %d notes, want 0", len(got))
	}
}

func TestFindProjectNotes_UsesLowerThreshold(t *testing.T) {
	repo := &mockRepo{
		searchSimilarFn: func(_ context.Context, _, projectID string, _ []float32, _ int) ([]domnote.Note, error) {
			if projectID != "proj-1" {
				t.Fatalf("projectID = %q", projectID)
			}
			return []domnote.Note{
				{ID: "n1", Similarity: 0.62},
				{ID: "n2", Similarity: 0.45},
			}, nil
		},
	}

	svc := New(repo, fixedEmbedder([]float32{1}), zap.NewNop())
	got := svc.FindProjectNotes(context.Background(), "user-1", "proj-1", "q", 5)

	if len(got) != 1 || got[0].ID != "n1" {
		t.Fatalf("got %v, want only n1", got)
	}
}

func TestFindProjectNotes_KeywordFallback(t *testing.T) {
	notes := []domnote.Note{
		{ID: "n1", Title: "Groceries", Content: "milk and eggs"},
		{ID: "n2", Title: "Launch plan", Content: "the launch checklist for the beta"},
		{ID: "n3", Title: "Beta launch retro", Content: "what went well"},
	}
	repo := &mockRepo{
		searchSimilarFn: func(context.Context, string, string, []float32, int) ([]domnote.Note, error) {
			return nil, errors.New("index gone")
		},
		listByOwnerFn: func(_ context.Context, ownerID, projectID string) ([]domnote.Note, error) {
			if ownerID != "user-1" || projectID != "proj-1" {
				t.Fatalf("listed %q/%q", ownerID, projectID)
			}
			return notes, nil
		},
	}

	svc := New(repo, fixedEmbedder([]float32{1}), zap.NewNop())
	got := svc.FindProjectNotes(context.Background(), "user-1", "proj-1", "beta launch", 2)

	if len(got) != 2 {
		t.Fatalf("got %d notes, want 2", len(got))
	}
	// n2 and n3 both match "launch", n3 also matches "beta"... both match
	// both terms, so stable order keeps n2 first.
	if got[0].ID != "n2" || got[1].ID != "n3" {
		t.Errorf("ids = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestFindProjectNotes_FallbackKeepsZeroScores(t *testing.T) {
	repo := &mockRepo{
		searchSimilarFn: func(context.Context, string, string, []float32, int) ([]domnote.Note, error) {
			return nil, errors.New("index gone")
		},
		listByOwnerFn: func(context.Context, string, string) ([]domnote.Note, error) {
			return []domnote.Note{{ID: "n1", Title: "Unrelated", Content: "nothing here"}}, nil
		},
	}

	svc := New(repo, fixedEmbedder([]float32{1}), zap.NewNop())
	got := svc.FindProjectNotes(context.Background(), "user-1", "proj-1", "quarterly figures", 5)

	if len(got) != 1 || got[0].ID != "n1" {
		t.Fatalf("got %v, want the unmatched note kept", got)
	}
}

func TestQueryTerms_DropsShortWords(t *testing.T) {
	got := queryTerms("Is My Cat OK today")
	want := []string{"cat", "today"}
	if len(got) != len(want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("terms[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
