package note

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

func noopSummaries() *mockSummaries {
	return &mockSummaries{deleteFn: func(context.Context, string) error { return nil }}
}

func TestCreate_EmbedsTitleAndContent(t *testing.T) {
	var saved domnote.Note
	repo := &mockRepo{saveFn: func(_ context.Context, n *domnote.Note) error {
		saved = *n
		return nil
	}}
	embed := &mockEmbedder{embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
		if text != "Groceries\n\nmilk and eggs" {
			t.Fatalf("embedded text = %q", text)
		}
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
	}}

	svc := New(repo, embed, noopSummaries(), nil, nil, zap.NewNop())
	n, err := svc.Create(context.Background(), "user-1", Input{Title: "Groceries", Content: "milk and eggs"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if n.ID == "" || saved.ID != n.ID {
		t.Errorf("id not assigned or not saved: %q vs %q", n.ID, saved.ID)
	}
	if saved.OwnerID != "user-1" {
		t.Errorf("owner = %q", saved.OwnerID)
	}
	if len(saved.Vector) != 2 {
		t.Errorf("vector = %v", saved.Vector)
	}
	if saved.CreatedAt == 0 || saved.CreatedAt != saved.UpdatedAt {
		t.Errorf("timestamps = %d/%d", saved.CreatedAt, saved.UpdatedAt)
	}
}

func TestCreate_EmbedFailureAborts(t *testing.T) {
	repo := &mockRepo{saveFn: func(context.Context, *domnote.Note) error {
		t.Fatal("save must not run when embedding fails")
		return nil
	}}
	embed := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{}, errors.New("provider down")
	}}

	svc := New(repo, embed, noopSummaries(), nil, nil, zap.NewNop())
	if _, err := svc.Create(context.Background(), "user-1", Input{Title: "t"}); err == nil {
		t.Fatal("Create() error = nil, want error")
	}
}

func TestCreate_RejectsMissingTitle(t *testing.T) {
	svc := New(nil, nil, noopSummaries(), nil, nil, zap.NewNop())
	if _, err := svc.Create(context.Background(), "user-1", Input{Content: "body"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestUpdate_ReembedsAndEvictsSummary(t *testing.T) {
	existing := domnote.Note{
		ID: "n1", OwnerID: "user-1", Title: "Old", Content: "old body",
		Vector: []float32{9}, CreatedAt: 100, UpdatedAt: 100,
	}
	var saved domnote.Note
	repo := &mockRepo{
		getFn:  func(context.Context, string, string) (domnote.Note, error) { return existing, nil },
		saveFn: func(_ context.Context, n *domnote.Note) error { saved = *n; return nil },
	}
	embed := &mockEmbedder{embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
		return domain.EmbeddingResult{Embedding: []float32{1, 2, 3}}, nil
	}}
	evicted := ""
	summaries := &mockSummaries{deleteFn: func(_ context.Context, noteID string) error {
		evicted = noteID
		return nil
	}}

	svc := New(repo, embed, summaries, nil, nil, zap.NewNop())
	n, err := svc.Update(context.Background(), "user-1", "n1", Input{Title: "New", Content: "new body"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if saved.Title != "New" || len(saved.Vector) != 3 {
		t.Errorf("saved = %+v", saved)
	}
	if saved.CreatedAt != 100 {
		t.Errorf("CreatedAt = %d, want preserved 100", saved.CreatedAt)
	}
	if n.UpdatedAt == 100 {
		t.Error("UpdatedAt not advanced")
	}
	if evicted != "n1" {
		t.Errorf("evicted summary = %q", evicted)
	}
}

func TestDelete_EvictsSummary(t *testing.T) {
	deleted, evicted := "", ""
	repo := &mockRepo{deleteFn: func(_ context.Context, _, noteID string) error {
		deleted = noteID
		return nil
	}}
	summaries := &mockSummaries{deleteFn: func(_ context.Context, noteID string) error {
		evicted = noteID
		return nil
	}}

	svc := New(repo, nil, summaries, nil, nil, zap.NewNop())
	if err := svc.Delete(context.Background(), "user-1", "n1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted != "n1" || evicted != "n1" {
		t.Errorf("deleted = %q, evicted = %q", deleted, evicted)
	}
}

func TestList_FiltersByFolder(t *testing.T) {
	repo := &mockRepo{listByOwnerFn: func(context.Context, string, string) ([]domnote.Note, error) {
		return []domnote.Note{
			{ID: "n1", FolderID: "f1"},
			{ID: "n2", FolderID: "f2"},
			{ID: "n3", FolderID: "f1"},
		}, nil
	}}

	svc := New(repo, nil, noopSummaries(), nil, nil, zap.NewNop())
	got, err := svc.List(context.Background(), "user-1", "f1", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "n1" || got[1].ID != "n3" {
		t.Fatalf("got %v", got)
	}
}

func TestSearch_CombinesNotesAndAnswer(t *testing.T) {
	searcher := &mockSearcher{findFn: func(_ context.Context, ownerID, query string, limit int, threshold float64) []domnote.Note {
		if ownerID != "user-1" || query != "plans" {
			t.Fatalf("searched %q/%q", ownerID, query)
		}
		return []domnote.Note{{ID: "n1", Similarity: 0.88}}
	}}
	answerer := &mockAnswerer{generateFn: func(_ context.Context, _ string, notes []domnote.Note) (string, error) {
		if len(notes) != 1 {
			t.Fatalf("answer context = %v", notes)
		}
		return "Here is the plan.", nil
	}}

	svc := New(nil, nil, noopSummaries(), searcher, answerer, zap.NewNop())
	got, err := svc.Search(context.Background(), "user-1", "plans", 0, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got.Answer != "Here is the plan." || len(got.Notes) != 1 {
		t.Errorf("result = %+v", got)
	}
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	svc := New(nil, nil, noopSummaries(), nil, nil, zap.NewNop())
	if _, err := svc.Search(context.Background(), "user-1", "", 0, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}
