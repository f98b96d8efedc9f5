// Package note implements note CRUD with embedding upkeep and search.
package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// Input carries the writable note fields.
type Input struct {
	Title     string
	Content   string
	FolderID  string
	ProjectID string
	ClientID  string
}

// SearchResult is a semantic search response: the matched notes and an
// answer synthesized from them. Answer is empty when nothing matched.
type SearchResult struct {
	Notes  []domnote.Note
	Answer string
}

// Service manages notes. Every write re-embeds the note text first, so a
// stored note always has a vector consistent with its content.
type Service struct {
	repo      Repository
	embed     Embedder
	summaries SummaryCache
	searcher  Searcher
	answerer  Answerer
	logger    *zap.Logger
}

// New creates a note service.
func New(
	repo Repository, embed Embedder, summaries SummaryCache,
	searcher Searcher, answerer Answerer, logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		embed:     embed,
		summaries: summaries,
		searcher:  searcher,
		answerer:  answerer,
		logger:    logger,
	}
}

// Create stores a new note. Embedding failure aborts the write: a note
// without a vector would be invisible to search.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (domnote.Note, error) {
	now := time.Now().UnixMilli()
	n := domnote.Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     in.Title,
		Content:   in.Content,
		FolderID:  in.FolderID,
		ProjectID: in.ProjectID,
		ClientID:  in.ClientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return domnote.Note{}, err
	}

	emb, err := s.embed.Embed(ctx, embeddingText(n))
	if err != nil {
		return domnote.Note{}, fmt.Errorf("embed note: %w", err)
	}
	n.Vector = emb.Embedding

	if err := s.repo.Save(ctx, &n); err != nil {
		return domnote.Note{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Get returns one of the owner's notes.
func (s *Service) Get(ctx context.Context, ownerID, noteID string) (domnote.Note, error) {
	n, err := s.repo.Get(ctx, ownerID, noteID)
	if err != nil {
		return domnote.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns the owner's notes, newest first, optionally narrowed to one
// folder or project.
func (s *Service) List(ctx context.Context, ownerID, folderID, projectID string) ([]domnote.Note, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if folderID == "" {
		return notes, nil
	}
	filtered := make([]domnote.Note, 0, len(notes))
	for _, n := range notes {
		if n.FolderID == folderID {
			filtered = append(filtered, n)
		}
	}
	return filtered, nil
}

// Update rewrites a note's fields, re-embeds it, and drops its cached
// summary.
func (s *Service) Update(ctx context.Context, ownerID, noteID string, in Input) (domnote.Note, error) {
	n, err := s.repo.Get(ctx, ownerID, noteID)
	if err != nil {
		return domnote.Note{}, fmt.Errorf("update note: %w", err)
	}

	n.Title = in.Title
	n.Content = in.Content
	n.FolderID = in.FolderID
	n.ProjectID = in.ProjectID
	n.ClientID = in.ClientID
	n.UpdatedAt = time.Now().UnixMilli()
	if err := n.Validate(); err != nil {
		return domnote.Note{}, err
	}

	emb, err := s.embed.Embed(ctx, embeddingText(n))
	if err != nil {
		return domnote.Note{}, fmt.Errorf("embed note: %w", err)
	}
	n.Vector = emb.Embedding

	if err := s.repo.Save(ctx, &n); err != nil {
		return domnote.Note{}, fmt.Errorf("update note: %w", err)
	}
	if err := s.summaries.Delete(ctx, noteID); err != nil {
		s.logger.Warn("Stale summary eviction failed", zap.String("note_id", noteID), zap.Error(err))
	}
	return n, nil
}

// Delete removes a note and its cached summary.
func (s *Service) Delete(ctx context.Context, ownerID, noteID string) error {
	if err := s.repo.Delete(ctx, ownerID, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if err := s.summaries.Delete(ctx, noteID); err != nil {
		s.logger.Warn("Summary eviction failed", zap.String("note_id", noteID), zap.Error(err))
	}
	return nil
}

// Search finds the notes relevant to the query and answers it from them.
func (s *Service) Search(ctx context.Context, ownerID, query string, limit int, threshold float64) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, fmt.Errorf("search notes: %w: empty query", domain.ErrInvalidArgument)
	}

	notes := s.searcher.FindSimilar(ctx, ownerID, query, limit, threshold)
	answer, err := s.answerer.Generate(ctx, query, notes)
	if err != nil {
		s.logger.Warn("Search answer generation failed", zap.Error(err))
		answer = ""
	}
	return SearchResult{Notes: notes, Answer: answer}, nil
}

func embeddingText(n domnote.Note) string {
	return n.Title + "\n\n" + n.Content
}
