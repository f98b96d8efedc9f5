// Package summary produces short note summaries, cached per note.
package summary

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
)

const (
	defaultModel = "gpt-3.5-turbo"
	maxTokens    = 150
	systemPrompt = "You are a helpful assistant that generates concise summaries."
)

// Service returns a note's summary, generating and caching it on first use.
// Cache invalidation happens where notes change, not here.
type Service struct {
	notes     NoteFinder
	cache     Cache
	completer Completer
	logger    *zap.Logger
	model     string
}

// New creates a summary service.
func New(notes NoteFinder, cache Cache, completer Completer, logger *zap.Logger) *Service {
	return &Service{notes: notes, cache: cache, completer: completer, logger: logger, model: defaultModel}
}

// WithModel overrides the summarization model.
func (s *Service) WithModel(model string) *Service {
	if model != "" {
		s.model = model
	}
	return s
}

// Get returns the summary for one of the owner's notes.
func (s *Service) Get(ctx context.Context, ownerID, noteID string) (string, error) {
	n, err := s.notes.Get(ctx, ownerID, noteID)
	if err != nil {
		return "", fmt.Errorf("summarize note: %w", err)
	}

	if cached, ok, err := s.cache.Get(ctx, noteID); err != nil {
		s.logger.Warn("Summary cache read failed", zap.String("note_id", noteID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	text, err := s.completer.Complete(ctx, domain.CompletionRequest{
		Model:        s.model,
		SystemPrompt: systemPrompt,
		UserPrompt:   "Please summarize the following text:\n\n" + n.Content,
		MaxTokens:    maxTokens,
		Temperature:  0.5,
	})
	if err != nil {
		return "", fmt.Errorf("summarize note: %w", err)
	}

	if err := s.cache.Set(ctx, noteID, text); err != nil {
		s.logger.Warn("Summary cache write failed", zap.String("note_id", noteID), zap.Error(err))
	}
	return text, nil
}
