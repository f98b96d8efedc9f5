// Package search finds notes relevant to a query via vector similarity.
package search

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	domnote "github.com/notably-app/notably/internal/domain/note"
	logpkg "github.com/notably-app/notably/internal/logger"
)

// Defaults preserved from the original retrieval tuning.
const (
	DefaultLimit     = 5
	MatchThreshold   = 0.78 // global search: relevance over recall
	ProjectThreshold = 0.5  // project scope is already narrow, so recall wins
)

// Service runs similarity search over the owner's notes.
type Service struct {
	repo   Repository
	embed  Embedder
	logger *zap.Logger

	defaultLimit     int
	matchThreshold   float64
	projectThreshold float64
}

// New creates a search service with the default tuning.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:             repo,
		embed:            embed,
		logger:           logger,
		defaultLimit:     DefaultLimit,
		matchThreshold:   MatchThreshold,
		projectThreshold: ProjectThreshold,
	}
}

// WithTuning overrides the retrieval defaults. Zero values keep the
// current setting.
func (s *Service) WithTuning(limit int, match, project float64) *Service {
	if limit > 0 {
		s.defaultLimit = limit
	}
	if match > 0 {
		s.matchThreshold = match
	}
	if project > 0 {
		s.projectThreshold = project
	}
	return s
}

// FindSimilar returns the owner's notes most similar to the query, capped at
// limit, dropping hits below threshold. Zero limit/threshold pick the
// defaults. Remote failure degrades to an empty result, never an error:
// search is best-effort by contract.
func (s *Service) FindSimilar(
	ctx context.Context, ownerID, query string, limit int, threshold float64,
) []domnote.Note {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if threshold <= 0 {
		threshold = s.matchThreshold
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Query embedding failed, returning no results", zap.Error(err))
		return nil
	}

	hits, err := s.repo.SearchSimilar(ctx, ownerID, "", emb.Embedding, limit)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Vector search failed, returning no results", zap.Error(err))
		return nil
	}

	// The index already applies the KNN cutoff; re-filter anyway so a
	// loose backend cannot hand back weak matches.
	results := make([]domnote.Note, 0, len(hits))
	for _, n := range hits {
		if n.Similarity >= threshold {
			results = append(results, n)
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// FindProjectNotes returns notes of one project similar to the query.
// Vector failure falls back to the naive keyword heuristic over the
// project's notes instead of returning nothing.
func (s *Service) FindProjectNotes(
	ctx context.Context, ownerID, projectID, query string, limit int,
) []domnote.Note {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Query embedding failed, falling back to keyword search", zap.Error(err))
		return s.keywordFallback(ctx, ownerID, projectID, query, limit)
	}

	hits, err := s.repo.SearchSimilar(ctx, ownerID, projectID, emb.Embedding, limit)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Vector search failed, falling back to keyword search", zap.Error(err))
		return s.keywordFallback(ctx, ownerID, projectID, query, limit)
	}

	results := make([]domnote.Note, 0, len(hits))
	for _, n := range hits {
		if n.Similarity >= s.projectThreshold {
			results = append(results, n)
		}
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// keywordFallback scores notes by how many query terms (len>2, lowercase)
// appear in title+content and ranks by score descending, stable. Zero-score
// notes stay in: a narrow project listing beats an empty reply.
func (s *Service) keywordFallback(
	ctx context.Context, ownerID, projectID, query string, limit int,
) []domnote.Note {
	notes, err := s.repo.ListByOwner(ctx, ownerID, projectID)
	if err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("Keyword fallback listing failed", zap.Error(err))
		return nil
	}
	if len(notes) == 0 {
		return nil
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		if len(notes) > limit {
			notes = notes[:limit]
		}
		return notes
	}

	scores := make(map[string]int, len(notes))
	for _, n := range notes {
		scores[n.ID] = keywordScore(n, terms)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return scores[notes[i].ID] > scores[notes[j].ID]
	})
	if len(notes) > limit {
		notes = notes[:limit]
	}
	return notes
}

func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) > 2 {
			terms = append(terms, w)
		}
	}
	return terms
}

func keywordScore(n domnote.Note, terms []string) int {
	haystack := strings.ToLower(n.Title + " " + n.Content)
	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
	}
	return score
}
