// Package summary caches note summaries in the key-value store.
package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notably-app/notably/internal/db"
)

// Cached summaries expire on their own even if eviction is missed; the
// note service re-generates on the next request.
const summaryTTL = 7 * 24 * time.Hour

// store is the consumer interface for the summary cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo is a note-id keyed summary cache.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a summary cache.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Get returns the cached summary for a note, or ("", false) on a miss.
func (r *Repo) Get(ctx context.Context, noteID string) (string, bool, error) {
	data, err := r.store.Get(ctx, r.key(noteID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get summary %s: %w", noteID, err)
	}
	return string(data), true, nil
}

// Set caches a summary for a note.
func (r *Repo) Set(ctx context.Context, noteID, text string) error {
	if err := r.store.SetWithTTL(ctx, r.key(noteID), []byte(text), summaryTTL); err != nil {
		return fmt.Errorf("set summary %s: %w", noteID, err)
	}
	return nil
}

// Delete drops the cached summary. Missing keys are not an error.
func (r *Repo) Delete(ctx context.Context, noteID string) error {
	if err := r.store.Del(ctx, r.key(noteID)); err != nil {
		return fmt.Errorf("del summary %s: %w", noteID, err)
	}
	return nil
}

func (r *Repo) key(noteID string) string {
	return r.keyPrefix + "summary:" + noteID
}
