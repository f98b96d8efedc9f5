// Package note persists notes as Redis hashes behind an FT vector index.
package note

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/notably-app/notably/internal/db"
	"github.com/notably-app/notably/internal/domain"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// store is the consumer interface for notes (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements the note repository over a hash store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a note repository. keyPrefix namespaces all keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// IndexName returns the FT index name for notes under the given prefix.
func IndexName(keyPrefix string) string {
	return keyPrefix + "note:idx"
}

// KeyPattern returns the hash key prefix covered by the index.
func KeyPattern(keyPrefix string) string {
	return keyPrefix + "note:"
}

// IndexDefinition builds the notes FT index: owner and project TAG
// pre-filters plus the HNSW vector field.
func IndexDefinition(keyPrefix string, dim, m, efConstruct int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:        IndexName(keyPrefix),
		StorageType: db.StorageHash,
		Prefixes:    []string{KeyPattern(keyPrefix)},
		Fields: []db.IndexField{
			{Name: "owner", Type: db.IndexFieldTag},
			{Name: "project_id", Type: db.IndexFieldTag},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         dim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           m,
				VectorEFConstruct: efConstruct,
			},
		},
	}
}

// Save creates or replaces a note.
func (r *Repo) Save(ctx context.Context, n *domnote.Note) error {
	if err := r.store.HSet(ctx, r.key(n.ID), buildHashFields(n)); err != nil {
		return fmt.Errorf("hset note %s: %w", n.ID, err)
	}
	return nil
}

// Get returns a note by id, scoped to the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domnote.Note, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domnote.Note{}, fmt.Errorf("hgetall note %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domnote.Note{}, domain.ErrNoteNotFound
	}
	return parseHashFields(id, m), nil
}

// ListByOwner returns the owner's notes newest-first.
// A non-empty projectID narrows the listing to that project.
func (r *Repo) ListByOwner(ctx context.Context, ownerID, projectID string) ([]domnote.Note, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan notes: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}

	notes := make([]domnote.Note, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID {
			continue
		}
		if projectID != "" && m["project_id"] != projectID {
			continue
		}
		notes = append(notes, parseHashFields(r.id(keys[i]), m))
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt > notes[j].CreatedAt
	})
	return notes, nil
}

// Delete removes a note, scoped to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("hgetall note %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domain.ErrNoteNotFound
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del note %s: %w", id, err)
	}
	return nil
}

// SearchSimilar runs a KNN query over the notes index pre-filtered by owner
// (and project, when non-empty). Scores are cosine similarity in [0,1].
func (r *Repo) SearchSimilar(
	ctx context.Context, ownerID, projectID string, vector []float32, k int,
) ([]domnote.Note, error) {
	filters := []db.TagFilter{{Field: "owner", Value: ownerID}}
	if projectID != "" {
		filters = append(filters, db.TagFilter{Field: "project_id", Value: projectID})
	}

	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: IndexName(r.keyPrefix),
		Filters:   filters,
		Vector:    vector,
		K:         k,
		ReturnFields: []string{
			"owner", "title", "content", "folder_id", "project_id", "client_id",
			"created_at", "updated_at", "__vector_score",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	notes := make([]domnote.Note, 0, len(result.Entries))
	for _, e := range result.Entries {
		n := parseHashFields(r.id(e.Key), e.Fields)
		n.Similarity = e.Score
		notes = append(notes, n)
	}
	return notes, nil
}

func (r *Repo) key(id string) string {
	return KeyPattern(r.keyPrefix) + id
}

func (r *Repo) id(key string) string {
	return strings.TrimPrefix(key, KeyPattern(r.keyPrefix))
}

