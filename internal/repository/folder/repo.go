// Package folder persists folders as Redis hashes.
package folder

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notably-app/notably/internal/domain"
	domfolder "github.com/notably-app/notably/internal/domain/folder"
)

// store is the consumer interface for folders (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the folder repository over a hash store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a folder repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save creates or replaces a folder.
func (r *Repo) Save(ctx context.Context, f *domfolder.Folder) error {
	if err := r.store.HSet(ctx, r.key(f.ID), buildHashFields(f)); err != nil {
		return fmt.Errorf("hset folder %s: %w", f.ID, err)
	}
	return nil
}

// Get returns a folder by id, scoped to the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domfolder.Folder, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domfolder.Folder{}, fmt.Errorf("hgetall folder %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domfolder.Folder{}, domain.ErrFolderNotFound
	}
	return parseHashFields(id, m), nil
}

// ListByOwner returns the owner's folders oldest-first (stable tree order).
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domfolder.Folder, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan folders: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch folders: %w", err)
	}

	folders := make([]domfolder.Folder, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID {
			continue
		}
		folders = append(folders, parseHashFields(r.id(keys[i]), m))
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].CreatedAt < folders[j].CreatedAt
	})
	return folders, nil
}

// Delete removes a folder, scoped to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return fmt.Errorf("hgetall folder %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domain.ErrFolderNotFound
	}
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("del folder %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "folder:" + id
}

func (r *Repo) id(key string) string {
	return strings.TrimPrefix(key, r.keyPrefix+"folder:")
}

func buildHashFields(f *domfolder.Folder) map[string]string {
	return map[string]string{
		"owner":       f.OwnerID,
		"name":        f.Name,
		"description": f.Description,
		"parent_id":   f.ParentID,
		"created_at":  strconv.FormatInt(f.CreatedAt, 10),
		"updated_at":  strconv.FormatInt(f.UpdatedAt, 10),
	}
}

func parseHashFields(id string, m map[string]string) domfolder.Folder {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	updatedAt, _ := strconv.ParseInt(m["updated_at"], 10, 64)
	return domfolder.Folder{
		ID:          id,
		OwnerID:     m["owner"],
		Name:        m["name"],
		Description: m["description"],
		ParentID:    m["parent_id"],
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}
