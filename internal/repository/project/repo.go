// Package project persists projects and project file metadata as Redis hashes.
package project

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notably-app/notably/internal/domain"
	domproject "github.com/notably-app/notably/internal/domain/project"
)

// store is the consumer interface for projects (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the project repository over a hash store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a project repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Save creates or replaces a project.
func (r *Repo) Save(ctx context.Context, p *domproject.Project) error {
	fields := map[string]string{
		"owner":       p.OwnerID,
		"client_id":   p.ClientID,
		"name":        p.Name,
		"description": p.Description,
		"status":      string(p.Status),
		"created_at":  strconv.FormatInt(p.CreatedAt, 10),
	}
	if err := r.store.HSet(ctx, r.projectKey(p.ID), fields); err != nil {
		return fmt.Errorf("hset project %s: %w", p.ID, err)
	}
	return nil
}

// Get returns a project by id, scoped to the owner.
func (r *Repo) Get(ctx context.Context, ownerID, id string) (domproject.Project, error) {
	m, err := r.store.HGetAll(ctx, r.projectKey(id))
	if err != nil {
		return domproject.Project{}, fmt.Errorf("hgetall project %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domproject.Project{}, domain.ErrProjectNotFound
	}
	return parseProject(id, m), nil
}

// ListByOwner returns the owner's projects newest-first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domproject.Project, error) {
	keys, err := r.store.Scan(ctx, r.projectKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan projects: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}

	projects := make([]domproject.Project, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID {
			continue
		}
		projects = append(projects, parseProject(strings.TrimPrefix(keys[i], r.projectKey("")), m))
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt > projects[j].CreatedAt
	})
	return projects, nil
}

// Delete removes a project, scoped to the owner.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	m, err := r.store.HGetAll(ctx, r.projectKey(id))
	if err != nil {
		return fmt.Errorf("hgetall project %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domain.ErrProjectNotFound
	}
	if err := r.store.Del(ctx, r.projectKey(id)); err != nil {
		return fmt.Errorf("del project %s: %w", id, err)
	}
	return nil
}

// SaveFile persists project file metadata.
func (r *Repo) SaveFile(ctx context.Context, f *domproject.File) error {
	fields := map[string]string{
		"owner":        f.OwnerID,
		"project_id":   f.ProjectID,
		"name":         f.Name,
		"storage_path": f.StoragePath,
		"size":         strconv.FormatInt(f.Size, 10),
		"content_type": f.ContentType,
		"created_at":   strconv.FormatInt(f.CreatedAt, 10),
	}
	if err := r.store.HSet(ctx, r.fileKey(f.ID), fields); err != nil {
		return fmt.Errorf("hset file %s: %w", f.ID, err)
	}
	return nil
}

// GetFile returns file metadata by id, scoped to the owner.
func (r *Repo) GetFile(ctx context.Context, ownerID, id string) (domproject.File, error) {
	m, err := r.store.HGetAll(ctx, r.fileKey(id))
	if err != nil {
		return domproject.File{}, fmt.Errorf("hgetall file %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domproject.File{}, domain.ErrFileNotFound
	}
	return parseFile(id, m), nil
}

// GetFileByID returns file metadata without owner scoping. Signed blob
// URLs carry no user identity; the signature is the authorization.
func (r *Repo) GetFileByID(ctx context.Context, id string) (domproject.File, error) {
	m, err := r.store.HGetAll(ctx, r.fileKey(id))
	if err != nil {
		return domproject.File{}, fmt.Errorf("hgetall file %s: %w", id, err)
	}
	if len(m) == 0 {
		return domproject.File{}, domain.ErrFileNotFound
	}
	return parseFile(id, m), nil
}

// ListFiles returns a project's file metadata oldest-first.
func (r *Repo) ListFiles(ctx context.Context, ownerID, projectID string) ([]domproject.File, error) {
	keys, err := r.store.Scan(ctx, r.fileKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch files: %w", err)
	}

	files := make([]domproject.File, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID || m["project_id"] != projectID {
			continue
		}
		files = append(files, parseFile(strings.TrimPrefix(keys[i], r.fileKey("")), m))
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt < files[j].CreatedAt
	})
	return files, nil
}

// DeleteFile removes file metadata, scoped to the owner.
func (r *Repo) DeleteFile(ctx context.Context, ownerID, id string) error {
	m, err := r.store.HGetAll(ctx, r.fileKey(id))
	if err != nil {
		return fmt.Errorf("hgetall file %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domain.ErrFileNotFound
	}
	if err := r.store.Del(ctx, r.fileKey(id)); err != nil {
		return fmt.Errorf("del file %s: %w", id, err)
	}
	return nil
}

func (r *Repo) projectKey(id string) string {
	return r.keyPrefix + "project:" + id
}

func (r *Repo) fileKey(id string) string {
	return r.keyPrefix + "file:" + id
}

func parseProject(id string, m map[string]string) domproject.Project {
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domproject.Project{
		ID:          id,
		OwnerID:     m["owner"],
		ClientID:    m["client_id"],
		Name:        m["name"],
		Description: m["description"],
		Status:      domproject.Status(m["status"]),
		CreatedAt:   createdAt,
	}
}

func parseFile(id string, m map[string]string) domproject.File {
	size, _ := strconv.ParseInt(m["size"], 10, 64)
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domproject.File{
		ID:          id,
		OwnerID:     m["owner"],
		ProjectID:   m["project_id"],
		Name:        m["name"],
		StoragePath: m["storage_path"],
		Size:        size,
		ContentType: m["content_type"],
		CreatedAt:   createdAt,
	}
}
