package project

import (
	"context"

	"github.com/notably-app/notably/internal/domain"
	domclient "github.com/notably-app/notably/internal/domain/client"
	domnote "github.com/notably-app/notably/internal/domain/note"
	domproject "github.com/notably-app/notably/internal/domain/project"
	"github.com/notably-app/notably/internal/usecase/answer"
)

// memRepo is an in-memory Repository preserving insertion order for files.
type memRepo struct {
	projects map[string]domproject.Project
	files    []domproject.File
}

func newMemRepo() *memRepo {
	return &memRepo{projects: make(map[string]domproject.Project)}
}

func (r *memRepo) Save(_ context.Context, p *domproject.Project) error {
	r.projects[p.ID] = *p
	return nil
}

func (r *memRepo) Get(_ context.Context, ownerID, id string) (domproject.Project, error) {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return domproject.Project{}, domain.ErrProjectNotFound
	}
	return p, nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]domproject.Project, error) {
	var out []domproject.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, ownerID, id string) error {
	p, ok := r.projects[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memRepo) SaveFile(_ context.Context, f *domproject.File) error {
	for i := range r.files {
		if r.files[i].ID == f.ID {
			r.files[i] = *f
			return nil
		}
	}
	r.files = append(r.files, *f)
	return nil
}

func (r *memRepo) GetFile(_ context.Context, ownerID, id string) (domproject.File, error) {
	for _, f := range r.files {
		if f.ID == id && f.OwnerID == ownerID {
			return f, nil
		}
	}
	return domproject.File{}, domain.ErrFileNotFound
}

func (r *memRepo) GetFileByID(_ context.Context, id string) (domproject.File, error) {
	for _, f := range r.files {
		if f.ID == id {
			return f, nil
		}
	}
	return domproject.File{}, domain.ErrFileNotFound
}

func (r *memRepo) ListFiles(_ context.Context, ownerID, projectID string) ([]domproject.File, error) {
	var out []domproject.File
	for _, f := range r.files {
		if f.OwnerID == ownerID && f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteFile(_ context.Context, ownerID, id string) error {
	for i, f := range r.files {
		if f.ID == id && f.OwnerID == ownerID {
			r.files = append(r.files[:i], r.files[i+1:]...)
			return nil
		}
	}
	return domain.ErrFileNotFound
}

type memBlobs struct {
	blobs map[string][]byte
}

func newMemBlobs() *memBlobs { return &memBlobs{blobs: make(map[string][]byte)} }

func (b *memBlobs) Put(_ context.Context, path string, data []byte) error {
	b.blobs[path] = data
	return nil
}

func (b *memBlobs) Get(_ context.Context, path string) ([]byte, error) {
	data, ok := b.blobs[path]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return data, nil
}

func (b *memBlobs) Delete(_ context.Context, path string) error {
	delete(b.blobs, path)
	return nil
}

type mockSigner struct {
	signFn func(method, fileID string) (string, error)
}

func (m *mockSigner) SignedURL(method, fileID string) (string, error) {
	return m.signFn(method, fileID)
}

func okSigner() *mockSigner {
	return &mockSigner{signFn: func(method, fileID string) (string, error) {
		return "https://notably.test/api/v1/files/" + fileID + "/blob?sig=" + method, nil
	}}
}

type mockClients struct {
	getFn func(ctx context.Context, ownerID, clientID string) (domclient.Client, error)
}

func (m *mockClients) Get(ctx context.Context, ownerID, clientID string) (domclient.Client, error) {
	return m.getFn(ctx, ownerID, clientID)
}

type mockSearcher struct {
	findFn func(ctx context.Context, ownerID, projectID, query string, limit int) []domnote.Note
}

func (m *mockSearcher) FindProjectNotes(ctx context.Context, ownerID, projectID, query string, limit int) []domnote.Note {
	return m.findFn(ctx, ownerID, projectID, query, limit)
}

type mockAnswerer struct {
	generateFn func(ctx context.Context, query string, notes []domnote.Note, files []answer.FileContext) answer.ProjectAnswer
}

func (m *mockAnswerer) GenerateProject(ctx context.Context, query string, notes []domnote.Note, files []answer.FileContext) answer.ProjectAnswer {
	return m.generateFn(ctx, query, notes, files)
}
