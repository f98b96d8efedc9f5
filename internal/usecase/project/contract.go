package project

import (
	"context"

	domclient "github.com/notably-app/notably/internal/domain/client"
	domnote "github.com/notably-app/notably/internal/domain/note"
	domproject "github.com/notably-app/notably/internal/domain/project"
	"github.com/notably-app/notably/internal/usecase/answer"
)

// Repository persists projects and their file metadata.
type Repository interface {
	Save(ctx context.Context, p *domproject.Project) error
	Get(ctx context.Context, ownerID, id string) (domproject.Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domproject.Project, error)
	Delete(ctx context.Context, ownerID, id string) error

	SaveFile(ctx context.Context, f *domproject.File) error
	GetFile(ctx context.Context, ownerID, id string) (domproject.File, error)
	GetFileByID(ctx context.Context, id string) (domproject.File, error)
	ListFiles(ctx context.Context, ownerID, projectID string) ([]domproject.File, error)
	DeleteFile(ctx context.Context, ownerID, id string) error
}

// ClientFinder checks client references on project writes.
type ClientFinder interface {
	Get(ctx context.Context, ownerID, clientID string) (domclient.Client, error)
}

// Blobs stores raw file contents.
type Blobs interface {
	Put(ctx context.Context, path string, data []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// URLSigner issues expiring access URLs for file blobs.
type URLSigner interface {
	SignedURL(method, fileID string) (string, error)
}

// Searcher retrieves a project's notes relevant to a question.
type Searcher interface {
	FindProjectNotes(ctx context.Context, ownerID, projectID, query string, limit int) []domnote.Note
}

// Answerer answers questions from project notes and files.
type Answerer interface {
	GenerateProject(ctx context.Context, query string, notes []domnote.Note, files []answer.FileContext) answer.ProjectAnswer
}
