// Package project manages projects, their files, and project Q&A.
package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domproject "github.com/notably-app/notably/internal/domain/project"
	"github.com/notably-app/notably/internal/extract"
	"github.com/notably-app/notably/internal/usecase/answer"
)

// Signed URL issuing against a remote signer can flake; one short retry
// rides out blips without stalling the listing.
const (
	signAttempts   = 2
	signRetryDelay = time.Second
)

// Input carries the writable project fields.
type Input struct {
	Name        string
	Description string
	Status      domproject.Status
	ClientID    string
}

// FileInput describes an upload being registered.
type FileInput struct {
	Name        string
	Size        int64
	ContentType string
}

// Service manages projects and their uploaded files.
type Service struct {
	repo     Repository
	clients  ClientFinder
	blobs    Blobs
	signer   URLSigner
	searcher Searcher
	answerer Answerer
	logger   *zap.Logger

	sleep func(time.Duration)
}

// New creates a project service.
func New(
	repo Repository, clients ClientFinder, blobs Blobs, signer URLSigner,
	searcher Searcher, answerer Answerer, logger *zap.Logger,
) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		blobs:    blobs,
		signer:   signer,
		searcher: searcher,
		answerer: answerer,
		logger:   logger,
		sleep:    time.Sleep,
	}
}

// Create stores a new project. An empty status defaults to not started; a
// client reference must resolve.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (domproject.Project, error) {
	if in.Status == "" {
		in.Status = domproject.StatusNotStarted
	}
	p := domproject.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		ClientID:    in.ClientID,
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   time.Now().UnixMilli(),
	}
	if err := p.Validate(); err != nil {
		return domproject.Project{}, err
	}
	if err := s.checkClient(ctx, ownerID, in.ClientID); err != nil {
		return domproject.Project{}, fmt.Errorf("create project: %w", err)
	}

	if err := s.repo.Save(ctx, &p); err != nil {
		return domproject.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// Get returns one of the owner's projects.
func (s *Service) Get(ctx context.Context, ownerID, projectID string) (domproject.Project, error) {
	p, err := s.repo.Get(ctx, ownerID, projectID)
	if err != nil {
		return domproject.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// List returns the owner's projects, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domproject.Project, error) {
	projects, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update rewrites a project's fields.
func (s *Service) Update(ctx context.Context, ownerID, projectID string, in Input) (domproject.Project, error) {
	p, err := s.repo.Get(ctx, ownerID, projectID)
	if err != nil {
		return domproject.Project{}, fmt.Errorf("update project: %w", err)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.Status = in.Status
	p.ClientID = in.ClientID
	if err := p.Validate(); err != nil {
		return domproject.Project{}, err
	}
	if err := s.checkClient(ctx, ownerID, in.ClientID); err != nil {
		return domproject.Project{}, fmt.Errorf("update project: %w", err)
	}

	if err := s.repo.Save(ctx, &p); err != nil {
		return domproject.Project{}, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// Delete removes a project together with its files and their blobs.
func (s *Service) Delete(ctx context.Context, ownerID, projectID string) error {
	files, err := s.repo.ListFiles(ctx, ownerID, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	for _, f := range files {
		if err := s.deleteFile(ctx, ownerID, f); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, ownerID, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// CreateFile registers an upload under a project and returns its metadata
// with a signed PUT URL the caller uploads the blob to.
func (s *Service) CreateFile(ctx context.Context, ownerID, projectID string, in FileInput) (domproject.File, error) {
	if _, err := s.repo.Get(ctx, ownerID, projectID); err != nil {
		return domproject.File{}, fmt.Errorf("create file: %w", err)
	}

	f := domproject.File{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		ProjectID:   projectID,
		Name:        in.Name,
		Size:        in.Size,
		ContentType: in.ContentType,
		CreatedAt:   time.Now().UnixMilli(),
	}
	f.StoragePath = domproject.StorageKey(ownerID, projectID, f.ID, f.Name)
	if err := f.Validate(); err != nil {
		return domproject.File{}, err
	}

	if err := s.repo.SaveFile(ctx, &f); err != nil {
		return domproject.File{}, fmt.Errorf("create file: %w", err)
	}

	url, err := s.signWithRetry("PUT", f.ID)
	if err != nil {
		return domproject.File{}, fmt.Errorf("create file: sign upload url: %w", err)
	}
	f.URL = url
	return f, nil
}

// UploadBlob stores the contents for a registered file. The caller is
// authorized by the signed URL, not by user identity.
func (s *Service) UploadBlob(ctx context.Context, fileID string, data []byte) error {
	f, err := s.repo.GetFileByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	if err := s.blobs.Put(ctx, f.StoragePath, data); err != nil {
		return fmt.Errorf("upload blob: %w", err)
	}
	if f.Size != int64(len(data)) {
		f.Size = int64(len(data))
		if err := s.repo.SaveFile(ctx, &f); err != nil {
			return fmt.Errorf("upload blob: %w", err)
		}
	}
	return nil
}

// DownloadBlob returns a file's metadata and contents.
func (s *Service) DownloadBlob(ctx context.Context, fileID string) (domproject.File, []byte, error) {
	f, err := s.repo.GetFileByID(ctx, fileID)
	if err != nil {
		return domproject.File{}, nil, fmt.Errorf("download blob: %w", err)
	}
	data, err := s.blobs.Get(ctx, f.StoragePath)
	if err != nil {
		return domproject.File{}, nil, fmt.Errorf("download blob: %w", err)
	}
	return f, data, nil
}

// ListFiles returns a project's files with signed GET URLs. A file whose
// URL cannot be signed is still listed, with URLError set, so one bad entry
// does not hide the rest.
func (s *Service) ListFiles(ctx context.Context, ownerID, projectID string) ([]domproject.File, error) {
	if _, err := s.repo.Get(ctx, ownerID, projectID); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	files, err := s.repo.ListFiles(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	for i := range files {
		url, err := s.signWithRetry("GET", files[i].ID)
		if err != nil {
			s.logger.Warn("Signing download URL failed",
				zap.String("file_id", files[i].ID), zap.Error(err))
			files[i].URLError = err.Error()
			continue
		}
		files[i].URL = url
	}
	return files, nil
}

// DeleteFile removes a file's metadata and blob.
func (s *Service) DeleteFile(ctx context.Context, ownerID, fileID string) error {
	f, err := s.repo.GetFile(ctx, ownerID, fileID)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if err := s.deleteFile(ctx, ownerID, f); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// Ask answers a question from the project's notes and uploaded files.
func (s *Service) Ask(ctx context.Context, ownerID, projectID, query string) (answer.ProjectAnswer, error) {
	if query == "" {
		return answer.ProjectAnswer{}, fmt.Errorf("ask project: %w: empty query", domain.ErrInvalidArgument)
	}
	if _, err := s.repo.Get(ctx, ownerID, projectID); err != nil {
		return answer.ProjectAnswer{}, fmt.Errorf("ask project: %w", err)
	}

	notes := s.searcher.FindProjectNotes(ctx, ownerID, projectID, query, 0)

	files, err := s.repo.ListFiles(ctx, ownerID, projectID)
	if err != nil {
		s.logger.Warn("Project file listing failed, answering from notes only", zap.Error(err))
		files = nil
	}

	contexts := make([]answer.FileContext, 0, len(files))
	for _, f := range files {
		data, err := s.blobs.Get(ctx, f.StoragePath)
		if err != nil {
			if !errors.Is(err, domain.ErrFileNotFound) {
				s.logger.Warn("Blob read failed", zap.String("file_id", f.ID), zap.Error(err))
			}
			continue
		}
		contexts = append(contexts, answer.FileContext{
			Name:    f.Name,
			Content: extract.Text(f.ContentType, data),
		})
	}

	return s.answerer.GenerateProject(ctx, query, notes, contexts), nil
}

func (s *Service) deleteFile(ctx context.Context, ownerID string, f domproject.File) error {
	if err := s.blobs.Delete(ctx, f.StoragePath); err != nil && !errors.Is(err, domain.ErrFileNotFound) {
		return err
	}
	return s.repo.DeleteFile(ctx, ownerID, f.ID)
}

func (s *Service) checkClient(ctx context.Context, ownerID, clientID string) error {
	if clientID == "" {
		return nil
	}
	if _, err := s.clients.Get(ctx, ownerID, clientID); err != nil {
		return err
	}
	return nil
}

func (s *Service) signWithRetry(method, fileID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < signAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(signRetryDelay)
		}
		url, err := s.signer.SignedURL(method, fileID)
		if err == nil {
			return url, nil
		}
		lastErr = err
	}
	return "", lastErr
}
