// Package folder manages the folder hierarchy notes are filed under.
package folder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domfolder "github.com/notably-app/notably/internal/domain/folder"
)

// Input carries the writable folder fields.
type Input struct {
	Name        string
	Description string
	ParentID    string
}

// Service manages folders. Parent references are validated on write so the
// stored hierarchy stays a forest; reads still tolerate bad references.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates a folder service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create stores a new folder, optionally under an existing parent.
func (s *Service) Create(ctx context.Context, ownerID string, in Input) (domfolder.Folder, error) {
	now := time.Now().UnixMilli()
	f := domfolder.Folder{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		ParentID:    in.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.Validate(); err != nil {
		return domfolder.Folder{}, err
	}

	if f.ParentID != "" {
		if _, err := s.repo.Get(ctx, ownerID, f.ParentID); err != nil {
			if errors.Is(err, domain.ErrFolderNotFound) {
				return domfolder.Folder{}, fmt.Errorf("create folder: parent %s: %w", f.ParentID, domain.ErrFolderNotFound)
			}
			return domfolder.Folder{}, fmt.Errorf("create folder: %w", err)
		}
	}

	if err := s.repo.Save(ctx, &f); err != nil {
		return domfolder.Folder{}, fmt.Errorf("create folder: %w", err)
	}
	return f, nil
}

// Get returns one of the owner's folders.
func (s *Service) Get(ctx context.Context, ownerID, folderID string) (domfolder.Folder, error) {
	f, err := s.repo.Get(ctx, ownerID, folderID)
	if err != nil {
		return domfolder.Folder{}, fmt.Errorf("get folder: %w", err)
	}
	return f, nil
}

// List returns the owner's folders as a flat list, oldest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domfolder.Folder, error) {
	folders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// Tree returns the owner's folders assembled into their hierarchy.
func (s *Service) Tree(ctx context.Context, ownerID string) ([]*domfolder.Node, error) {
	folders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("folder tree: %w", err)
	}
	return domfolder.BuildTree(folders), nil
}

// Update rewrites a folder's fields. A parent change is a move: the new
// parent must exist and must not sit inside the folder being moved.
func (s *Service) Update(ctx context.Context, ownerID, folderID string, in Input) (domfolder.Folder, error) {
	f, err := s.repo.Get(ctx, ownerID, folderID)
	if err != nil {
		return domfolder.Folder{}, fmt.Errorf("update folder: %w", err)
	}

	if in.ParentID != f.ParentID {
		if err := s.checkMove(ctx, ownerID, folderID, in.ParentID); err != nil {
			return domfolder.Folder{}, fmt.Errorf("update folder: %w", err)
		}
	}

	f.Name = in.Name
	f.Description = in.Description
	f.ParentID = in.ParentID
	f.UpdatedAt = time.Now().UnixMilli()
	if err := f.Validate(); err != nil {
		return domfolder.Folder{}, err
	}

	if err := s.repo.Save(ctx, &f); err != nil {
		return domfolder.Folder{}, fmt.Errorf("update folder: %w", err)
	}
	return f, nil
}

// Move reparents a folder. An empty newParentID moves it to the root.
func (s *Service) Move(ctx context.Context, ownerID, folderID, newParentID string) (domfolder.Folder, error) {
	f, err := s.repo.Get(ctx, ownerID, folderID)
	if err != nil {
		return domfolder.Folder{}, fmt.Errorf("move folder: %w", err)
	}

	if newParentID != f.ParentID {
		if err := s.checkMove(ctx, ownerID, folderID, newParentID); err != nil {
			return domfolder.Folder{}, fmt.Errorf("move folder: %w", err)
		}
	}

	f.ParentID = newParentID
	f.UpdatedAt = time.Now().UnixMilli()
	if err := s.repo.Save(ctx, &f); err != nil {
		return domfolder.Folder{}, fmt.Errorf("move folder: %w", err)
	}
	return f, nil
}

// Delete removes a folder. Children are reparented implicitly: their parent
// reference dangles and tree assembly promotes them to roots.
func (s *Service) Delete(ctx context.Context, ownerID, folderID string) error {
	if err := s.repo.Delete(ctx, ownerID, folderID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

func (s *Service) checkMove(ctx context.Context, ownerID, folderID, newParentID string) error {
	if newParentID == "" {
		return nil
	}
	if newParentID == folderID {
		return domain.ErrFolderCycle
	}
	if _, err := s.repo.Get(ctx, ownerID, newParentID); err != nil {
		return err
	}

	folders, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	if domfolder.Descendants(folders, folderID)[newParentID] {
		return domain.ErrFolderCycle
	}
	return nil
}
