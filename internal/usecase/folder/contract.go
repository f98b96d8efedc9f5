package folder

import (
	"context"

	domfolder "github.com/notably-app/notably/internal/domain/folder"
)

// Repository persists folders.
type Repository interface {
	Save(ctx context.Context, f *domfolder.Folder) error
	Get(ctx context.Context, ownerID, folderID string) (domfolder.Folder, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domfolder.Folder, error)
	Delete(ctx context.Context, ownerID, folderID string) error
}
