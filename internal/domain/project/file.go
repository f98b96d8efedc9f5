package project

import (
	"fmt"

	"github.com/notably-app/notably/internal/domain"
)

// File is an uploaded project document. Blob bytes live in the store under
// StoragePath; the metadata here is what listings return. URL and URLError
// are populated per request when signed URLs are issued.
type File struct {
	ID          string
	OwnerID     string
	ProjectID   string
	Name        string
	StoragePath string // "<owner>/<project>/<id>-<name>"
	Size        int64
	ContentType string
	CreatedAt   int64 // unix millis

	URL      string // signed GET URL, per request
	URLError string // why signed URL issuance failed, after retries
}

// StorageKey builds the namespaced blob path for a file.
func StorageKey(ownerID, projectID, fileID, name string) string {
	return fmt.Sprintf("%s/%s/%s-%s", ownerID, projectID, fileID, name)
}

// Validate checks the fields a caller controls.
func (f *File) Validate() error {
	if f.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}
	if f.ProjectID == "" {
		return fmt.Errorf("%w: project is required", domain.ErrInvalidArgument)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	return nil
}
