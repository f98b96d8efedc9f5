// Package folder holds the folder aggregate and tree assembly.
package folder

import (
	"fmt"

	"github.com/notably-app/notably/internal/domain"
)

// Folder is a user folder. ParentID is empty for root folders.
type Folder struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	ParentID    string
	CreatedAt   int64 // unix millis
	UpdatedAt   int64
}

// Validate checks the fields a caller controls.
func (f *Folder) Validate() error {
	if f.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if f.ParentID != "" && f.ParentID == f.ID {
		return fmt.Errorf("%w: folder cannot be its own parent", domain.ErrInvalidArgument)
	}
	return nil
}
