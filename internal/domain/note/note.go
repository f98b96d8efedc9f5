// Package note holds the note aggregate.
package note

import (
	"fmt"

	"github.com/notably-app/notably/internal/domain"
)

// MaxContentSize is the maximum note content size in bytes.
const MaxContentSize = 163840 // 160KB

// Note is a user note. Content is opaque text (HTML allowed).
// Vector is populated at create time and refreshed on every content update.
type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	FolderID  string // optional
	ProjectID string // optional
	ClientID  string // optional
	Vector    []float32
	CreatedAt int64 // unix millis
	UpdatedAt int64

	// Similarity is set on search results only; zero otherwise.
	Similarity float64
}

// Validate checks the fields a caller controls.
func (n *Note) Validate() error {
	if n.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidArgument)
	}
	if len(n.Content) > MaxContentSize {
		return fmt.Errorf("%w: content too large (max %d bytes)", domain.ErrInvalidArgument, MaxContentSize)
	}
	return nil
}
