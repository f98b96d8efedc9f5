// Package project holds the project aggregate and its files.
package project

import (
	"fmt"

	"github.com/notably-app/notably/internal/domain"
)

// Status of a project.
type Status string

const (
	// StatusNotStarted is the initial project state.
	StatusNotStarted Status = "not_started"
	// StatusInProgress marks active work.
	StatusInProgress Status = "in_progress"
	// StatusOnHold marks paused work.
	StatusOnHold Status = "on_hold"
	// StatusCompleted marks finished work.
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is a known project status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Project is a unit of work, optionally tied to a client.
type Project struct {
	ID          string
	OwnerID     string
	ClientID    string // optional
	Name        string
	Description string
	Status      Status
	CreatedAt   int64 // unix millis
}

// Validate checks the fields a caller controls.
func (p *Project) Validate() error {
	if p.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidArgument)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	}
	if !ValidStatus(p.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, p.Status)
	}
	return nil
}
