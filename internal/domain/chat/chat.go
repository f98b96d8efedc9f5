// Package chat holds chat sessions, messages and the pending-reply state machine.
package chat

import "strings"

// Role of a chat message author.
type Role string

const (
	// RoleUser marks a message written by the user.
	RoleUser Role = "user"
	// RoleAssistant marks a generated reply.
	RoleAssistant Role = "assistant"
)

// Source tags where an assistant reply was grounded.
type Source string

const (
	// SourceProjectData marks replies grounded in the user's notes and files.
	SourceProjectData Source = "project_data"
	// SourceWebSearch marks replies produced by the web-search fallback.
	SourceWebSearch Source = "web_search"
)

// Session is a chat conversation.
type Session struct {
	ID        string
	OwnerID   string
	Title     string
	CreatedAt int64 // unix millis
}

// Message is a single chat turn. Messages are append-only.
type Message struct {
	ID        string
	SessionID string
	OwnerID   string
	Role      Role
	Content   string
	Source    Source // assistant messages only
	NoteID    string // optional note the user pinned as context
	Pending   bool
	CreatedAt int64
}

const titleWords = 5

// DeriveTitle builds a session title from the first user message:
// the first five whitespace-delimited words followed by "...".
func DeriveTitle(firstMessage string) string {
	words := strings.Fields(firstMessage)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	return strings.Join(words, " ") + "..."
}
