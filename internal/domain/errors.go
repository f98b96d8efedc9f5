package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrNoteNotFound signals a missing note.
	ErrNoteNotFound = errors.New("note not found")
	// ErrFolderNotFound signals a missing folder.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrFolderCycle signals a folder move that would create a cycle.
	ErrFolderCycle = errors.New("folder move would create a cycle")
	// ErrSessionNotFound signals a missing chat session.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrClientNotFound signals a missing client.
	ErrClientNotFound = errors.New("client not found")
	// ErrProjectNotFound signals a missing project.
	ErrProjectNotFound = errors.New("project not found")
	// ErrFileNotFound signals a missing project file.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidArgument signals malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated signals a missing or unknown auth token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a chat completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
