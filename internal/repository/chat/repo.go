// Package chat persists chat sessions and messages as Redis hashes.
package chat

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notably-app/notably/internal/domain"
	domchat "github.com/notably-app/notably/internal/domain/chat"
)

// store is the consumer interface for chat persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the chat repository over a hash store.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a chat repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// SaveSession persists a chat session.
func (r *Repo) SaveSession(ctx context.Context, s *domchat.Session) error {
	fields := map[string]string{
		"owner":      s.OwnerID,
		"title":      s.Title,
		"created_at": strconv.FormatInt(s.CreatedAt, 10),
	}
	if err := r.store.HSet(ctx, r.sessionKey(s.ID), fields); err != nil {
		return fmt.Errorf("hset session %s: %w", s.ID, err)
	}
	return nil
}

// GetSession returns a session by id, scoped to the owner.
func (r *Repo) GetSession(ctx context.Context, ownerID, id string) (domchat.Session, error) {
	m, err := r.store.HGetAll(ctx, r.sessionKey(id))
	if err != nil {
		return domchat.Session{}, fmt.Errorf("hgetall session %s: %w", id, err)
	}
	if len(m) == 0 || m["owner"] != ownerID {
		return domchat.Session{}, domain.ErrSessionNotFound
	}
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domchat.Session{
		ID:        id,
		OwnerID:   m["owner"],
		Title:     m["title"],
		CreatedAt: createdAt,
	}, nil
}

// ListSessions returns the owner's sessions newest-first.
func (r *Repo) ListSessions(ctx context.Context, ownerID string) ([]domchat.Session, error) {
	keys, err := r.store.Scan(ctx, r.sessionKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions: %w", err)
	}

	sessions := make([]domchat.Session, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID {
			continue
		}
		createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
		sessions = append(sessions, domchat.Session{
			ID:        strings.TrimPrefix(keys[i], r.sessionKey("")),
			OwnerID:   m["owner"],
			Title:     m["title"],
			CreatedAt: createdAt,
		})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, nil
}

// SaveMessage appends a message to a session. Messages are never updated.
func (r *Repo) SaveMessage(ctx context.Context, m *domchat.Message) error {
	fields := map[string]string{
		"session_id": m.SessionID,
		"owner":      m.OwnerID,
		"role":       string(m.Role),
		"content":    m.Content,
		"source":     string(m.Source),
		"note_id":    m.NoteID,
		"created_at": strconv.FormatInt(m.CreatedAt, 10),
	}
	if err := r.store.HSet(ctx, r.messageKey(m.ID), fields); err != nil {
		return fmt.Errorf("hset message %s: %w", m.ID, err)
	}
	return nil
}

// ListMessages returns a session's messages oldest-first.
func (r *Repo) ListMessages(ctx context.Context, ownerID, sessionID string) ([]domchat.Message, error) {
	keys, err := r.store.Scan(ctx, r.messageKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	messages := make([]domchat.Message, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 || m["owner"] != ownerID || m["session_id"] != sessionID {
			continue
		}
		createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
		messages = append(messages, domchat.Message{
			ID:        strings.TrimPrefix(keys[i], r.messageKey("")),
			SessionID: m["session_id"],
			OwnerID:   m["owner"],
			Role:      domchat.Role(m["role"]),
			Content:   m["content"],
			Source:    domchat.Source(m["source"]),
			NoteID:    m["note_id"],
			CreatedAt: createdAt,
		})
	}

	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt != messages[j].CreatedAt {
			return messages[i].CreatedAt < messages[j].CreatedAt
		}
		// Same-millisecond writes: the question precedes its reply.
		return messages[i].Role == domchat.RoleUser && messages[j].Role == domchat.RoleAssistant
	})
	return messages, nil
}

func (r *Repo) sessionKey(id string) string {
	return r.keyPrefix + "chat:session:" + id
}

func (r *Repo) messageKey(id string) string {
	return r.keyPrefix + "chat:msg:" + id
}
