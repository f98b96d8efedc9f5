// Package chat runs question-answering conversations over a user's notes.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notably-app/notably/internal/domain"
	domchat "github.com/notably-app/notably/internal/domain/chat"
	domnote "github.com/notably-app/notably/internal/domain/note"
)

// Replies used when no grounded answer can be produced. Worded for the end
// user, so changes here are product changes.
const (
	replyNoteMissing = "I apologize, but I couldn't find the note you mentioned in the context. " +
		"The note might have been deleted or you might not have access to it."

	replyNoteNotRelevant = "I couldn't find any relevant information in the attached note to answer your question. " +
		"The information you're looking for might be in a different note. You can:\n\n" +
		"1. Remove the note context (remove the @note mention) to search through all your notes\n" +
		"2. Try mentioning a different note that might contain this information\n" +
		"3. Try asking about a different topic that's covered in this note"

	replyNothingFound = "I couldn't find any relevant information in your notes to answer your question. " +
		"Could you please rephrase your question or try asking about a different topic?"
)

// Service orchestrates sessions: persist the question, retrieve context,
// answer, persist the reply.
type Service struct {
	repo     Repository
	notes    NoteFinder
	searcher Searcher
	answerer Answerer
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a chat service.
func New(repo Repository, notes NoteFinder, searcher Searcher, answerer Answerer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		notes:    notes,
		searcher: searcher,
		answerer: answerer,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Exchange is one answered question: the stored user message and the
// assistant's reply.
type Exchange struct {
	Session   domchat.Session
	UserMsg   domchat.Message
	Assistant domchat.Message
}

// CreateSession starts a conversation titled after the first question and
// answers it. noteID optionally pins the answer to one mentioned note.
func (s *Service) CreateSession(ctx context.Context, ownerID, query, noteID string) (Exchange, error) {
	session := domchat.Session{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     domchat.DeriveTitle(query),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.SaveSession(ctx, &session); err != nil {
		return Exchange{}, fmt.Errorf("create session: %w", err)
	}
	return s.answer(ctx, session, query, noteID)
}

// SendMessage answers a follow-up question in an existing session. Questions
// within one session are serialized so replies land in ask order.
func (s *Service) SendMessage(ctx context.Context, ownerID, sessionID, query, noteID string) (Exchange, error) {
	session, err := s.repo.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return Exchange{}, fmt.Errorf("send message: %w", err)
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.answer(ctx, session, query, noteID)
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, ownerID string) ([]domchat.Session, error) {
	sessions, err := s.repo.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListMessages returns a session's messages in ask order.
func (s *Service) ListMessages(ctx context.Context, ownerID, sessionID string) ([]domchat.Message, error) {
	if _, err := s.repo.GetSession(ctx, ownerID, sessionID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	messages, err := s.repo.ListMessages(ctx, ownerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (s *Service) answer(ctx context.Context, session domchat.Session, query, noteID string) (Exchange, error) {
	userMsg := domchat.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		OwnerID:   session.OwnerID,
		Role:      domchat.RoleUser,
		Content:   query,
		NoteID:    noteID,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.repo.SaveMessage(ctx, &userMsg); err != nil {
		return Exchange{}, fmt.Errorf("save question: %w", err)
	}

	// The in-flight reply is tracked as a pending placeholder so the
	// exchange is built through the same transitions a stateful client
	// replays on its copy of the transcript.
	assistantID := uuid.NewString()
	transcript := domchat.AppendPending([]domchat.Message{userMsg}, assistantID, session.ID)

	reply, err := s.reply(ctx, session.OwnerID, query, noteID)
	if err != nil {
		transcript = domchat.Fail(transcript, assistantID)
		return Exchange{Session: session, UserMsg: transcript[0]}, err
	}

	transcript = domchat.Resolve(transcript, assistantID, reply, domchat.SourceProjectData)
	assistant := transcript[len(transcript)-1]
	assistant.OwnerID = session.OwnerID
	assistant.NoteID = noteID
	assistant.CreatedAt = time.Now().UnixMilli()
	// Keep replies strictly after their question even on a coarse clock.
	if assistant.CreatedAt <= userMsg.CreatedAt {
		assistant.CreatedAt = userMsg.CreatedAt + 1
	}
	if err := s.repo.SaveMessage(ctx, &assistant); err != nil {
		return Exchange{}, fmt.Errorf("save reply: %w", err)
	}

	return Exchange{Session: session, UserMsg: transcript[0], Assistant: assistant}, nil
}

// reply resolves the context notes and generates the answer text. Missing
// or unhelpful context ends in a user-facing explanation; a completion
// provider failure aborts the send so nothing half-answered is persisted.
func (s *Service) reply(ctx context.Context, ownerID, query, noteID string) (string, error) {
	if noteID != "" {
		note, err := s.notes.Get(ctx, ownerID, noteID)
		if err != nil {
			if !errors.Is(err, domain.ErrNoteNotFound) {
				s.logger.Warn("Mentioned note lookup failed", zap.Error(err))
			}
			return replyNoteMissing, nil
		}

		text, err := s.answerer.Generate(ctx, query, []domnote.Note{note})
		if err != nil {
			return "", fmt.Errorf("generate reply: %w", err)
		}
		if text == "" {
			return replyNoteNotRelevant, nil
		}
		return text, nil
	}

	notes := s.searcher.FindSimilar(ctx, ownerID, query, 0, 0)
	text, err := s.answerer.Generate(ctx, query, notes)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if text == "" {
		return replyNothingFound, nil
	}
	return text, nil
}

func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}
