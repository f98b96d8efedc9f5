package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domchat "github.com/notably-app/notably/internal/domain/chat"
	chatuc "github.com/notably-app/notably/internal/usecase/chat"
)

type createSessionRequest struct {
	Message string `json:"message"`
	NoteID  string `json:"note_id,omitempty"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
	NoteID  string `json:"note_id,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	NoteID    string    `json:"note_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionToResponse(s domchat.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: time.UnixMilli(s.CreatedAt).UTC(),
	}
}

func messageToResponse(m domchat.Message) messageResponse {
	return messageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      string(m.Role),
		Content:   m.Content,
		Source:    string(m.Source),
		NoteID:    m.NoteID,
		CreatedAt: time.UnixMilli(m.CreatedAt).UTC(),
	}
}

func exchangeToResponse(ex chatuc.Exchange) map[string]any {
	return map[string]any{
		"session":  sessionToResponse(ex.Session),
		"question": messageToResponse(ex.UserMsg),
		"answer":   messageToResponse(ex.Assistant),
	}
}

// handleCreateSession handles POST /api/v1/chat/sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "message is required")
		return
	}

	ex, err := s.chats.CreateSession(r.Context(), userID(r), req.Message, req.NoteID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, exchangeToResponse(ex))
}

// handleListSessions handles GET /api/v1/chat/sessions.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.chats.ListSessions(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]sessionResponse, len(sessions))
	for i, sess := range sessions {
		items[i] = sessionToResponse(sess)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleListMessages handles GET /api/v1/chat/sessions/{id}/messages.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.chats.ListMessages(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]messageResponse, len(messages))
	for i, m := range messages {
		items[i] = messageToResponse(m)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleSendMessage handles POST /api/v1/chat/sessions/{id}/messages.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "content is required")
		return
	}

	ex, err := s.chats.SendMessage(r.Context(), userID(r), chi.URLParam(r, "id"), req.Content, req.NoteID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, exchangeToResponse(ex))
}
