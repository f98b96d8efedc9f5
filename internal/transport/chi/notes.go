package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domnote "github.com/notably-app/notably/internal/domain/note"
	noteuc "github.com/notably-app/notably/internal/usecase/note"
)

type noteRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	FolderID  string `json:"folder_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
}

type noteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	FolderID   string    `json:"folder_id,omitempty"`
	ProjectID  string    `json:"project_id,omitempty"`
	ClientID   string    `json:"client_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Similarity *float64  `json:"similarity,omitempty"`
}

func noteToResponse(n domnote.Note, withSimilarity bool) noteResponse {
	resp := noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		FolderID:  n.FolderID,
		ProjectID: n.ProjectID,
		ClientID:  n.ClientID,
		CreatedAt: time.UnixMilli(n.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(n.UpdatedAt).UTC(),
	}
	if withSimilarity {
		sim := n.Similarity
		resp.Similarity = &sim
	}
	return resp
}

func notesToResponse(notes []domnote.Note, withSimilarity bool) []noteResponse {
	items := make([]noteResponse, len(notes))
	for i, n := range notes {
		items[i] = noteToResponse(n, withSimilarity)
	}
	return items
}

// handleCreateNote handles POST /api/v1/notes.
func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := s.notes.Create(r.Context(), userID(r), noteuc.Input{
		Title:     req.Title,
		Content:   req.Content,
		FolderID:  req.FolderID,
		ProjectID: req.ProjectID,
		ClientID:  req.ClientID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, noteToResponse(n, false))
}

// handleListNotes handles GET /api/v1/notes.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.List(r.Context(), userID(r),
		r.URL.Query().Get("folder_id"), r.URL.Query().Get("project_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": notesToResponse(notes, false)})
}

// handleGetNote handles GET /api/v1/notes/{id}.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteToResponse(n, false))
}

// handleUpdateNote handles PUT /api/v1/notes/{id}.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := s.notes.Update(r.Context(), userID(r), chi.URLParam(r, "id"), noteuc.Input{
		Title:     req.Title,
		Content:   req.Content,
		FolderID:  req.FolderID,
		ProjectID: req.ProjectID,
		ClientID:  req.ClientID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteToResponse(n, false))
}

// handleDeleteNote handles DELETE /api/v1/notes/{id}.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleNoteSummary handles GET /api/v1/notes/{id}/summary.
func (s *Server) handleNoteSummary(w http.ResponseWriter, r *http.Request) {
	noteID := chi.URLParam(r, "id")
	text, err := s.summary.Get(r.Context(), userID(r), noteID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"note_id": noteID,
		"summary": text,
	})
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string  `json:"query"`
		Limit     int     `json:"limit,omitempty"`
		Threshold float64 `json:"threshold,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.notes.Search(r.Context(), userID(r), req.Query, req.Limit, req.Threshold)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  notesToResponse(result.Notes, true),
		"answer": result.Answer,
	})
}
