package chi

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	domproject "github.com/notably-app/notably/internal/domain/project"
	projectuc "github.com/notably-app/notably/internal/usecase/project"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
}

type projectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	ClientID    string    `json:"client_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type fileRequest struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type fileResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	URL         string    `json:"url,omitempty"`
	URLError    string    `json:"url_error,omitempty"`
}

func projectToResponse(p domproject.Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		ClientID:    p.ClientID,
		CreatedAt:   time.UnixMilli(p.CreatedAt).UTC(),
	}
}

func fileToResponse(f domproject.File) fileResponse {
	return fileResponse{
		ID:          f.ID,
		ProjectID:   f.ProjectID,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
		CreatedAt:   time.UnixMilli(f.CreatedAt).UTC(),
		URL:         f.URL,
		URLError:    f.URLError,
	}
}

// handleCreateProject handles POST /api/v1/projects.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.projects.Create(r.Context(), userID(r), projectuc.Input{
		Name:        req.Name,
		Description: req.Description,
		Status:      domproject.Status(req.Status),
		ClientID:    req.ClientID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectToResponse(p))
}

// handleListProjects handles GET /api/v1/projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]projectResponse, len(projects))
	for i, p := range projects {
		items[i] = projectToResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleGetProject handles GET /api/v1/projects/{id}.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.projects.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectToResponse(p))
}

// handleUpdateProject handles PUT /api/v1/projects/{id}.
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := s.projects.Update(r.Context(), userID(r), chi.URLParam(r, "id"), projectuc.Input{
		Name:        req.Name,
		Description: req.Description,
		Status:      domproject.Status(req.Status),
		ClientID:    req.ClientID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectToResponse(p))
}

// handleDeleteProject handles DELETE /api/v1/projects/{id}.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAskProject handles POST /api/v1/projects/{id}/ask.
func (s *Server) handleAskProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	ans, err := s.projects.Ask(r.Context(), userID(r), chi.URLParam(r, "id"), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"answer": ans.Text,
		"source": string(ans.Source),
	})
}

// handleCreateFile handles POST /api/v1/projects/{id}/files.
func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := s.projects.CreateFile(r.Context(), userID(r), chi.URLParam(r, "id"), projectuc.FileInput{
		Name:        req.Name,
		Size:        req.Size,
		ContentType: req.ContentType,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fileToResponse(f))
}

// handleListFiles handles GET /api/v1/projects/{id}/files.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.projects.ListFiles(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]fileResponse, len(files))
	for i, f := range files {
		items[i] = fileToResponse(f)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleDeleteFile handles DELETE /api/v1/files/{id}.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.DeleteFile(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// verifySignature checks the signed URL parameters on a blob request.
func (s *Server) verifySignature(w http.ResponseWriter, r *http.Request, fileID string) bool {
	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		writeError(w, http.StatusForbidden, codeForbidden, "missing or invalid expires parameter")
		return false
	}
	if err := s.signer.Verify(r.Method, fileID, expires, r.URL.Query().Get("signature")); err != nil {
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
		return false
	}
	return true
}

// handleUploadBlob handles PUT /api/v1/files/{id}/blob.
func (s *Server) handleUploadBlob(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")
	if !s.verifySignature(w, r, fileID) {
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read request body")
		return
	}

	if err := s.projects.UploadBlob(r.Context(), fileID, data); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadBlob handles GET /api/v1/files/{id}/blob.
func (s *Server) handleDownloadBlob(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")
	if !s.verifySignature(w, r, fileID) {
		return
	}

	f, data, err := s.projects.DownloadBlob(r.Context(), fileID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
