package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domfolder "github.com/notably-app/notably/internal/domain/folder"
	folderuc "github.com/notably-app/notably/internal/usecase/folder"
)

type folderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
}

// folderPatchRequest distinguishes "field absent" from "field set to empty".
type folderPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parent_id"`
}

type folderMoveRequest struct {
	ParentID string `json:"parent_id"`
}

type folderResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type folderTreeNode struct {
	folderResponse
	Children []folderTreeNode `json:"children"`
}

func folderToResponse(f domfolder.Folder) folderResponse {
	return folderResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ParentID:    f.ParentID,
		CreatedAt:   time.UnixMilli(f.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(f.UpdatedAt).UTC(),
	}
}

func treeToResponse(nodes []*domfolder.Node) []folderTreeNode {
	out := make([]folderTreeNode, len(nodes))
	for i, n := range nodes {
		out[i] = folderTreeNode{
			folderResponse: folderToResponse(n.Folder),
			Children:       treeToResponse(n.Children),
		}
	}
	return out
}

// handleCreateFolder handles POST /api/v1/folders.
func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := s.folders.Create(r.Context(), userID(r), folderuc.Input{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, folderToResponse(f))
}

// handleListFolders handles GET /api/v1/folders.
func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.folders.List(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]folderResponse, len(folders))
	for i, f := range folders {
		items[i] = folderToResponse(f)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleFolderTree handles GET /api/v1/folders/tree.
func (s *Server) handleFolderTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.folders.Tree(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": treeToResponse(tree)})
}

// handleGetFolder handles GET /api/v1/folders/{id}.
func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	f, err := s.folders.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folderToResponse(f))
}

// handleUpdateFolder handles PATCH /api/v1/folders/{id}. Absent fields
// keep their current values.
func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderPatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	owner := userID(r)
	folderID := chi.URLParam(r, "id")

	cur, err := s.folders.Get(r.Context(), owner, folderID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	in := folderuc.Input{Name: cur.Name, Description: cur.Description, ParentID: cur.ParentID}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.ParentID != nil {
		in.ParentID = *req.ParentID
	}

	f, err := s.folders.Update(r.Context(), owner, folderID, in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folderToResponse(f))
}

// handleMoveFolder handles POST /api/v1/folders/{id}/move. An empty
// parent_id moves the folder to the root.
func (s *Server) handleMoveFolder(w http.ResponseWriter, r *http.Request) {
	var req folderMoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f, err := s.folders.Move(r.Context(), userID(r), chi.URLParam(r, "id"), req.ParentID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folderToResponse(f))
}

// handleDeleteFolder handles DELETE /api/v1/folders/{id}.
func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := s.folders.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
