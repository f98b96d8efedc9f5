package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domclient "github.com/notably-app/notably/internal/domain/client"
	clientuc "github.com/notably-app/notably/internal/usecase/client"
)

type clientRequest struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func clientToResponse(c domclient.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Company:   c.Company,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: time.UnixMilli(c.CreatedAt).UTC(),
	}
}

// handleCreateClient handles POST /api/v1/clients.
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.clients.Create(r.Context(), userID(r), clientuc.Input{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, clientToResponse(c))
}

// handleListClients handles GET /api/v1/clients.
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context(), userID(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]clientResponse, len(clients))
	for i, c := range clients {
		items[i] = clientToResponse(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleGetClient handles GET /api/v1/clients/{id}.
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.clients.Get(r.Context(), userID(r), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clientToResponse(c))
}

// handleUpdateClient handles PUT /api/v1/clients/{id}.
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := s.clients.Update(r.Context(), userID(r), chi.URLParam(r, "id"), clientuc.Input{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clientToResponse(c))
}

// handleDeleteClient handles DELETE /api/v1/clients/{id}.
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
