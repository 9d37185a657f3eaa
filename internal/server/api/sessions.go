// Package api provides HTTP API handlers for the HolsterCoach training system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/holstercoach/internal/store"
)

// SessionsHandler handles HTTP requests for the session log.
// The log is append-only and written by the session controller, so this
// handler is read-only: list and get.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type sessionResponse struct {
	ID         string `json:"id"`
	Module     string `json:"module"`
	Transcript string `json:"transcript"`
	StartedAt  string `json:"started_at"`
	StoppedAt  string `json:"stopped_at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session to a sessionResponse.
func toResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		Module:     s.Module,
		Transcript: s.Transcript,
		StartedAt:  s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		StoppedAt:  s.StoppedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions, optionally filtered by ?module=.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		sessions []*store.Session
		err      error
	)

	if module := r.URL.Query().Get("module"); module != "" {
		sessions, err = h.store.Sessions().ListByModule(module)
	} else {
		sessions, err = h.store.Sessions().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}
