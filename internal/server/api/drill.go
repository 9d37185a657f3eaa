package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/holstercoach/internal/drill"
)

// DrillHandler exposes session start/stop control to the UI layer.
type DrillHandler struct {
	session *drill.Session
}

// NewDrillHandler creates a new DrillHandler driving the given session
// controller.
func NewDrillHandler(session *drill.Session) *DrillHandler {
	return &DrillHandler{session: session}
}

// ServeHTTP implements the http.Handler interface and routes requests.
func (h *DrillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/drill/start, /api/drill/stop, /api/drill/status
	action := strings.TrimPrefix(r.URL.Path, "/api/drill/")

	switch action {
	case "start":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.start(w, r)
	case "stop":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.stop(w, r)
	case "status":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h.status(w, r)
	default:
		writeError(w, http.StatusNotFound, "Unknown drill action")
	}
}

type startDrillRequest struct {
	Module string `json:"module"`
}

type drillStatusResponse struct {
	Active bool   `json:"active"`
	Module string `json:"module,omitempty"`
}

// start handles POST /api/drill/start.
func (h *DrillHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startDrillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	module, err := drill.ParseModule(req.Module)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.session.Start(module); err != nil {
		if errors.Is(err, drill.ErrSessionActive) {
			writeError(w, http.StatusConflict, "A session is already active")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	writeJSON(w, http.StatusOK, drillStatusResponse{Active: true, Module: string(module)})
}

// stop handles POST /api/drill/stop. Stopping an idle controller is a
// harmless no-op, so this always succeeds.
func (h *DrillHandler) stop(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist session log")
		return
	}

	writeJSON(w, http.StatusOK, drillStatusResponse{Active: false})
}

// status handles GET /api/drill/status.
func (h *DrillHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, drillStatusResponse{
		Active: h.session.Active(),
		Module: string(h.session.Module()),
	})
}
