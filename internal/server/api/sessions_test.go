package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/holstercoach/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func seedSession(t *testing.T, s *store.Store, module string) *store.Session {
	t.Helper()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &store.Session{
		ID:         uuid.New().String(),
		Module:     module,
		Transcript: "Solid stance. Hold it.",
		StartedAt:  started,
		StoppedAt:  started.Add(time.Minute),
	}
	if err := s.Sessions().Append(sess); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return sess
}

func TestSessionsHandler_List(t *testing.T) {
	s := newTestStore(t)
	seedSession(t, s, "stance")
	seedSession(t, s, "draw")

	handler := NewSessionsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listSessionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Sessions) != 2 {
		t.Errorf("got %d sessions, want 2", len(resp.Sessions))
	}
}

func TestSessionsHandler_ListByModule(t *testing.T) {
	s := newTestStore(t)
	seedSession(t, s, "stance")
	seedSession(t, s, "draw")

	handler := NewSessionsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions?module=draw", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp listSessionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Sessions) != 1 || resp.Sessions[0].Module != "draw" {
		t.Errorf("module filter returned %+v", resp.Sessions)
	}
}

func TestSessionsHandler_Get(t *testing.T) {
	s := newTestStore(t)
	seeded := seedSession(t, s, "full")

	handler := NewSessionsHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+seeded.ID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID != seeded.ID || resp.Transcript != seeded.Transcript {
		t.Errorf("got %+v, want seeded session", resp)
	}
}

func TestSessionsHandler_Get_NotFound(t *testing.T) {
	handler := NewSessionsHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSessionsHandler_WriteMethodsRejected(t *testing.T) {
	handler := NewSessionsHandler(newTestStore(t))

	// The log is append-only and owned by the session controller
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
