// Package api provides HTTP API handlers for inspecting and steering a
// running handmouse engine.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/handmouse/internal/journal"
)

// SessionHandler serves the action journal read-only.
type SessionHandler struct {
	journal *journal.Journal
}

// NewSessionHandler creates a new SessionHandler over j.
func NewSessionHandler(j *journal.Journal) *SessionHandler {
	return &SessionHandler{journal: j}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type sessionResponse struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Frames    int    `json:"frames"`
	Current   bool   `json:"current"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type entryResponse struct {
	Frame    int    `json:"frame"`
	Kind     string `json:"kind"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Button   string `json:"button,omitempty"`
	Delta    int    `json:"delta,omitempty"`
	Modifier string `json:"modifier,omitempty"`
	Key      string `json:"key,omitempty"`
	Gesture  string `json:"gesture,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	At       string `json:"at"`
}

type sessionEntriesResponse struct {
	ID      string          `json:"id"`
	Entries []entryResponse `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *SessionHandler) toResponse(s journal.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Source:    s.Source,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Frames:    s.Frames,
		Current:   s.ID == h.journal.SessionID(),
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
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

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.journal.Sessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	response := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, h.toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and returns the session's actions.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	entries, err := h.journal.Entries(id)
	if err != nil {
		if errors.Is(err, journal.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}

	response := sessionEntriesResponse{ID: id, Entries: make([]entryResponse, 0, len(entries))}
	for _, e := range entries {
		response.Entries = append(response.Entries, entryResponse{
			Frame:    e.Frame,
			Kind:     string(e.Action.Kind),
			X:        e.Action.X,
			Y:        e.Action.Y,
			Button:   string(e.Action.Button),
			Delta:    e.Action.Delta,
			Modifier: e.Action.Modifier,
			Key:      e.Action.Key,
			Gesture:  e.Gesture,
			Status:   e.Status,
			Error:    e.Error,
			At:       e.At.Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
