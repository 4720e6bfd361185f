package api

import (
	"encoding/json"
	"net/http"
)

// Controller is the part of the engine's control surface exposed over HTTP.
type Controller interface {
	Paused() bool
	SetPaused(paused bool)
	TogglePause() bool
	Quit()
	QuitRequested() bool
}

// ControlHandler serves GET and POST /api/control.
type ControlHandler struct {
	control Controller
}

// NewControlHandler creates a ControlHandler for c.
func NewControlHandler(c Controller) *ControlHandler {
	return &ControlHandler{control: c}
}

type controlRequest struct {
	// Command is one of "pause", "resume", "toggle" or "quit".
	Command string `json:"command"`
}

type controlResponse struct {
	Paused   bool `json:"paused"`
	Quitting bool `json:"quitting"`
}

func (h *ControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req controlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		switch req.Command {
		case "pause":
			h.control.SetPaused(true)
		case "resume":
			h.control.SetPaused(false)
		case "toggle":
			h.control.TogglePause()
		case "quit":
			h.control.Quit()
		default:
			writeError(w, http.StatusBadRequest, "unknown command")
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, controlResponse{
		Paused:   h.control.Paused(),
		Quitting: h.control.QuitRequested(),
	})
}
