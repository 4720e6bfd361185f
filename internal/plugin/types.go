// Package plugin runs external input plugins. A plugin is an executable
// that reads one JSON Request on stdin and answers with one JSON Response
// on stdout.
package plugin

import (
	"encoding/json"

	"github.com/ayusman/handmouse/internal/action"
)

// Manifest describes a plugin's metadata and the action kinds it handles.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Supports reports whether the plugin declared the given action kind.
func (m Manifest) Supports(kind action.Kind) bool {
	for _, a := range m.Actions {
		if a == string(kind) {
			return true
		}
	}
	return false
}

// Request is sent to a plugin for one action.
type Request struct {
	Action   string `json:"action"`
	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Button   string `json:"button,omitempty"`
	Delta    int    `json:"delta,omitempty"`
	Modifier string `json:"modifier,omitempty"`
	Key      string `json:"key,omitempty"`
}

// NewRequest builds the request for a.
func NewRequest(a action.Action) *Request {
	return &Request{
		Action:   string(a.Kind),
		X:        a.X,
		Y:        a.Y,
		Button:   string(a.Button),
		Delta:    a.Delta,
		Modifier: a.Modifier,
		Key:      a.Key,
	}
}

// Response is a plugin's answer.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
