// Package main provides an input plugin for X11 desktops.
// It moves the pointer, clicks, scrolls and sends key chords via xdotool.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action   string `json:"action"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Button   string `json:"button"`
	Delta    int    `json:"delta"`
	Modifier string `json:"modifier"`
	Key      string `json:"key"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// actionHandler builds the xdotool arguments for one request.
type actionHandler func(req Request) ([]string, error)

var actionHandlers = map[string]actionHandler{
	"move":       move,
	"mouse-down": func(Request) ([]string, error) { return []string{"mousedown", "1"}, nil },
	"mouse-up":   func(Request) ([]string, error) { return []string{"mouseup", "1"}, nil },
	"click":      click,
	"scroll":     scroll,
	"key-combo":  keyCombo,
}

// modifierMap maps modifier names to xdotool key names.
var modifierMap = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"cmd":     "super",
	"command": "super",
	"super":   "super",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	args, err := handler(req)
	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}
	if len(args) > 0 {
		if err := runXdotool(args...); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	}

	writeSuccessResponse()
}

func move(req Request) ([]string, error) {
	if req.X < 0 || req.Y < 0 {
		return nil, fmt.Errorf("negative coordinates %d,%d", req.X, req.Y)
	}
	return []string{"mousemove", strconv.Itoa(req.X), strconv.Itoa(req.Y)}, nil
}

func click(req Request) ([]string, error) {
	switch req.Button {
	case "", "left":
		return []string{"click", "1"}, nil
	case "right":
		return []string{"click", "3"}, nil
	default:
		return nil, fmt.Errorf("unknown button %q", req.Button)
	}
}

// scroll maps positive deltas to wheel-up (button 4) and negative to
// wheel-down (button 5). A zero delta does nothing.
func scroll(req Request) ([]string, error) {
	if req.Delta == 0 {
		return nil, nil
	}
	button, n := "4", req.Delta
	if n < 0 {
		button, n = "5", -n
	}
	return []string{"click", "--repeat", strconv.Itoa(n), button}, nil
}

func keyCombo(req Request) ([]string, error) {
	if req.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if req.Modifier == "" {
		return []string{"key", req.Key}, nil
	}
	mod, ok := modifierMap[strings.ToLower(req.Modifier)]
	if !ok {
		return nil, fmt.Errorf("unknown modifier %q", req.Modifier)
	}
	return []string{"key", mod + "+" + req.Key}, nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func runXdotool(args ...string) error {
	output, err := exec.Command("xdotool", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
