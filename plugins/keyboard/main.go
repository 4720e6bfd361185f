// Package main provides a keyboard plugin for macOS.
// It sends modifier+key chords via AppleScript, which covers the copy and
// paste gestures on machines where the built-in sink lacks accessibility
// permissions.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor. Only key-combo
// fields are read.
type Request struct {
	Action   string `json:"action"`
	Modifier string `json:"modifier"`
	Key      string `json:"key"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
// "ctrl" becomes command so that copy and paste chords behave natively.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"ctrl":    "command down",
	"control": "control down",
	"option":  "option down",
	"alt":     "option down",
	"shift":   "shift down",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	if req.Action != "key-combo" {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err := handleKeyCombo(req); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func handleKeyCombo(req Request) error {
	if req.Key == "" {
		return fmt.Errorf("key is required")
	}
	return runAppleScript(buildKeystrokeScript(req.Key, req.Modifier))
}

// buildKeystrokeScript generates an AppleScript for the given key and modifier.
func buildKeystrokeScript(key, modifier string) string {
	appleMod, ok := modifierMap[strings.ToLower(modifier)]
	if !ok {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, key, appleMod)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
