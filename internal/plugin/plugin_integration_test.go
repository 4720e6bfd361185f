package plugin

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPlugin_Xdotool_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	if runtime.GOOS != "linux" {
		t.Skip("xdotool plugin only works on Linux")
	}
	if _, err := exec.LookPath("xdotool"); err != nil || os.Getenv("DISPLAY") == "" {
		t.Skip("xdotool or an X display is not available")
	}

	pluginDir := findPluginDir("xdotool")
	if pluginDir == "" {
		t.Skip("xdotool plugin not built")
	}
	if _, err := os.Stat(filepath.Join(pluginDir, "xdotool-plugin")); err != nil {
		t.Skip("xdotool plugin not built")
	}

	mgr := NewManager(filepath.Dir(pluginDir), zerolog.Nop())
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plug, err := mgr.Get("xdotool")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// a request the plugin must reject without touching the display
	resp, err := NewExecutor(5*time.Second).Execute(context.Background(), plug, &Request{Action: "teleport"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resp.Success {
		t.Error("expected failure for unknown action")
	}
}

func findPluginDir(name string) string {
	candidates := []string{
		filepath.Join("../../plugins", name),
		filepath.Join("../../../plugins", name),
	}

	for _, dir := range candidates {
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		return abs
	}

	return ""
}
