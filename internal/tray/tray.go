// Package tray provides the system tray menu for handmouse: a pause toggle,
// the last fired gesture and quit.
package tray

import (
	"sync"

	"github.com/ayusman/handmouse/internal/engine"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/getlantern/systray"
)

// Controls is what the tray steers. *engine.Control satisfies it.
type Controls interface {
	TogglePause() bool
	Paused() bool
	Quit()
}

// Tray represents the system tray application.
type Tray struct {
	control Controls
	mu      sync.RWMutex

	// last carries fired gesture names from the engine goroutine to the
	// menu goroutine; only the newest pending name is kept.
	last chan string

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
}

// New creates a Tray steering control.
func New(control Controls) *Tray {
	return &Tray{
		control: control,
		last:    make(chan string, 1),
	}
}

// Run starts the system tray application. It blocks until Quit and must be
// called from the main goroutine on macOS.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// Observe records the last fired gesture. It never blocks the engine.
func (t *Tray) Observe(f engine.Frame) {
	if f.Result.Fired == gesture.ClassNone {
		return
	}
	name := f.Result.Fired.String()
	select {
	case t.last <- name:
	default:
		// replace the stale pending name
		select {
		case <-t.last:
		default:
		}
		select {
		case t.last <- name:
		default:
		}
	}
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("handmouse")
	systray.SetTooltip("handmouse hand tracking mouse")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.control.Paused()), "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(lastTitle(""), "Last fired gesture")
	t.menuLastGesture.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit handmouse")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case name := <-t.last:
				t.setLastGesture(name)
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips the pause state and relabels the menu item.
func (t *Tray) handleToggle() {
	paused := t.control.TogglePause()

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(paused))
	}
}

// handleQuit asks the engine to stop and closes the tray.
func (t *Tray) handleQuit() {
	t.control.Quit()
	systray.Quit()
}

func (t *Tray) setLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture != nil {
		t.menuLastGesture.SetTitle(lastTitle(name))
	}
}

func toggleTitle(paused bool) string {
	if paused {
		return "○ Paused"
	}
	return "● Active"
}

func lastTitle(name string) string {
	if name == "" {
		return "Last: none"
	}
	return "Last: " + name
}
