// Package tray provides a system tray interface for the HolsterCoach
// training system.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/holstercoach/internal/drill"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(enabled bool)
	onStart     func(module drill.Module)
	onStop      func()
	onDashboard func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle   *systray.MenuItem
	menuStop     *systray.MenuItem
	menuFeedback *systray.MenuItem
}

// New creates a new Tray instance with the pipeline enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when the capture pipeline is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnStartDrill sets the callback invoked when a drill module is selected.
func (t *Tray) OnStartDrill(fn func(module drill.Module)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnStopDrill sets the callback invoked when the stop item is clicked.
func (t *Tray) OnStopDrill(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStop = fn
}

// OnDashboard sets the callback invoked when the dashboard item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HolsterCoach")
	systray.SetTooltip("HolsterCoach Draw Training")

	t.menuToggle = systray.AddMenuItem("● Camera On", "Toggle the capture pipeline")
	systray.AddSeparator()

	menuStance := systray.AddMenuItem("Start Stance Drill", "Coach stance width only")
	menuGrip := systray.AddMenuItem("Start Grip Drill", "Coach grip only")
	menuDraw := systray.AddMenuItem("Start Draw Drill", "Time draws only")
	menuFull := systray.AddMenuItem("Start Full Drill", "Coach stance, grip, and draws")
	t.menuStop = systray.AddMenuItem("Stop Drill", "Stop the active session")
	t.menuStop.Disable()
	systray.AddSeparator()

	t.menuFeedback = systray.AddMenuItem("Coach: -", "Last coaching feedback")
	t.menuFeedback.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HolsterCoach")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuStance.ClickedCh:
				t.handleStart(drill.ModuleStance)
			case <-menuGrip.ClickedCh:
				t.handleStart(drill.ModuleGrip)
			case <-menuDraw.ClickedCh:
				t.handleStart(drill.ModuleDraw)
			case <-menuFull.ClickedCh:
				t.handleStart(drill.ModuleFull)
			case <-t.menuStop.ClickedCh:
				t.handleStop()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handleToggle handles the pipeline toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Camera On")
	} else {
		t.menuToggle.SetTitle("○ Camera Off")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleStart handles a drill module menu item click.
func (t *Tray) handleStart(module drill.Module) {
	t.mu.RLock()
	callback := t.onStart
	t.mu.RUnlock()

	if callback != nil {
		callback(module)
	}
}

// handleStop handles the stop drill menu item click.
func (t *Tray) handleStop() {
	t.mu.RLock()
	callback := t.onStop
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSessionActive updates the stop item's enabled state to mirror the
// session lifecycle.
func (t *Tray) SetSessionActive(active bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStop == nil {
		return
	}
	if active {
		t.menuStop.Enable()
	} else {
		t.menuStop.Disable()
	}
}

// SetFeedback updates the last coaching line shown in the menu.
func (t *Tray) SetFeedback(line string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuFeedback != nil {
		if line == "" {
			t.menuFeedback.SetTitle("Coach: -")
		} else {
			t.menuFeedback.SetTitle("Coach: " + line)
		}
	}
}

// IsEnabled returns the current pipeline toggle state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
