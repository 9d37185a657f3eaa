package notify

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotifierNotFound is returned when a requested notifier cannot be found.
var ErrNotifierNotFound = errors.New("notifier not found")

// Manager manages notifier discovery and event dispatch.
type Manager struct {
	dir       string
	notifiers map[string]*Notifier
	executor  *Executor
	mu        sync.RWMutex
}

// NewManager creates a notifier Manager scanning the given directory,
// executing notifiers with the given timeout in milliseconds.
func NewManager(dir string, timeoutMs int) *Manager {
	return &Manager{
		dir:       dir,
		notifiers: make(map[string]*Notifier),
		executor:  NewExecutor(timeoutMs),
	}
}

// Discover scans the notifier directory for notifier.json manifests.
// Each subdirectory is expected to be one notifier with a manifest.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear existing notifiers
	m.notifiers = make(map[string]*Notifier)

	info, err := os.Stat(m.dir)
	if os.IsNotExist(err) {
		return nil // No notifier directory, nothing to discover
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		notifierPath := filepath.Join(m.dir, entry.Name())
		manifestPath := filepath.Join(notifierPath, "notifier.json")

		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}

		manifestData, err := os.ReadFile(manifestPath)
		if err != nil {
			continue // Skip notifiers we can't read
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue // Skip notifiers with invalid JSON
		}

		m.notifiers[manifest.Name] = &Notifier{
			Manifest:   manifest,
			Path:       notifierPath,
			Executable: filepath.Join(notifierPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns a notifier by name.
// Returns ErrNotifierNotFound if the notifier does not exist.
func (m *Manager) Get(name string) (*Notifier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notifiers[name]
	if !ok {
		return nil, ErrNotifierNotFound
	}

	return n, nil
}

// List returns a slice of all discovered notifiers.
func (m *Manager) List() []*Notifier {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notifiers := make([]*Notifier, 0, len(m.notifiers))
	for _, n := range m.notifiers {
		notifiers = append(notifiers, n)
	}

	return notifiers
}

// Dispatch delivers an event to every subscribed notifier. Notifier
// failures are logged and never propagate: coaching must not stall because
// a beep script misbehaved.
func (m *Manager) Dispatch(req *Request) {
	for _, n := range m.List() {
		if !n.Subscribed(req.Event) {
			continue
		}

		resp, err := m.executor.Execute(n, req)
		if err != nil {
			log.Printf("Notifier %s failed on %s: %v", n.Manifest.Name, req.Event, err)
			continue
		}
		if !resp.Success {
			log.Printf("Notifier %s rejected %s: %s", n.Manifest.Name, req.Event, resp.Error)
		}
	}
}
