// Package notify delivers training events to external notifier plugins,
// small executables that speak JSON over stdin/stdout (audio beeps, TTS
// coaching, shot-timer displays).
package notify

import "encoding/json"

// Event names delivered to notifiers.
const (
	// EventDraw fires once per completed draw repetition.
	EventDraw = "draw"
	// EventSessionStop fires when a session ends and its log is persisted.
	EventSessionStop = "session_stop"
)

// Manifest describes a notifier's metadata and the events it subscribes to.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Events      []string `json:"events"`
}

// Request represents an event sent to a notifier for handling.
type Request struct {
	Event      string  `json:"event"`
	Module     string  `json:"module"`
	Message    string  `json:"message,omitempty"`
	DurationMs float64 `json:"durationMs,omitempty"`
}

// Response represents the reply from a notifier execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Notifier represents a discovered notifier with its manifest and location.
type Notifier struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribed reports whether the notifier wants the given event.
func (n *Notifier) Subscribed(event string) bool {
	for _, e := range n.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
