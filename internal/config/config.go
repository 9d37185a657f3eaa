// Package config defines application configuration and its loading chain.
package config

import (
	"os"
	"path/filepath"
)

// Config contains process configuration for the HolsterCoach application.
type Config struct {
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database location. Empty selects
	// ~/.holstercoach/holstercoach.db.
	DBPath string `koanf:"db_path"`

	// CameraID selects the capture device.
	CameraID int `koanf:"camera_id"`

	// FPS is the capture/inference frame rate.
	FPS int `koanf:"fps"`

	// FeedbackIntervalMs throttles coaching feedback emission.
	FeedbackIntervalMs int `koanf:"feedback_interval_ms"`

	// DefaultModule is the training module preselected in the UI.
	DefaultModule string `koanf:"default_module"`

	// NotifierDir is scanned for notifier plugins.
	NotifierDir string `koanf:"notifier_dir"`

	// NotifierTimeoutMs bounds a single notifier execution.
	NotifierTimeoutMs int `koanf:"notifier_timeout_ms"`

	// DrawArmMargin and DrawCompleteMargin tune the draw-timer
	// hysteresis band, in normalized screen-space units.
	DrawArmMargin      float64 `koanf:"draw_arm_margin"`
	DrawCompleteMargin float64 `koanf:"draw_complete_margin"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:               ":8080",
		DBPath:             defaultDBPath(),
		CameraID:           0,
		FPS:                15,
		FeedbackIntervalMs: 1000,
		DefaultModule:      "full",
		NotifierDir:        defaultNotifierDir(),
		NotifierTimeoutMs:  5000,
		DrawArmMargin:      0.05,
		DrawCompleteMargin: 0.15,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "holstercoach.db"
	}
	return filepath.Join(home, ".holstercoach", "holstercoach.db")
}

func defaultNotifierDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "notifiers"
	}
	return filepath.Join(home, ".holstercoach", "notifiers")
}
