// Package app provides the main application logic for the HolsterCoach
// training system: it owns the capture pipeline and wires the session
// controller to storage, telemetry, and notifiers.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/holstercoach/internal/capture"
	"github.com/ayusman/holstercoach/internal/drill"
	"github.com/ayusman/holstercoach/internal/notify"
	"github.com/ayusman/holstercoach/internal/pose"
	"github.com/ayusman/holstercoach/internal/server"
	"github.com/ayusman/holstercoach/internal/store"
	"github.com/ayusman/holstercoach/internal/telemetry"
)

// Config holds configuration options for the application.
type Config struct {
	Store       *store.Store
	NotifierDir string
	CameraID    int

	// FPS is the fixed pipeline frame rate (default capture.DefaultFPS).
	FPS int

	// FeedbackInterval throttles coaching output.
	FeedbackInterval time.Duration

	// ArmMargin and CompleteMargin tune the draw-timer hysteresis.
	ArmMargin      float64
	CompleteMargin float64

	// NotifierTimeoutMs bounds each notifier execution.
	NotifierTimeoutMs int

	// Metrics receives pipeline and session telemetry. When nil, an
	// unregistered set is created so instrumentation never needs nil checks.
	Metrics *telemetry.Metrics

	// Live receives per-frame pose/metrics updates for connected WebSocket
	// clients. Optional.
	Live *server.LiveHandler
}

// App orchestrates the capture pipeline, pose detection, and the training
// session controller.
type App struct {
	config    Config
	camera    capture.Camera
	detector  pose.Detector
	session   *drill.Session
	notifiers *notify.Manager
	metrics   *telemetry.Metrics
	live      *server.LiveHandler

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	// pendingFeedback buffers lines emitted by the session controller
	// between pipeline ticks, for delivery in the next live update.
	pendingFeedback []string
	lastFeedback    string

	// UI hooks, forwarded from the session controller.
	onFeedbackLine func(line string)
	onSessionState func(active bool)
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}
	if config.Metrics == nil {
		config.Metrics = telemetry.New(prometheus.NewRegistry())
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		notifiers: notify.NewManager(config.NotifierDir, config.NotifierTimeoutMs),
		metrics:   config.Metrics,
		live:      config.Live,
	}

	var sink drill.LogSink
	if config.Store != nil {
		sink = &storeSink{store: config.Store}
	}
	a.session = drill.NewSession(sink, drill.Options{
		FeedbackInterval: config.FeedbackInterval,
		ArmMargin:        config.ArmMargin,
		CompleteMargin:   config.CompleteMargin,
	})
	a.wireSessionHooks()

	// Try MoveNet first, fall back to mock detector
	if mn, err := pose.NewMoveNetDetector(pose.DefaultConfig()); err == nil {
		a.detector = mn
		log.Println("Using MoveNet pose detection")
	} else {
		log.Printf("MoveNet not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// wireSessionHooks connects session controller events to telemetry, live
// delivery, and notifiers.
func (a *App) wireSessionHooks() {
	a.session.OnDraw(func(module drill.Module, d time.Duration) {
		a.metrics.DrawEvents.Inc()
		a.metrics.DrawDuration.Observe(d.Seconds())

		// Notifiers run external executables; keep them off the frame path.
		go a.notifiers.Dispatch(&notify.Request{
			Event:      notify.EventDraw,
			Module:     string(module),
			Message:    fmt.Sprintf("Draw time %.2fs", d.Seconds()),
			DurationMs: float64(d.Milliseconds()),
		})
	})

	a.session.OnFeedback(func(module drill.Module, lines []string) {
		a.metrics.FeedbackLines.Add(float64(len(lines)))
		a.stashFeedback(lines)

		a.mu.RLock()
		fn := a.onFeedbackLine
		a.mu.RUnlock()
		if fn != nil && len(lines) > 0 {
			fn(lines[len(lines)-1])
		}
	})

	a.session.OnStateChange(func(active bool, module drill.Module) {
		if active {
			a.metrics.SessionActive.Set(1)
		} else {
			a.metrics.SessionActive.Set(0)
			a.metrics.SessionsCompleted.Inc()

			go a.notifiers.Dispatch(&notify.Request{
				Event:  notify.EventSessionStop,
				Module: string(module),
			})
		}

		a.mu.RLock()
		fn := a.onSessionState
		a.mu.RUnlock()
		if fn != nil {
			fn(active)
		}
	})
}

// OnFeedbackLine registers a hook receiving the latest coaching line, for
// UI surfaces that show one line at a time.
func (a *App) OnFeedbackLine(fn func(line string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onFeedbackLine = fn
}

// OnSessionState registers a hook receiving session start/stop transitions.
func (a *App) OnSessionState(fn func(active bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSessionState = fn
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// DiscoverNotifiers scans the notifier directory and loads available notifiers.
func (a *App) DiscoverNotifiers() error {
	return a.notifiers.Discover()
}

// Start begins the capture pipeline. Starting the pipeline is independent
// of the drill session lifecycle: frames flow whenever the pipeline runs,
// and the session controller ignores them while idle.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.FPS)

	a.stopCh = make(chan struct{})
	go a.runPipeline()

	log.Println("Capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources. Any active
// session is stopped first so its transcript is persisted.
func (a *App) Stop() {
	if err := a.session.Stop(); err != nil {
		log.Printf("Error persisting session on shutdown: %v", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Capture pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Session returns the training session controller.
func (a *App) Session() *drill.Session {
	return a.session
}

// Notifiers returns the notifier manager.
func (a *App) Notifiers() *notify.Manager {
	return a.notifiers
}

// LastFeedback returns the most recent coaching line, for UI surfaces that
// show a single line at a time.
func (a *App) LastFeedback() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastFeedback
}

// stashFeedback buffers freshly emitted coaching lines until the next
// pipeline tick picks them up for live delivery.
func (a *App) stashFeedback(lines []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingFeedback = append(a.pendingFeedback, lines...)
	if len(lines) > 0 {
		a.lastFeedback = lines[len(lines)-1]
	}
}

// takeFeedback drains the buffered coaching lines.
func (a *App) takeFeedback() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	lines := a.pendingFeedback
	a.pendingFeedback = nil
	return lines
}
