package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayusman/holstercoach/internal/app"
	"github.com/ayusman/holstercoach/internal/config"
	"github.com/ayusman/holstercoach/internal/drill"
	"github.com/ayusman/holstercoach/internal/server"
	"github.com/ayusman/holstercoach/internal/store"
	"github.com/ayusman/holstercoach/internal/telemetry"
	"github.com/ayusman/holstercoach/internal/tray"
)

func main() {
	fmt.Println("HolsterCoach - Draw Training Coach")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	metrics := telemetry.New(prometheus.DefaultRegisterer)
	live := server.NewLiveHandler()

	application := app.New(app.Config{
		Store:             st,
		NotifierDir:       cfg.NotifierDir,
		CameraID:          cfg.CameraID,
		FPS:               cfg.FPS,
		FeedbackInterval:  time.Duration(cfg.FeedbackIntervalMs) * time.Millisecond,
		ArmMargin:         cfg.DrawArmMargin,
		CompleteMargin:    cfg.DrawCompleteMargin,
		NotifierTimeoutMs: cfg.NotifierTimeoutMs,
		Metrics:           metrics,
		Live:              live,
	})

	if err := application.DiscoverNotifiers(); err != nil {
		log.Printf("Notifier discovery failed: %v", err)
	} else {
		log.Printf("Discovered %d notifiers", len(application.Notifiers().List()))
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    application.Camera(),
		Session:   application.Session(),
		Live:      live,
		Gatherer:  prometheus.DefaultGatherer,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := application.Start(); err != nil {
		log.Printf("Capture pipeline unavailable: %v", err)
	} else {
		application.SetEnabled(true)
	}

	t := tray.New()
	t.OnToggle(application.SetEnabled)
	t.OnStartDrill(func(module drill.Module) {
		if err := application.Session().Start(module); err != nil {
			log.Printf("Failed to start %s drill: %v", module, err)
		}
	})
	t.OnStopDrill(func() {
		if err := application.Session().Stop(); err != nil {
			log.Printf("Failed to stop drill: %v", err)
		}
	})
	t.OnDashboard(func() {
		log.Printf("Dashboard available at http://localhost%s/", cfg.Addr)
	})
	t.OnQuit(func() {
		application.Stop()
	})
	application.OnFeedbackLine(t.SetFeedback)
	application.OnSessionState(t.SetSessionActive)

	// Blocks until quit; systray must run on the main goroutine.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.holstercoach/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".holstercoach", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
