// Package telemetry provides Prometheus metrics for the HolsterCoach
// pipeline and session lifecycle.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "holstercoach"

// Metrics holds all Prometheus collectors for the application.
type Metrics struct {
	// Pipeline metrics
	FramesProcessed prometheus.Counter
	PosesDetected   prometheus.Counter
	DetectionErrors prometheus.Counter

	// Session metrics
	SessionsCompleted prometheus.Counter
	SessionActive     prometheus.Gauge
	FeedbackLines     prometheus.Counter

	// Draw metrics
	DrawEvents   prometheus.Counter
	DrawDuration prometheus.Histogram
}

// New registers all collectors with the given registerer and returns them.
// Pass prometheus.DefaultRegisterer for normal operation or a fresh registry
// in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FramesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Frames read from the camera and run through the pipeline.",
		}),
		PosesDetected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poses_detected_total",
			Help:      "Frames in which a subject pose was detected.",
		}),
		DetectionErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detection_errors_total",
			Help:      "Pose detection calls that returned an error.",
		}),
		SessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "Training sessions stopped and persisted to the log.",
		}),
		SessionActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "Whether a training session is currently running (0 or 1).",
		}),
		FeedbackLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_lines_total",
			Help:      "Coaching feedback lines emitted to the transcript.",
		}),
		DrawEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draw_events_total",
			Help:      "Completed draw-from-holster repetitions detected.",
		}),
		DrawDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "draw_duration_seconds",
			Help:      "Distribution of measured draw times.",
			Buckets:   []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 2.5, 3.0, 4.0, 5.0},
		}),
	}
}
