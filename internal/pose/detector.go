package pose

import "gocv.io/x/gocv"

// Detector defines the interface for body pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected pose for the
	// most prominent subject. Returns nil (and no error) when no subject
	// is visible in the frame.
	Detect(frame *gocv.Mat) (*Pose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinPoseScore is the minimum whole-pose confidence for a detection
	// to be reported (0.0-1.0).
	MinPoseScore float64

	// MinKeypointScore is the per-landmark confidence threshold passed
	// through to downstream filtering.
	MinKeypointScore float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinPoseScore:     0.25,
		MinKeypointScore: MinKeypointScore,
	}
}
