// Package analysis derives biomechanical metrics from a single body pose.
package analysis

import (
	"github.com/ayusman/holstercoach/internal/pose"
)

// Classification thresholds.
const (
	// GripCoefficient scales shoulder width into the maximum wrist
	// separation that still counts as a two-hand grip.
	GripCoefficient = 0.35
)

// Metrics is the per-frame metrics record derived from one pose. Each field
// depends on a different subset of landmarks being present and confident, so
// all fields are independently nullable; absence of required landmarks yields
// nil, never an error. A Metrics value is derived fresh every frame and never
// mutated after construction.
type Metrics struct {
	// StanceRatio is the ankle-spread distance normalized by shoulder
	// width, making it scale-invariant to subject distance from camera.
	StanceRatio *float64 `json:"stanceRatio"`

	// GripTwoHand reports whether both wrists are held close together
	// relative to shoulder width.
	GripTwoHand *bool `json:"gripTwoHand"`

	// WristY and HipY are the normalized vertical positions of the
	// dominant-side (right) wrist and hip. Screen-space convention:
	// y grows downward.
	WristY *float64 `json:"wristY"`
	HipY   *float64 `json:"hipY"`
}

// Compute derives a Metrics record from one pose and the source frame's
// pixel dimensions. Pure function: no side effects, no failure, and
// identical inputs yield identical outputs.
func Compute(p *pose.Pose, width, height int) Metrics {
	var m Metrics

	points := p.Index(width, height, pose.MinKeypointScore)

	ls, hasLS := points[pose.LeftShoulder]
	rs, hasRS := points[pose.RightShoulder]

	var shoulderDist float64
	if hasLS && hasRS {
		shoulderDist = pose.Distance(ls, rs)
	}

	// Stance ratio needs both ankles, both shoulders, and a non-degenerate
	// shoulder segment.
	la, hasLA := points[pose.LeftAnkle]
	ra, hasRA := points[pose.RightAnkle]
	if hasLA && hasRA && shoulderDist > 0 {
		ratio := pose.Distance(la, ra) / shoulderDist
		m.StanceRatio = &ratio
	}

	// Grip classification needs both wrists and the same shoulder segment.
	lw, hasLW := points[pose.LeftWrist]
	rw, hasRW := points[pose.RightWrist]
	if hasLW && hasRW && shoulderDist > 0 {
		twoHand := pose.Distance(lw, rw) < GripCoefficient*shoulderDist
		m.GripTwoHand = &twoHand
	}

	if hasRW {
		y := rw.Y
		m.WristY = &y
	}
	if rh, ok := points[pose.RightHip]; ok {
		y := rh.Y
		m.HipY = &y
	}

	return m
}
