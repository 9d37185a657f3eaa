// Package pose provides the body-landmark model and detector interfaces for
// the HolsterCoach training system.
package pose

import "math"

// Keypoint names following the MoveNet/PoseNet 17-point convention.
// See: https://www.tensorflow.org/hub/tutorials/movenet
const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
	NumKeypoints  = 17
)

// MinKeypointScore is the confidence below which a keypoint is discarded.
const MinKeypointScore = 0.3

// Point2D represents a 2D point normalized to [0,1] against the frame size.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Keypoint is a single named body landmark with a confidence score.
// Coordinates are in pixels until normalized against the frame dimensions.
type Keypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// Pose is the full set of keypoints for one detected subject in one frame.
// A pose carries at most one keypoint per name; it is produced by a Detector
// once per frame and discarded after the frame is processed.
type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     float64    `json:"score"`
}

// Distance calculates the Euclidean distance between two 2D points.
func Distance(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle calculates the angle in degrees at vertex formed by the segments
// vertex→a and vertex→b. Returns 0 when either segment is degenerate.
func Angle(a, vertex, b Point2D) float64 {
	va := Point2D{X: a.X - vertex.X, Y: a.Y - vertex.Y}
	vb := Point2D{X: b.X - vertex.X, Y: b.Y - vertex.Y}

	la := math.Hypot(va.X, va.Y)
	lb := math.Hypot(vb.X, vb.Y)
	if la < 1e-10 || lb < 1e-10 {
		return 0
	}

	cos := (va.X*vb.X + va.Y*vb.Y) / (la * lb)
	// Clamp against floating point drift before acos
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// Index filters the pose's keypoints to those with Score > minScore,
// normalizes their coordinates against the frame dimensions, and indexes
// them by name. Duplicate names resolve last-write-wins; a single-subject
// detector should never produce them, but malformed input must not fail.
// Returns an empty map for a nil pose or non-positive frame dimensions.
func (p *Pose) Index(width, height int, minScore float64) map[string]Point2D {
	points := make(map[string]Point2D)
	if p == nil || width <= 0 || height <= 0 {
		return points
	}

	for _, kp := range p.Keypoints {
		if kp.Score <= minScore {
			continue
		}
		points[kp.Name] = Point2D{
			X: kp.X / float64(width),
			Y: kp.Y / float64(height),
		}
	}

	return points
}
