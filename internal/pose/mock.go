package pose

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// pose or as a scripted frame-by-frame sequence.
type MockDetector struct {
	pose     *Pose
	sequence []*Pose
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect.
func (m *MockDetector) SetPose(p *Pose) {
	m.pose = p
}

// SetSequence sets a scripted sequence of poses returned one per Detect
// call. A nil entry simulates a frame with no subject detected. Once the
// sequence is exhausted, Detect falls back to the fixed pose.
func (m *MockDetector) SetSequence(poses []*Pose) {
	m.sequence = poses
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured pose, sequence entry, or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Pose, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		p := m.sequence[0]
		m.sequence = m.sequence[1:]
		return p, nil
	}
	return m.pose, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Fixture poses below use normalized coordinates, so callers should index
// them against a 1x1 frame. The subject faces the camera; y grows downward.

// fixtureKeypoint builds a high-confidence keypoint at a normalized position.
func fixtureKeypoint(name string, x, y float64) Keypoint {
	return Keypoint{Name: name, X: x, Y: y, Score: 0.9}
}

// basePose returns the shared torso layout used by all fixture poses:
// shoulders at y=0.35, hips at y=0.55, neutral ankle spread at y=0.92.
func basePose() *Pose {
	return &Pose{
		Score: 0.9,
		Keypoints: []Keypoint{
			fixtureKeypoint(LeftShoulder, 0.38, 0.35),
			fixtureKeypoint(RightShoulder, 0.62, 0.35),
			fixtureKeypoint(LeftHip, 0.42, 0.55),
			fixtureKeypoint(RightHip, 0.58, 0.55),
			fixtureKeypoint(LeftAnkle, 0.30, 0.92),
			fixtureKeypoint(RightAnkle, 0.70, 0.92),
		},
	}
}

// withKeypoints appends extra keypoints to a fixture pose.
func withKeypoints(p *Pose, kps ...Keypoint) *Pose {
	p.Keypoints = append(p.Keypoints, kps...)
	return p
}

// HolsteredPose returns a subject standing square with the dominant (right)
// wrist dropped to the holster line, below the right hip.
func HolsteredPose() *Pose {
	return withKeypoints(basePose(),
		fixtureKeypoint(LeftWrist, 0.30, 0.50),
		fixtureKeypoint(RightWrist, 0.60, 0.64),
	)
}

// PresentedPose returns a subject with both hands clasped at presentation
// height, well above the hip line.
func PresentedPose() *Pose {
	return withKeypoints(basePose(),
		fixtureKeypoint(LeftWrist, 0.48, 0.38),
		fixtureKeypoint(RightWrist, 0.52, 0.38),
	)
}

// NarrowStancePose returns a subject with the feet inside shoulder width.
func NarrowStancePose() *Pose {
	p := basePose()
	for i := range p.Keypoints {
		switch p.Keypoints[i].Name {
		case LeftAnkle:
			p.Keypoints[i].X = 0.42
		case RightAnkle:
			p.Keypoints[i].X = 0.58
		}
	}
	return p
}

// WideStancePose returns a subject with an exaggerated ankle spread.
func WideStancePose() *Pose {
	p := basePose()
	for i := range p.Keypoints {
		switch p.Keypoints[i].Name {
		case LeftAnkle:
			p.Keypoints[i].X = 0.10
		case RightAnkle:
			p.Keypoints[i].X = 0.90
		}
	}
	return p
}

// OneHandPose returns a subject with the wrists held far apart, which
// classifies as a one-hand grip.
func OneHandPose() *Pose {
	return withKeypoints(basePose(),
		fixtureKeypoint(LeftWrist, 0.25, 0.45),
		fixtureKeypoint(RightWrist, 0.75, 0.45),
	)
}
