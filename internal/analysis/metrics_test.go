package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/ayusman/holstercoach/internal/pose"
)

// buildPose assembles a pose from normalized coordinates with full
// confidence, meant to be computed against a 1x1 frame.
func buildPose(points map[string]pose.Point2D) *pose.Pose {
	p := &pose.Pose{Score: 0.9}
	for name, pt := range points {
		p.Keypoints = append(p.Keypoints, pose.Keypoint{
			Name: name, X: pt.X, Y: pt.Y, Score: 0.9,
		})
	}
	return p
}

func TestCompute_StanceRatio(t *testing.T) {
	// Ankles at x=0.2/0.8, shoulders at x=0.3/0.7: ratio = 0.6/0.4 = 1.5
	p := buildPose(map[string]pose.Point2D{
		pose.LeftAnkle:     {X: 0.2, Y: 0.9},
		pose.RightAnkle:    {X: 0.8, Y: 0.9},
		pose.LeftShoulder:  {X: 0.3, Y: 0.3},
		pose.RightShoulder: {X: 0.7, Y: 0.3},
	})

	m := Compute(p, 1, 1)

	if m.StanceRatio == nil {
		t.Fatal("StanceRatio should be computed when all four landmarks are present")
	}
	if math.Abs(*m.StanceRatio-1.5) > 1e-9 {
		t.Errorf("StanceRatio = %f, want 1.5", *m.StanceRatio)
	}
}

func TestCompute_StanceRatio_MissingLandmarks(t *testing.T) {
	required := []string{pose.LeftAnkle, pose.RightAnkle, pose.LeftShoulder, pose.RightShoulder}

	for _, missing := range required {
		points := map[string]pose.Point2D{
			pose.LeftAnkle:     {X: 0.2, Y: 0.9},
			pose.RightAnkle:    {X: 0.8, Y: 0.9},
			pose.LeftShoulder:  {X: 0.3, Y: 0.3},
			pose.RightShoulder: {X: 0.7, Y: 0.3},
		}
		delete(points, missing)

		m := Compute(buildPose(points), 1, 1)
		if m.StanceRatio != nil {
			t.Errorf("StanceRatio should be nil when %s is missing, got %f", missing, *m.StanceRatio)
		}
	}
}

func TestCompute_StanceRatio_DegenerateShoulders(t *testing.T) {
	// Coincident shoulders give a zero-width segment; the ratio is undefined.
	p := buildPose(map[string]pose.Point2D{
		pose.LeftAnkle:  {X: 0.2, Y: 0.9},
		pose.RightAnkle: {X: 0.8, Y: 0.9},
		pose.LeftWrist:  {X: 0.45, Y: 0.4},
		pose.RightWrist: {X: 0.55, Y: 0.4},
	})
	p.Keypoints = append(p.Keypoints,
		pose.Keypoint{Name: pose.LeftShoulder, X: 0.5, Y: 0.3, Score: 0.9},
		pose.Keypoint{Name: pose.RightShoulder, X: 0.5, Y: 0.3, Score: 0.9},
	)

	m := Compute(p, 1, 1)
	if m.StanceRatio != nil {
		t.Error("StanceRatio should be nil for a degenerate shoulder segment")
	}
	if m.GripTwoHand != nil {
		t.Error("GripTwoHand should be nil for a degenerate shoulder segment")
	}
}

func TestCompute_GripTwoHand(t *testing.T) {
	// Shoulder distance 0.4; grip threshold 0.35*0.4 = 0.14
	base := map[string]pose.Point2D{
		pose.LeftShoulder:  {X: 0.3, Y: 0.3},
		pose.RightShoulder: {X: 0.7, Y: 0.3},
	}

	// Wrists 0.1 apart: clasped
	clasped := map[string]pose.Point2D{
		pose.LeftWrist:  {X: 0.45, Y: 0.4},
		pose.RightWrist: {X: 0.55, Y: 0.4},
	}
	for k, v := range base {
		clasped[k] = v
	}
	m := Compute(buildPose(clasped), 1, 1)
	if m.GripTwoHand == nil || !*m.GripTwoHand {
		t.Error("wrists 0.1 apart should classify as a two-hand grip")
	}

	// Wrists 0.6 apart: held apart
	apart := map[string]pose.Point2D{
		pose.LeftWrist:  {X: 0.2, Y: 0.4},
		pose.RightWrist: {X: 0.8, Y: 0.4},
	}
	for k, v := range base {
		apart[k] = v
	}
	m = Compute(buildPose(apart), 1, 1)
	if m.GripTwoHand == nil || *m.GripTwoHand {
		t.Error("wrists 0.6 apart should not classify as a two-hand grip")
	}
}

func TestCompute_WristAndHipY(t *testing.T) {
	p := buildPose(map[string]pose.Point2D{
		pose.RightWrist: {X: 0.6, Y: 0.64},
		pose.RightHip:   {X: 0.58, Y: 0.55},
	})

	m := Compute(p, 1, 1)

	if m.WristY == nil || *m.WristY != 0.64 {
		t.Errorf("WristY = %v, want 0.64", m.WristY)
	}
	if m.HipY == nil || *m.HipY != 0.55 {
		t.Errorf("HipY = %v, want 0.55", m.HipY)
	}
	if m.StanceRatio != nil || m.GripTwoHand != nil {
		t.Error("stance and grip should be nil without their landmarks")
	}
}

func TestCompute_LowConfidenceLandmarksYieldNil(t *testing.T) {
	p := &pose.Pose{
		Keypoints: []pose.Keypoint{
			{Name: pose.RightWrist, X: 0.6, Y: 0.64, Score: 0.2},
			{Name: pose.RightHip, X: 0.58, Y: 0.55, Score: 0.9},
		},
	}

	m := Compute(p, 1, 1)

	if m.WristY != nil {
		t.Error("WristY should be nil when the wrist is below the confidence cutoff")
	}
	if m.HipY == nil {
		t.Error("HipY should survive when the hip is confident")
	}
}

func TestCompute_NilPose(t *testing.T) {
	m := Compute(nil, 640, 480)
	if m.StanceRatio != nil || m.GripTwoHand != nil || m.WristY != nil || m.HipY != nil {
		t.Error("all metrics should be nil for a nil pose")
	}
}

func TestCompute_Idempotent(t *testing.T) {
	p := pose.PresentedPose()

	first := Compute(p, 1, 1)
	second := Compute(p, 1, 1)

	if !reflect.DeepEqual(first, second) {
		t.Error("Compute should yield identical records for identical input")
	}
}

func TestCompute_Fixtures(t *testing.T) {
	tests := []struct {
		name      string
		pose      *pose.Pose
		wantGrip  *bool
		wantDrawn bool // wrist below hip by the holster margin
	}{
		{"holstered", pose.HolsteredPose(), nil, true},
		{"presented", pose.PresentedPose(), boolPtr(true), false},
		{"one-hand", pose.OneHandPose(), boolPtr(false), false},
	}

	for _, tt := range tests {
		m := Compute(tt.pose, 1, 1)

		if tt.wantGrip != nil {
			if m.GripTwoHand == nil || *m.GripTwoHand != *tt.wantGrip {
				t.Errorf("%s: GripTwoHand = %v, want %v", tt.name, m.GripTwoHand, *tt.wantGrip)
			}
		}

		if m.WristY == nil || m.HipY == nil {
			t.Fatalf("%s: wrist/hip metrics missing", tt.name)
		}
		below := *m.WristY > *m.HipY+0.05
		if below != tt.wantDrawn {
			t.Errorf("%s: wrist-below-hip = %v, want %v", tt.name, below, tt.wantDrawn)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
