package drill

import (
	"testing"
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
)

// fakeClock provides a manually advanced clock for timer tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// metricsAt builds a metrics record with just the wrist and hip heights set.
func metricsAt(wristY, hipY float64) analysis.Metrics {
	return analysis.Metrics{WristY: &wristY, HipY: &hipY}
}

// metricsMissingWrist simulates a landmark-dropout frame.
func metricsMissingWrist(hipY float64) analysis.Metrics {
	return analysis.Metrics{HipY: &hipY}
}

func TestDrawTimer_CompleteCycle(t *testing.T) {
	clock := newFakeClock()
	timer := NewDrawTimer()
	timer.now = clock.Now

	// Wrist at hip+0.1: below the hip by more than the arm margin
	if _, ok := timer.Observe(metricsAt(0.65, 0.55)); ok {
		t.Fatal("arming transition should not emit a duration")
	}
	if !timer.Timing() {
		t.Fatal("timer should be timing after the wrist dropped to the holster")
	}

	clock.Advance(1200 * time.Millisecond)

	// Wrist at hip-0.2: above the hip by more than the complete margin
	d, ok := timer.Observe(metricsAt(0.35, 0.55))
	if !ok {
		t.Fatal("raise past the complete margin should emit a duration")
	}
	if d != 1200*time.Millisecond {
		t.Errorf("duration = %v, want 1.2s", d)
	}
	if timer.Timing() {
		t.Error("timer should re-arm after emitting")
	}
}

func TestDrawTimer_MissingDataWhileArmed(t *testing.T) {
	timer := NewDrawTimer()

	if _, ok := timer.Observe(analysis.Metrics{}); ok {
		t.Error("missing wrist and hip should cause no transition")
	}
	if timer.Timing() {
		t.Error("timer should remain armed-wait on missing data")
	}
}

func TestDrawTimer_DropoutDoesNotResetMeasurement(t *testing.T) {
	clock := newFakeClock()
	timer := NewDrawTimer()
	timer.now = clock.Now

	timer.Observe(metricsAt(0.65, 0.55)) // arm
	clock.Advance(500 * time.Millisecond)

	// Landmark dropout mid-measurement
	if _, ok := timer.Observe(metricsMissingWrist(0.55)); ok {
		t.Fatal("dropout frame must not emit")
	}
	if !timer.Timing() {
		t.Fatal("dropout frame must not reset the in-progress measurement")
	}

	clock.Advance(700 * time.Millisecond)

	d, ok := timer.Observe(metricsAt(0.35, 0.55))
	if !ok {
		t.Fatal("raise after dropout should still emit")
	}
	// Duration is measured from the original arming frame
	if d != 1200*time.Millisecond {
		t.Errorf("duration = %v, want 1.2s measured from original start", d)
	}
}

func TestDrawTimer_HysteresisBand(t *testing.T) {
	timer := NewDrawTimer()

	timer.Observe(metricsAt(0.65, 0.55)) // arm

	// Wrist just above the hip sits inside the hysteresis band: neither
	// re-arming nor completion.
	if _, ok := timer.Observe(metricsAt(0.50, 0.55)); ok {
		t.Error("wrist inside the hysteresis band must not complete the draw")
	}
	if !timer.Timing() {
		t.Error("wrist inside the hysteresis band must keep the timer running")
	}

	// Exactly at hip-0.15 is not yet a completion (strictly less required)
	if _, ok := timer.Observe(metricsAt(0.40, 0.55)); ok {
		t.Error("wrist exactly at the complete threshold must not emit")
	}
}

func TestDrawTimer_ArmRequiresMargin(t *testing.T) {
	timer := NewDrawTimer()

	// Wrist below the hip but inside the arm margin
	timer.Observe(metricsAt(0.58, 0.55))
	if timer.Timing() {
		t.Error("wrist inside the arm margin must not arm the timer")
	}

	// Exactly at hip+0.05 is not yet armed (strictly greater required)
	timer.Observe(metricsAt(0.60, 0.55))
	if timer.Timing() {
		t.Error("wrist exactly at the arm threshold must not arm the timer")
	}
}

func TestDrawTimer_RepeatableWithinSession(t *testing.T) {
	clock := newFakeClock()
	timer := NewDrawTimer()
	timer.now = clock.Now

	var emitted []time.Duration
	reps := []time.Duration{900 * time.Millisecond, 1500 * time.Millisecond, 2 * time.Second}

	for _, rep := range reps {
		timer.Observe(metricsAt(0.65, 0.55))
		clock.Advance(rep)
		if d, ok := timer.Observe(metricsAt(0.35, 0.55)); ok {
			emitted = append(emitted, d)
		}
	}

	if len(emitted) != len(reps) {
		t.Fatalf("emitted %d events, want %d", len(emitted), len(reps))
	}
	for i, rep := range reps {
		if emitted[i] != rep {
			t.Errorf("rep %d duration = %v, want %v", i, emitted[i], rep)
		}
	}
}

func TestDrawTimer_Reset(t *testing.T) {
	clock := newFakeClock()
	timer := NewDrawTimer()
	timer.now = clock.Now

	timer.Observe(metricsAt(0.65, 0.55))
	timer.Reset()

	if timer.Timing() {
		t.Error("Reset should return the timer to armed-wait")
	}
	if timer.baselineY != nil {
		t.Error("Reset should clear the diagnostic baseline")
	}

	// A raise right after reset must not emit a stale measurement
	if _, ok := timer.Observe(metricsAt(0.35, 0.55)); ok {
		t.Error("raise after Reset must not emit")
	}
}
