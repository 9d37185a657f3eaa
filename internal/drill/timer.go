package drill

import (
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
)

// Draw-timer hysteresis margins, in normalized screen-space units.
// Arming and completion use distinct thresholds so landmark jitter around
// the hip line cannot flicker the machine across a single crossing point.
const (
	// DefaultArmMargin: the wrist must sit this far below the hip
	// (y grows downward) to count as holstered and arm the timer.
	DefaultArmMargin = 0.05
	// DefaultCompleteMargin: the wrist must rise this far above the hip
	// to count as presented and complete the rep.
	DefaultCompleteMargin = 0.15
)

// DrawTimer detects one complete draw-from-holster motion per cycle from a
// stream of per-frame metrics. It has two states: armed-wait, where it looks
// for the wrist dropping to the holster line, and timing, where it looks for
// the wrist raised to presentation height. One duration is emitted per full
// low-to-high cycle; the machine re-arms immediately and is repeatable for
// as long as the session runs.
type DrawTimer struct {
	armMargin      float64
	completeMargin float64
	now            func() time.Time

	// baselineY holds the hip line observed at arming, kept for
	// diagnostics. startedAt zero means the timer is in armed-wait.
	baselineY *float64
	startedAt time.Time
}

// NewDrawTimer creates a DrawTimer with the default hysteresis margins.
func NewDrawTimer() *DrawTimer {
	return NewDrawTimerMargins(DefaultArmMargin, DefaultCompleteMargin)
}

// NewDrawTimerMargins creates a DrawTimer with custom margins. Callers are
// responsible for keeping arm and complete thresholds distinct; the config
// layer validates this before it reaches here.
func NewDrawTimerMargins(armMargin, completeMargin float64) *DrawTimer {
	return &DrawTimer{
		armMargin:      armMargin,
		completeMargin: completeMargin,
		now:            time.Now,
	}
}

// Timing reports whether a draw measurement is currently in progress.
func (t *DrawTimer) Timing() bool {
	return !t.startedAt.IsZero()
}

// Observe feeds one metrics record into the state machine. It returns a
// completed draw duration and true exactly once per low-to-high cycle.
//
// While armed-wait: a frame missing wrist or hip data causes no transition.
// The timer starts when the wrist sits below the hip by the arm margin.
// While timing: missing data never resets the timer -- momentary landmark
// dropout must not corrupt an in-progress measurement. The cycle completes
// only when the wrist rises above the hip by the complete margin.
func (t *DrawTimer) Observe(m analysis.Metrics) (time.Duration, bool) {
	if m.WristY == nil || m.HipY == nil {
		return 0, false
	}

	if !t.Timing() {
		// Screen-space y grows downward: "below the hip" is numerically greater.
		if *m.WristY > *m.HipY+t.armMargin {
			baseline := *m.HipY
			t.baselineY = &baseline
			t.startedAt = t.now()
		}
		return 0, false
	}

	if *m.WristY < *m.HipY-t.completeMargin {
		elapsed := t.now().Sub(t.startedAt)
		t.Reset()
		return elapsed, true
	}

	return 0, false
}

// Reset returns the timer to armed-wait, discarding any in-progress
// measurement. Called on session start and stop.
func (t *DrawTimer) Reset() {
	t.baselineY = nil
	t.startedAt = time.Time{}
}
