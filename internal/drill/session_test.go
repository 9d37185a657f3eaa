package drill

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
	"github.com/ayusman/holstercoach/internal/pose"
)

// memorySink collects appended log entries in memory.
type memorySink struct {
	entries []LogEntry
	err     error
}

func (s *memorySink) Append(entry LogEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

// goodMetrics returns a record that always produces stance feedback.
func goodMetrics() analysis.Metrics {
	ratio := 1.5
	return analysis.Metrics{StanceRatio: &ratio}
}

func newTestSession(sink LogSink) (*Session, *fakeClock) {
	clock := newFakeClock()
	s := NewSession(sink, Options{Now: clock.Now})
	return s, clock
}

func TestSession_StopWhileIdleIsNoOp(t *testing.T) {
	sink := &memorySink{}
	s, _ := newTestSession(sink)

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() on idle session error = %v", err)
	}
	if len(sink.entries) != 0 {
		t.Errorf("idle Stop appended %d entries, want 0", len(sink.entries))
	}
}

func TestSession_StartWhileActiveRejected(t *testing.T) {
	s, _ := newTestSession(&memorySink{})

	if err := s.Start(ModuleStance); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(ModuleGrip); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start() error = %v, want ErrSessionActive", err)
	}
	// The original module stays active
	if s.Module() != ModuleStance {
		t.Errorf("Module() = %q, want stance", s.Module())
	}
}

func TestSession_StartStopAppendsOneEntry(t *testing.T) {
	sink := &memorySink{}
	s, clock := newTestSession(sink)

	if err := s.Start(ModuleFull); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	clock.Advance(3 * time.Second)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Module != ModuleFull {
		t.Errorf("entry module = %q, want full", entry.Module)
	}
	if entry.StoppedAt.Sub(entry.StartedAt) != 3*time.Second {
		t.Errorf("entry span = %v, want 3s", entry.StoppedAt.Sub(entry.StartedAt))
	}
	// No frames were fed, so the transcript is empty
	if entry.Transcript != "" {
		t.Errorf("transcript = %q, want empty", entry.Transcript)
	}
}

func TestSession_FirstFeedbackEmitsPromptly(t *testing.T) {
	s, _ := newTestSession(&memorySink{})
	s.Start(ModuleStance)

	s.Feed(pose.NarrowStancePose(), goodMetrics())

	if got := s.Transcript(); len(got) != 1 {
		t.Fatalf("first frame should emit feedback immediately, transcript = %v", got)
	}
}

func TestSession_FeedbackThrottling(t *testing.T) {
	s, clock := newTestSession(&memorySink{})
	s.Start(ModuleStance)

	// 10 frames within 500ms: exactly one emission
	for i := 0; i < 10; i++ {
		s.Feed(pose.NarrowStancePose(), goodMetrics())
		clock.Advance(50 * time.Millisecond)
	}
	if got := len(s.Transcript()); got != 1 {
		t.Fatalf("10 frames in 500ms emitted %d times, want 1", got)
	}

	// An 11th frame past the throttle window emits a second time
	clock.Advance(501 * time.Millisecond)
	s.Feed(pose.NarrowStancePose(), goodMetrics())
	if got := len(s.Transcript()); got != 2 {
		t.Errorf("frame past the throttle window emitted %d total, want 2", got)
	}
}

func TestSession_NilPoseSkipped(t *testing.T) {
	s, clock := newTestSession(&memorySink{})
	s.Start(ModuleDraw)

	// Arm the timer, then deliver a no-detection frame
	s.Feed(pose.HolsteredPose(), metricsAt(0.65, 0.55))
	if !s.timer.Timing() {
		t.Fatal("holstered frame should arm the timer")
	}

	clock.Advance(time.Second)
	s.Feed(nil, analysis.Metrics{})

	if !s.timer.Timing() {
		t.Error("nil pose frame must leave the draw timer untouched")
	}
	if got := len(s.Transcript()); got != 0 {
		t.Errorf("nil pose frame emitted feedback: %v", s.Transcript())
	}
}

func TestSession_DrawEventReachesTranscript(t *testing.T) {
	s, clock := newTestSession(&memorySink{})
	s.Start(ModuleDraw)

	var observed []time.Duration
	s.OnDraw(func(module Module, d time.Duration) {
		if module != ModuleDraw {
			t.Errorf("OnDraw module = %q, want %q", module, ModuleDraw)
		}
		observed = append(observed, d)
	})

	s.Feed(pose.HolsteredPose(), metricsAt(0.65, 0.55))
	clock.Advance(1300 * time.Millisecond)
	s.Feed(pose.PresentedPose(), metricsAt(0.35, 0.55))

	if len(observed) != 1 || observed[0] != 1300*time.Millisecond {
		t.Fatalf("OnDraw observed %v, want one 1.3s event", observed)
	}

	transcript := strings.Join(s.Transcript(), "\n")
	if !strings.Contains(transcript, "1.30s") {
		t.Errorf("transcript should carry the draw time, got %q", transcript)
	}
}

func TestSession_PendingDrawConsumedOnce(t *testing.T) {
	s, clock := newTestSession(&memorySink{})
	s.Start(ModuleDraw)

	s.Feed(pose.HolsteredPose(), metricsAt(0.65, 0.55))
	clock.Advance(time.Second)
	s.Feed(pose.PresentedPose(), metricsAt(0.35, 0.55))

	if got := len(s.Transcript()); got != 1 {
		t.Fatalf("draw event should emit once, transcript lines = %d", got)
	}

	// Later ticks must not repeat the consumed draw duration
	clock.Advance(1100 * time.Millisecond)
	s.Feed(pose.PresentedPose(), metricsAt(0.35, 0.55))
	if got := len(s.Transcript()); got != 1 {
		t.Errorf("consumed draw duration leaked into a later tick, lines = %d", got)
	}
}

func TestSession_StopPersistsTranscript(t *testing.T) {
	sink := &memorySink{}
	s, _ := newTestSession(sink)
	s.Start(ModuleStance)

	s.Feed(pose.NarrowStancePose(), goodMetrics())
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(sink.entries))
	}
	if sink.entries[0].Transcript != msgStanceGood {
		t.Errorf("transcript = %q, want %q", sink.entries[0].Transcript, msgStanceGood)
	}

	// A fresh session starts with a clean transcript
	s.Start(ModuleGrip)
	if got := len(s.Transcript()); got != 0 {
		t.Errorf("new session inherited %d transcript lines", got)
	}
}

func TestSession_SinkErrorSurfaced(t *testing.T) {
	sinkErr := errors.New("disk full")
	s, _ := newTestSession(&memorySink{err: sinkErr})
	s.Start(ModuleStance)

	if err := s.Stop(); !errors.Is(err, sinkErr) {
		t.Errorf("Stop() error = %v, want sink error", err)
	}
}

func TestSession_FeedWhileIdleIgnored(t *testing.T) {
	s, _ := newTestSession(&memorySink{})

	s.Feed(pose.NarrowStancePose(), goodMetrics())

	if got := len(s.Transcript()); got != 0 {
		t.Errorf("idle session accumulated %d transcript lines", got)
	}
}

func TestSession_StateChangeHook(t *testing.T) {
	s, _ := newTestSession(&memorySink{})

	type transition struct {
		active bool
		module Module
	}
	var transitions []transition
	s.OnStateChange(func(active bool, module Module) {
		transitions = append(transitions, transition{active, module})
	})

	s.Start(ModuleGrip)
	s.Stop()
	s.Stop() // idle no-op must not fire the hook

	want := []transition{{true, ModuleGrip}, {false, ModuleGrip}}
	if len(transitions) != len(want) {
		t.Fatalf("got %d transitions, want %d", len(transitions), len(want))
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %+v, want %+v", i, transitions[i], want[i])
		}
	}
}
