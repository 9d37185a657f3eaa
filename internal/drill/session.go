package drill

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
	"github.com/ayusman/holstercoach/internal/pose"
)

// DefaultFeedbackInterval is the minimum spacing between feedback
// emissions, independent of the upstream frame rate.
const DefaultFeedbackInterval = time.Second

// ErrSessionActive is returned by Start when a session is already running.
// Two sessions must never stack onto the same draw timer.
var ErrSessionActive = errors.New("session already active")

// LogEntry is the durable record appended once per completed session.
type LogEntry struct {
	Module     Module
	Transcript string
	StartedAt  time.Time
	StoppedAt  time.Time
}

// LogSink receives one LogEntry per completed session. Entries are
// append-only; the session controller never reads them back.
type LogSink interface {
	Append(entry LogEntry) error
}

// Options configures a Session. Zero values select the defaults.
type Options struct {
	// FeedbackInterval throttles coaching output (default 1s).
	FeedbackInterval time.Duration

	// ArmMargin and CompleteMargin tune the draw-timer hysteresis
	// (defaults 0.05 / 0.15).
	ArmMargin      float64
	CompleteMargin float64

	// Now substitutes the wall clock, for tests.
	Now func() time.Time
}

// Session is the training-session controller. It consumes the per-frame
// pose/metrics stream while active, feeds the draw timer, throttles
// feedback into a transcript, and appends one log entry per completed
// session to the sink.
//
// Feed is called from the capture pipeline's single goroutine; Start and
// Stop may arrive from HTTP or tray goroutines, so all state is guarded
// by one mutex.
type Session struct {
	mu       sync.Mutex
	sink     LogSink
	timer    *DrawTimer
	now      func() time.Time
	interval time.Duration

	active         bool
	module         Module
	startedAt      time.Time
	lastFeedbackAt time.Time
	pendingDraw    *time.Duration
	transcript     []string

	onFeedback func(module Module, lines []string)
	onDraw     func(module Module, d time.Duration)
	onState    func(active bool, module Module)
}

// NewSession creates an idle session controller writing completed
// sessions to sink. A nil sink is allowed; completed sessions are then
// logged and discarded.
func NewSession(sink LogSink, opts Options) *Session {
	if opts.FeedbackInterval <= 0 {
		opts.FeedbackInterval = DefaultFeedbackInterval
	}
	if opts.ArmMargin <= 0 {
		opts.ArmMargin = DefaultArmMargin
	}
	if opts.CompleteMargin <= 0 {
		opts.CompleteMargin = DefaultCompleteMargin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	timer := NewDrawTimerMargins(opts.ArmMargin, opts.CompleteMargin)
	timer.now = opts.Now

	return &Session{
		sink:     sink,
		timer:    timer,
		now:      opts.Now,
		interval: opts.FeedbackInterval,
	}
}

// OnFeedback registers a callback invoked with each batch of emitted
// feedback lines (for live delivery over WebSocket, tray, notifiers).
func (s *Session) OnFeedback(fn func(module Module, lines []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFeedback = fn
}

// OnDraw registers a callback invoked once per completed draw event.
func (s *Session) OnDraw(fn func(module Module, d time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDraw = fn
}

// OnStateChange registers a callback invoked after every successful
// Start (active=true) and Stop (active=false). Callbacks run with the
// session lock held and must not call back into the session.
func (s *Session) OnStateChange(fn func(active bool, module Module)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = fn
}

// Start transitions idle -> active for the given module. It clears the
// prior transcript, resets the draw timer, and backdates the feedback
// clock so the first feedback emits promptly. Returns ErrSessionActive
// if a session is already running.
func (s *Session) Start(module Module) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return ErrSessionActive
	}

	now := s.now()
	s.active = true
	s.module = module
	s.startedAt = now
	s.transcript = s.transcript[:0]
	s.pendingDraw = nil
	s.timer.Reset()
	// Sentinel in the past: the first frame past the gate emits feedback.
	s.lastFeedbackAt = now.Add(-s.interval)

	if s.onState != nil {
		s.onState(true, module)
	}

	log.Printf("Session started: module=%s", module)
	return nil
}

// Feed consumes one frame's pose and metrics while active. A nil pose
// means the collaborator delivered no detection this frame; the frame is
// skipped entirely and the draw timer is untouched.
func (s *Session) Feed(p *pose.Pose, m analysis.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || p == nil {
		return
	}

	if s.module.includesDraw() {
		if d, ok := s.timer.Observe(m); ok {
			if s.pendingDraw != nil {
				// Latest pending duration wins; the superseded rep never
				// reaches the transcript.
				log.Printf("Draw event %.2fs superseded before feedback tick", s.pendingDraw.Seconds())
			}
			draw := d
			s.pendingDraw = &draw
			if s.onDraw != nil {
				s.onDraw(s.module, d)
			}
		}
	}

	now := s.now()
	if now.Sub(s.lastFeedbackAt) < s.interval {
		return
	}

	lines := Feedback(m, s.module, s.pendingDraw)
	s.pendingDraw = nil
	s.lastFeedbackAt = now

	if len(lines) == 0 {
		return
	}

	s.transcript = append(s.transcript, lines...)
	if s.onFeedback != nil {
		s.onFeedback(s.module, lines)
	}
}

// Stop transitions active -> idle, appending one log entry with the full
// transcript to the sink. Calling Stop while idle is a harmless no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}

	entry := LogEntry{
		Module:     s.module,
		Transcript: strings.Join(s.transcript, "\n"),
		StartedAt:  s.startedAt,
		StoppedAt:  s.now(),
	}

	s.active = false
	s.transcript = nil
	s.pendingDraw = nil
	s.timer.Reset()

	if s.onState != nil {
		s.onState(false, entry.Module)
	}

	if s.sink == nil {
		log.Printf("Session stopped: module=%s (no log sink configured)", entry.Module)
		return nil
	}

	if err := s.sink.Append(entry); err != nil {
		return err
	}

	log.Printf("Session stopped: module=%s, %d transcript bytes", entry.Module, len(entry.Transcript))
	return nil
}

// Active reports whether a session is currently running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Module returns the active module, or the zero Module when idle.
func (s *Session) Module() Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ""
	}
	return s.module
}

// Transcript returns a copy of the accumulated transcript lines.
func (s *Session) Transcript() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.transcript))
	copy(out, s.transcript)
	return out
}
