package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FramesProcessed.Inc()
	m.FramesProcessed.Inc()
	m.DrawEvents.Inc()
	m.SessionActive.Set(1)

	if got := testutil.ToFloat64(m.FramesProcessed); got != 2 {
		t.Errorf("frames_processed_total = %f, want 2", got)
	}
	if got := testutil.ToFloat64(m.DrawEvents); got != 1 {
		t.Errorf("draw_events_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(m.SessionActive); got != 1 {
		t.Errorf("session_active = %f, want 1", got)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering the same collectors twice should panic")
		}
	}()
	New(reg)
}
