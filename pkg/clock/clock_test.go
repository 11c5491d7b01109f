package clock

import (
	"testing"
	"time"
)

func TestClock_TickScalesByRate(t *testing.T) {
	c := New()
	c.SetDuration(10000)
	c.Reset(1000)

	if got := c.Tick(100*time.Millisecond, 1.0); got != 1100 {
		t.Errorf("expected 1100, got %d", got)
	}
	if got := c.Tick(100*time.Millisecond, 2.0); got != 1300 {
		t.Errorf("expected 1300, got %d", got)
	}
	if got := c.Tick(100*time.Millisecond, 0.5); got != 1350 {
		t.Errorf("expected 1350, got %d", got)
	}
}

func TestClock_ClampsToDuration(t *testing.T) {
	c := New()
	c.SetDuration(500)
	c.Reset(450)

	if got := c.Tick(time.Second, 1.0); got != 500 {
		t.Errorf("expected clamp at 500, got %d", got)
	}
	if !c.AtEnd() {
		t.Error("expected clock at end")
	}

	c.Reset(-20)
	if got := c.Position(); got != 0 {
		t.Errorf("expected clamp at 0, got %d", got)
	}
}

func TestClock_SubMillisecondAccumulates(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		c.Tick(333*time.Microsecond+334*time.Nanosecond, 1.0)
	}
	if got := c.Position(); got != 1 {
		t.Errorf("expected fractional ticks to accumulate to 1ms, got %d", got)
	}
}

func TestClock_UnknownDurationIsUnbounded(t *testing.T) {
	c := New()
	c.Tick(time.Hour, 1.0)
	if c.AtEnd() {
		t.Error("clock without duration must never be at end")
	}
	if got := c.Position(); got != 3600000 {
		t.Errorf("expected 3600000, got %d", got)
	}
}
