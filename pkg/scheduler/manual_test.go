package scheduler

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual(epoch)

	var order []string
	m.Every(30*time.Millisecond, func() { order = append(order, "a") })
	m.Every(20*time.Millisecond, func() { order = append(order, "b") })

	m.Advance(60 * time.Millisecond)

	// b@20 a@30 b@40 a@60 b@60 (tie broken by registration order)
	expected := []string{"b", "a", "b", "a", "b"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i := range expected {
		if order[i] != expected[i] {
			t.Errorf("position %d: expected %s, got %s", i, expected[i], order[i])
		}
	}
}

func TestManual_NowMovesToDueTimeDuringCallback(t *testing.T) {
	m := NewManual(epoch)

	var seen []time.Duration
	m.Every(25*time.Millisecond, func() { seen = append(seen, m.Now().Sub(epoch)) })
	m.Advance(80 * time.Millisecond)

	if len(seen) != 3 {
		t.Fatalf("expected 3 firings, got %d", len(seen))
	}
	if seen[2] != 75*time.Millisecond {
		t.Errorf("expected third firing at 75ms, got %v", seen[2])
	}
	if got := m.Now().Sub(epoch); got != 80*time.Millisecond {
		t.Errorf("expected now at 80ms, got %v", got)
	}
}

func TestManual_StopInsideCallback(t *testing.T) {
	m := NewManual(epoch)

	count := 0
	var task interface{ Stop() }
	task = m.Every(10*time.Millisecond, func() {
		count++
		task.Stop()
	})

	m.Advance(100 * time.Millisecond)

	if count != 1 {
		t.Errorf("expected 1 firing, got %d", count)
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending tasks, got %d", m.Pending())
	}
}

func TestManual_TaskRegisteredDuringAdvance(t *testing.T) {
	m := NewManual(epoch)

	inner := 0
	registered := false
	m.Every(10*time.Millisecond, func() {
		if !registered {
			registered = true
			m.Every(10*time.Millisecond, func() { inner++ })
		}
	})

	m.Advance(50 * time.Millisecond)

	// registered at 10ms, fires at 20, 30, 40, 50
	if inner != 4 {
		t.Errorf("expected 4 inner firings, got %d", inner)
	}
}

func TestTicker_StopIsIdempotent(t *testing.T) {
	s := NewTicker()
	task := s.Every(time.Hour, func() {})
	task.Stop()
	task.Stop()
}
