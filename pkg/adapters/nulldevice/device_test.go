package nulldevice

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDevice_PullsUntilClosed(t *testing.T) {
	d := New(10)
	var calls atomic.Int64
	pulled := make(chan int, 1)

	if err := d.Open(1000, 2, func(out []int16) {
		if calls.Add(1) == 1 {
			pulled <- len(out)
		}
	}); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case n := <-pulled:
		if n != 20 {
			t.Errorf("expected 20 samples per period, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("render was never called")
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	after := calls.Load()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != after {
		t.Error("render called after Close")
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestDevice_StartBeforeOpen(t *testing.T) {
	if err := New(0).Start(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}
