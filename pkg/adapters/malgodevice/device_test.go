package malgodevice

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/user/xplayer/pkg/adapters/logger"
)

func TestWriter_FillsLittleEndian(t *testing.T) {
	next := int16(0)
	w := newWriter(func(out []int16) {
		for i := range out {
			next++
			out[i] = next
		}
	}, 2, 3)

	out := make([]byte, 5*2*2)
	w.data(out, nil, 5)

	for i := 0; i < 10; i++ {
		got := int16(binary.LittleEndian.Uint16(out[i*2:]))
		if got != int16(i+1) {
			t.Fatalf("sample %d: expected %d, got %d", i, i+1, got)
		}
	}
}

func TestWriter_NegativeSamples(t *testing.T) {
	w := newWriter(func(out []int16) {
		for i := range out {
			out[i] = -2
		}
	}, 1, 8)
	out := make([]byte, 4)
	w.data(out, nil, 2)
	if out[0] != 0xfe || out[1] != 0xff {
		t.Errorf("expected -2 as fe ff, got %x %x", out[0], out[1])
	}
}

func TestDevice_StartBeforeOpen(t *testing.T) {
	d := New(0, logger.NewNoop())
	if err := d.Start(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
