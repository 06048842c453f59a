// internal/watch/register_test.go
package watch

import (
	"errors"
	"testing"

	"github.com/tamzrod/modbus-scanner/internal/value"
)

func TestUpdate_Scaled(t *testing.T) {
	r := New(2, value.U16, 0.5, -1)
	if err := r.Update([]byte{0, 0, 0, 10}); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if r.Value != 4 {
		t.Fatalf("expected 4, got %v", r.Value)
	}
}

func TestUpdate_BoundaryIndexError(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	r := New(len(buf)-1, value.U16, 1, 0)
	r.Value = 42

	err := r.Update(buf)
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IndexError, got %v", err)
	}
	if r.Value != 42 {
		t.Fatalf("failed update must keep previous value, got %v", r.Value)
	}
	if r.Display() != "ERR" {
		t.Fatalf("expected ERR display, got %q", r.Display())
	}
}

func TestRecomputeAll_StaleEntryDoesNotBlockOthers(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x00, 0x02}
	regs := []Register{
		New(0, value.U16, 1, 0),
		New(2, value.U32, 1, 0), // stale: needs 4 bytes
		New(2, value.U16, 10, 0),
	}

	err := RecomputeAll(regs, buf)
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("expected joined IndexError, got %v", err)
	}
	if regs[0].Value != 1 || regs[2].Value != 20 {
		t.Fatalf("healthy entries not updated: %v %v", regs[0].Value, regs[2].Value)
	}
	if regs[1].Err == nil {
		t.Fatalf("stale entry should carry its error")
	}
}

func TestRecomputeAll_Idempotent(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x00, 0x02}
	regs := []Register{
		New(0, value.U32, 2, 3),
		New(0, value.F32, 1, 0),
		New(2, value.I16, -1, 0),
	}

	if err := RecomputeAll(regs, buf); err != nil {
		t.Fatalf("first recompute err=%v", err)
	}
	first := make([]float64, len(regs))
	for i := range regs {
		first[i] = regs[i].Value
	}

	if err := RecomputeAll(regs, buf); err != nil {
		t.Fatalf("second recompute err=%v", err)
	}
	for i := range regs {
		if regs[i].Value != first[i] {
			t.Fatalf("entry %d changed: %v -> %v", i, first[i], regs[i].Value)
		}
	}
}

func TestUpdate_HexUnscaled(t *testing.T) {
	r := New(0, value.Hex, 99, 99)
	if err := r.Update([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if r.Display() != "0102" {
		t.Fatalf("expected 0102, got %q", r.Display())
	}
}
