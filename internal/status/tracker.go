// internal/status/tracker.go
package status

import (
	"github.com/tamzrod/modbus-scanner/internal/frame"
)

// Tracker folds query outcomes and a 1 Hz tick into a Snapshot.
// It is owned by a single goroutine.
type Tracker struct {
	snap Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{snap: Snapshot{Health: HealthUnknown}}
}

func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe records one outcome and reports whether the snapshot changed.
func (t *Tracker) Observe(err error) (Snapshot, bool) {
	changed := false

	if err == nil {
		if t.snap.Health != HealthOK {
			t.snap.Health = HealthOK
			changed = true
		}
		// Recovery resets the error state.
		if t.snap.LastErrorCode != 0 {
			t.snap.LastErrorCode = 0
			changed = true
		}
		if t.snap.SecondsInError != 0 {
			t.snap.SecondsInError = 0
			changed = true
		}
		return t.snap, changed
	}

	if t.snap.Health != HealthError {
		t.snap.Health = HealthError
		changed = true
	}
	// seconds_in_error only moves on Tick.
	if code := ErrorCode(err); t.snap.LastErrorCode != code {
		t.snap.LastErrorCode = code
		changed = true
	}
	return t.snap, changed
}

// Tick advances SecondsInError while the device is not healthy.
func (t *Tracker) Tick() (Snapshot, bool) {
	if t.snap.Health == HealthOK || t.snap.SecondsInError >= MaxSecondsInError {
		return t.snap, false
	}
	t.snap.SecondsInError++
	return t.snap, true
}

// ErrorCode extracts a best-effort code from err: the Modbus exception code
// when the device sent one, otherwise GenericErrorCode.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}
	if me, ok := frame.Exception(err); ok {
		return uint16(me.ExceptionCode)
	}
	return GenericErrorCode
}
