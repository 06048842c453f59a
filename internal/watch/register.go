// internal/watch/register.go
package watch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tamzrod/modbus-scanner/internal/value"
)

// IndexError means a register's offset no longer fits the buffer, usually
// because the owning query's function code or count changed after pinning.
type IndexError struct {
	Label  string
	Offset int
	Width  int
	Len    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("watch %q: offset %d width %d outside buffer of %d bytes", e.Label, e.Offset, e.Width, e.Len)
}

// Register is a pinned, scaled view into a query's raw read buffer.
type Register struct {
	Label       string     `json:"label"`
	Suffix      string     `json:"suffix"`
	Offset      int        `json:"offset"`
	View        value.View `json:"view"`
	Factor      float64    `json:"factor"`
	ValueOffset float64    `json:"value_offset"`
	Value       float64    `json:"resulting_value"`

	// Locked only gates editing; locked registers still update.
	Locked bool `json:"locked"`

	// Err is the outcome of the last Update.
	Err error `json:"-"`
}

// New returns a register with the default label and the given geometry.
func New(offset int, view value.View, factor, valueOffset float64) Register {
	return Register{
		Label:       "New Watched",
		Offset:      offset,
		View:        view,
		Factor:      factor,
		ValueOffset: valueOffset,
	}
}

// Update recomputes Value from buf. On failure Value keeps its previous
// result and the error is stored in Err.
func (r *Register) Update(buf []byte) error {
	w := r.View.Width()
	if r.Offset < 0 || r.Offset+w-1 >= len(buf) {
		r.Err = &IndexError{Label: r.Label, Offset: r.Offset, Width: w, Len: len(buf)}
		return r.Err
	}

	raw, err := value.Raw(buf, r.Offset, r.View)
	if err != nil {
		r.Err = err
		return err
	}

	if r.View == value.Hex {
		r.Value = raw
	} else {
		r.Value = value.Scale(raw, r.Factor, r.ValueOffset)
	}
	r.Err = nil
	return nil
}

// Display renders the current value the same way the grid does.
func (r *Register) Display() string {
	if r.Err != nil {
		return "ERR"
	}
	if r.View == value.Hex {
		return fmt.Sprintf("%04X", uint16(r.Value))
	}
	return value.Display{View: r.View, Scaled: r.Value}.String()
}

// RecomputeAll updates every register from buf. A failing register does not
// stop the others; all failures are joined.
func RecomputeAll(regs []Register, buf []byte) error {
	var errs []error
	for i := range regs {
		if err := regs[i].Update(buf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UnmarshalJSON fills missing fields with New defaults.
func (r *Register) UnmarshalJSON(b []byte) error {
	type plain Register
	p := plain(New(0, value.U16, 1, 0))

	// Older templates use these keys; the current ones win when both appear.
	var old struct {
		Lable        *string     `json:"lable"`
		Pos          *int        `json:"pos"`
		ValueOffsett *float64    `json:"value_offsett"`
		DataType     *value.View `json:"data_type"`
	}
	if err := json.Unmarshal(b, &old); err != nil {
		return err
	}
	if old.Lable != nil {
		p.Label = *old.Lable
	}
	if old.Pos != nil {
		p.Offset = *old.Pos
	}
	if old.ValueOffsett != nil {
		p.ValueOffset = *old.ValueOffsett
	}
	if old.DataType != nil {
		p.View = *old.DataType
	}

	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Register(p)
	return nil
}
