// internal/device/query.go
package device

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tamzrod/modbus-scanner/internal/frame"
	"github.com/tamzrod/modbus-scanner/internal/value"
	"github.com/tamzrod/modbus-scanner/internal/watch"
)

var (
	ErrLocked   = errors.New("device: watched register is locked")
	ErrNotFound = errors.New("device: not found")
)

// Query is one reusable request definition plus its last result.
type Query struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Address       uint16             `json:"address"`
	Count         uint16             `json:"count"`
	TransactionID uint16             `json:"transaction_id"`
	UnitID        *uint8             `json:"unit_id"` // nil: use the device unit id
	Function      frame.FunctionCode `json:"function_code"`

	ReadBuffer  []byte `json:"read_buffer"`
	WriteBuffer []byte `json:"write_buffer"`
	Status      string `json:"status"`

	View        value.View `json:"view"`
	Factor      float64    `json:"factor"`
	ValueOffset float64    `json:"value_offset"`

	Watches []watch.Register `json:"watched"`
}

// NewQuery returns a query with the defaults used by "Add Query".
func NewQuery() *Query {
	unit := uint8(1)
	return &Query{
		ID:            uuid.NewString(),
		Label:         "New Query",
		Count:         1,
		TransactionID: 1,
		UnitID:        &unit,
		Function:      frame.ReadCoils,
		ReadBuffer:    []byte{},
		WriteBuffer:   make([]byte, 2),
		View:          value.U16,
		Factor:        1,
	}
}

// SetCount changes the count and resizes the write buffer to count*2 bytes,
// keeping the existing prefix.
func (q *Query) SetCount(n uint16) {
	q.Count = n
	size := int(n) * 2
	buf := make([]byte, size)
	copy(buf, q.WriteBuffer)
	q.WriteBuffer = buf
}

// SetWriteWord stores v as element i of the write buffer in the layout the
// codec reads (little-endian per word).
func (q *Query) SetWriteWord(i int, v uint16) error {
	if i < 0 || 2*i+1 >= len(q.WriteBuffer) {
		return fmt.Errorf("device: write element %d outside buffer of %d bytes", i, len(q.WriteBuffer))
	}
	binary.LittleEndian.PutUint16(q.WriteBuffer[2*i:], v)
	return nil
}

// WriteWord returns element i of the write buffer.
func (q *Query) WriteWord(i int) (uint16, error) {
	if i < 0 || 2*i+1 >= len(q.WriteBuffer) {
		return 0, fmt.Errorf("device: write element %d outside buffer of %d bytes", i, len(q.WriteBuffer))
	}
	return binary.LittleEndian.Uint16(q.WriteBuffer[2*i:]), nil
}

// Request builds the codec input for q against d.
func (q *Query) Request(d *Device) frame.Request {
	unit := d.UnitID
	if q.UnitID != nil {
		unit = *q.UnitID
	}
	return frame.Request{
		Function:      q.Function,
		Address:       q.Address,
		Count:         q.Count,
		UnitID:        unit,
		TransactionID: q.TransactionID,
		WriteBuffer:   q.WriteBuffer,
	}
}

// SetReadBuffer installs buf as the raw read buffer and recomputes every
// watched register before returning.
func (q *Query) SetReadBuffer(buf []byte) error {
	q.ReadBuffer = buf
	return q.RecomputeAll()
}

// RecomputeAll refreshes every watched register from the current read buffer.
// Safe to call repeatedly.
func (q *Query) RecomputeAll() error {
	return watch.RecomputeAll(q.Watches, q.ReadBuffer)
}

// Decode renders element at offset with the query's display settings.
func (q *Query) Decode(offset int) (value.Display, error) {
	return value.Decode(q.ReadBuffer, offset, q.View, q.Factor, q.ValueOffset)
}

// Pin adds a watched register at offset of the current read buffer.
func (q *Query) Pin(offset int, view value.View, factor, valueOffset float64) (watch.Register, error) {
	r := watch.New(offset, view, factor, valueOffset)
	if err := r.Update(q.ReadBuffer); err != nil {
		return watch.Register{}, err
	}
	q.Watches = append(q.Watches, r)
	return r, nil
}

// AddWatch appends r without checking it against the current buffer.
func (q *Query) AddWatch(r watch.Register) {
	q.Watches = append(q.Watches, r)
}

// Unpin removes the watched registers at the given indices.
func (q *Query) Unpin(indices ...int) {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	q.Watches = compact(q.Watches, false, func(i int, _ watch.Register) bool { return drop[i] })
}

// EditWatch applies fn to an unlocked watched register.
func (q *Query) EditWatch(i int, fn func(*watch.Register)) error {
	if i < 0 || i >= len(q.Watches) {
		return ErrNotFound
	}
	if q.Watches[i].Locked {
		return ErrLocked
	}
	fn(&q.Watches[i])
	return nil
}

// SetLocked toggles the edit lock of a watched register.
func (q *Query) SetLocked(i int, locked bool) error {
	if i < 0 || i >= len(q.Watches) {
		return ErrNotFound
	}
	q.Watches[i].Locked = locked
	return nil
}

// UnmarshalJSON fills missing fields with NewQuery defaults.
func (q *Query) UnmarshalJSON(b []byte) error {
	type plain Query
	p := plain(*NewQuery())

	// Older templates use these keys; the current ones win when both appear.
	var old struct {
		Lable *string `json:"lable"`
		Reg   *uint16 `json:"reg"`
		TrID  *uint16 `json:"tr_id"`
	}
	if err := json.Unmarshal(b, &old); err != nil {
		return err
	}
	if old.Lable != nil {
		p.Label = *old.Lable
	}
	if old.Reg != nil {
		p.Address = *old.Reg
	}
	if old.TrID != nil {
		p.TransactionID = *old.TrID
	}

	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	*q = Query(p)
	return nil
}

// Clone returns a deep copy of q that shares no buffers with it.
func (q *Query) Clone() *Query {
	c := *q
	if q.UnitID != nil {
		u := *q.UnitID
		c.UnitID = &u
	}
	c.ReadBuffer = append([]byte(nil), q.ReadBuffer...)
	c.WriteBuffer = append([]byte(nil), q.WriteBuffer...)
	c.Watches = append([]watch.Register(nil), q.Watches...)
	return &c
}
