// internal/device/device.go
package device

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ErrProtected is returned when deleting the first element of a list.
var ErrProtected = errors.New("device: the first entry cannot be deleted")

// Device is one remote unit and the queries defined against it.
type Device struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Host    string   `json:"ip"`
	Port    string   `json:"port"`
	UnitID  uint8    `json:"unit_id"`
	Queries []*Query `json:"queries"`
	Notes   string   `json:"notes"`
}

// NewDevice returns a device with the defaults used by "Add Device".
func NewDevice() *Device {
	return &Device{
		ID:      uuid.NewString(),
		Label:   "New Device",
		UnitID:  1,
		Queries: []*Query{NewQuery()},
		Notes:   "Add device notes here",
	}
}

// AddQuery appends a default query and returns it.
func (d *Device) AddQuery() *Query {
	q := NewQuery()
	d.Queries = append(d.Queries, q)
	return q
}

// Query looks a query up by id.
func (d *Device) Query(id string) (*Query, int) {
	for i, q := range d.Queries {
		if q.ID == id {
			return q, i
		}
	}
	return nil, -1
}

// RemoveQuery deletes query id. selected is the caller's selected query id;
// the returned id is the selection after removal (the previous query if the
// selected one was removed).
func (d *Device) RemoveQuery(id, selected string) (string, error) {
	_, idx := d.Query(id)
	switch {
	case idx < 0:
		return selected, ErrNotFound
	case idx == 0:
		return selected, ErrProtected
	}
	if selected == id {
		selected = d.Queries[idx-1].ID
	}
	d.Queries = compact(d.Queries, true, func(i int, _ *Query) bool { return i == idx })
	return selected, nil
}

// RemoveQueries deletes every listed query except the first in one pass.
func (d *Device) RemoveQueries(ids ...string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var err error
	if len(d.Queries) > 0 && drop[d.Queries[0].ID] {
		err = ErrProtected
	}
	d.Queries = compact(d.Queries, true, func(_ int, q *Query) bool { return drop[q.ID] })
	return err
}

// UnmarshalJSON fills missing fields with NewDevice defaults and guarantees
// at least one query.
func (d *Device) UnmarshalJSON(b []byte) error {
	type plain Device
	p := plain(*NewDevice())
	p.Queries = nil

	// Older templates use these keys; the current ones win when both appear.
	var old struct {
		Lable   *string  `json:"lable"`
		Querrys []*Query `json:"querrys"`
		Querys  []*Query `json:"querys"`
	}
	if err := json.Unmarshal(b, &old); err != nil {
		return err
	}
	if old.Lable != nil {
		p.Label = *old.Lable
	}
	switch {
	case old.Querrys != nil:
		p.Queries = old.Querrys
	case old.Querys != nil:
		p.Queries = old.Querys
	}

	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if len(p.Queries) == 0 {
		p.Queries = []*Query{NewQuery()}
	}
	*d = Device(p)
	return nil
}

// compact returns a new slice without the elements drop selects.
// With protectFirst set, index 0 always survives.
func compact[T any](items []T, protectFirst bool, drop func(int, T) bool) []T {
	out := make([]T, 0, len(items))
	for i, it := range items {
		if drop(i, it) && !(protectFirst && i == 0) {
			continue
		}
		out = append(out, it)
	}
	return out
}
