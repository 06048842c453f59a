// internal/device/workspace.go
package device

// Workspace is the ordered set of devices an operator works with.
type Workspace struct {
	Devices []*Device `json:"devices"`
}

// NewWorkspace starts with one default device.
func NewWorkspace() *Workspace {
	return &Workspace{Devices: []*Device{NewDevice()}}
}

func (w *Workspace) AddDevice() *Device {
	d := NewDevice()
	w.Devices = append(w.Devices, d)
	return d
}

func (w *Workspace) Device(id string) (*Device, int) {
	for i, d := range w.Devices {
		if d.ID == id {
			return d, i
		}
	}
	return nil, -1
}

// RemoveDevice deletes device id; see Device.RemoveQuery for selection.
func (w *Workspace) RemoveDevice(id, selected string) (string, error) {
	_, idx := w.Device(id)
	switch {
	case idx < 0:
		return selected, ErrNotFound
	case idx == 0:
		return selected, ErrProtected
	}
	if selected == id {
		selected = w.Devices[idx-1].ID
	}
	w.Devices = compact(w.Devices, true, func(i int, _ *Device) bool { return i == idx })
	return selected, nil
}

// Selection is view state owned by the UI. It references entities by id;
// an empty QueryID means the device itself is selected.
type Selection struct {
	DeviceID string
	QueryID  string
}

// Resolve maps sel onto the workspace, falling back to the first device and
// to the device itself when the ids are stale.
func (w *Workspace) Resolve(sel Selection) (*Device, *Query, Selection) {
	if len(w.Devices) == 0 {
		return nil, nil, Selection{}
	}
	d, _ := w.Device(sel.DeviceID)
	if d == nil {
		d = w.Devices[0]
	}
	out := Selection{DeviceID: d.ID}
	q, _ := d.Query(sel.QueryID)
	if q != nil {
		out.QueryID = q.ID
	}
	return d, q, out
}
