// internal/device/template.go
package device

import "encoding/json"

// Device and query templates are JSON records, field for field. These are
// pure transforms; reading and writing files is left to the caller.

func MarshalDevice(d *Device) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func UnmarshalDevice(b []byte) (*Device, error) {
	d := &Device{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	return d, nil
}

func MarshalQuery(q *Query) ([]byte, error) {
	return json.MarshalIndent(q, "", "  ")
}

func UnmarshalQuery(b []byte) (*Query, error) {
	q := &Query{}
	if err := json.Unmarshal(b, q); err != nil {
		return nil, err
	}
	return q, nil
}
