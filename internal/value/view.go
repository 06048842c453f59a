// internal/value/view.go
package value

import (
	"fmt"
	"strings"
)

// View is the numeric interpretation applied to a segment of a raw buffer.
type View uint8

const (
	U16 View = iota
	I16
	U32
	I32
	F32
	Hex
)

var viewNames = [...]string{
	U16: "u16",
	I16: "i16",
	U32: "u32",
	I32: "i32",
	F32: "f32",
	Hex: "hex",
}

// legacyViewNames are the view names used by older .device templates.
var legacyViewNames = map[string]View{
	"unsigned16bit": U16,
	"signed16bit":   I16,
	"unsigned32bit": U32,
	"signed32bit":   I32,
	"float32bit":    F32,
}

// Width is the number of buffer bytes one value occupies.
func (v View) Width() int {
	switch v {
	case U32, I32, F32:
		return 4
	default:
		return 2
	}
}

// Step is the offset increment between consecutive grid elements.
func (v View) Step() int { return v.Width() }

func (v View) Valid() bool { return int(v) < len(viewNames) }

func (v View) String() string {
	if !v.Valid() {
		return fmt.Sprintf("view(%d)", uint8(v))
	}
	return viewNames[v]
}

// ParseView accepts the short names ("u16", "f32", ...) and the long template
// names ("Unsigned16bit", "Float32bit", ...) case-insensitively.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if n == s {
			return View(i), nil
		}
	}
	if v, ok := legacyViewNames[s]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("value: unknown view %q", s)
}

func (v View) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("value: invalid view %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *View) UnmarshalText(b []byte) error {
	p, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = p
	return nil
}
