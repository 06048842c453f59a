// internal/value/decode.go
package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// RangeError reports a decode that would read past the end of the buffer.
type RangeError struct {
	Offset int
	Width  int
	Len    int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value: offset %d width %d exceeds buffer length %d", e.Offset, e.Width, e.Len)
}

// Display is one decoded element ready for rendering.
type Display struct {
	View   View
	Scaled float64 // raw*factor+offset; unused for Hex
	Hex    string  // 4 hex digits; Hex view only
}

func (d Display) String() string {
	if d.View == Hex {
		return d.Hex
	}
	return strconv.FormatFloat(d.Scaled, 'g', -1, 64)
}

// wordSwapped builds the 32-bit big-endian value from two registers stored
// low word first: bytes [off+2, off+3, off, off+1].
func wordSwapped(buf []byte, off int) uint32 {
	return binary.BigEndian.Uint32([]byte{buf[off+2], buf[off+3], buf[off], buf[off+1]})
}

// Raw returns the unscaled value at off. Hex returns the 16-bit word.
func Raw(buf []byte, off int, v View) (float64, error) {
	if !v.Valid() {
		return 0, fmt.Errorf("value: invalid view %d", uint8(v))
	}
	w := v.Width()
	if off < 0 || off+w-1 >= len(buf) {
		return 0, &RangeError{Offset: off, Width: w, Len: len(buf)}
	}

	switch v {
	case U16, Hex:
		return float64(binary.BigEndian.Uint16(buf[off:])), nil
	case I16:
		return float64(int16(binary.BigEndian.Uint16(buf[off:]))), nil
	case U32:
		return float64(wordSwapped(buf, off)), nil
	case I32:
		return float64(int32(wordSwapped(buf, off))), nil
	default: // F32
		return float64(math.Float32frombits(wordSwapped(buf, off))), nil
	}
}

// Scale applies the linear transform shared by the grid and watched registers.
func Scale(raw, factor, offset float64) float64 {
	return raw*factor + offset
}

// Decode reads one element of buf at byte offset off.
// Hex values are never scaled.
func Decode(buf []byte, off int, v View, factor, offset float64) (Display, error) {
	raw, err := Raw(buf, off, v)
	if err != nil {
		return Display{}, err
	}
	if v == Hex {
		return Display{View: v, Hex: fmt.Sprintf("%04X", uint16(raw))}, nil
	}
	return Display{View: v, Scaled: Scale(raw, factor, offset)}, nil
}

// DecodeAll walks buf in steps of v.Step() and stops at the last complete element.
func DecodeAll(buf []byte, v View, factor, offset float64) []Display {
	var out []Display
	for off := 0; off+v.Width() <= len(buf); off += v.Step() {
		d, err := Decode(buf, off, v, factor, offset)
		if err != nil {
			break
		}
		out = append(out, d)
	}
	return out
}
