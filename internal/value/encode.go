// internal/value/encode.go
package value

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode is the inverse of Raw: it produces the bytes Raw reads back as x.
// 32-bit views are written low word first. x is truncated toward zero for
// integer views.
func Encode(v View, x float64) ([]byte, error) {
	out := make([]byte, v.Width())
	switch v {
	case U16, Hex:
		if x < 0 || x > math.MaxUint16 {
			return nil, fmt.Errorf("value: %v out of range for %s", x, v)
		}
		binary.BigEndian.PutUint16(out, uint16(x))
	case I16:
		if x < math.MinInt16 || x > math.MaxInt16 {
			return nil, fmt.Errorf("value: %v out of range for %s", x, v)
		}
		binary.BigEndian.PutUint16(out, uint16(int16(x)))
	case U32:
		if x < 0 || x > math.MaxUint32 {
			return nil, fmt.Errorf("value: %v out of range for %s", x, v)
		}
		putWordSwapped(out, uint32(x))
	case I32:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return nil, fmt.Errorf("value: %v out of range for %s", x, v)
		}
		putWordSwapped(out, uint32(int32(x)))
	case F32:
		putWordSwapped(out, math.Float32bits(float32(x)))
	default:
		return nil, fmt.Errorf("value: invalid view %d", uint8(v))
	}
	return out, nil
}

// EncodeUint32 is Encode(U32, x) without the float round trip.
func EncodeUint32(x uint32) []byte {
	out := make([]byte, 4)
	putWordSwapped(out, x)
	return out
}

func putWordSwapped(dst []byte, x uint32) {
	var be [4]byte
	binary.BigEndian.PutUint32(be[:], x)
	dst[0], dst[1], dst[2], dst[3] = be[2], be[3], be[0], be[1]
}
