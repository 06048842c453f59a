// internal/frame/response.go
package frame

import (
	"encoding/binary"

	"github.com/goburrow/modbus"
)

// registerPayloadStart is where register bytes begin in a read response:
// MBAP(7) + FC(1) + byte count(1).
const registerPayloadStart = mbapSize + 2

// ResponseLength derives the number of bytes that follow the 6-byte header.
func ResponseLength(header []byte) (int, error) {
	if len(header) < HeaderSize {
		return 0, ErrUnknownFrameLength
	}
	if binary.BigEndian.Uint16(header[2:4]) != protocolID {
		return 0, ErrUnknownFrameLength
	}
	n := int(binary.BigEndian.Uint16(header[4:6]))
	if n == 0 || n > maxBodySize {
		return 0, ErrUnknownFrameLength
	}
	return n, nil
}

// ParseResponse validates adu against r and unwraps its payload.
//
// Bit reads return one byte per requested bit (0 or 1), not the packed wire
// bytes. Register reads return the register bytes as sent by the device
// (big-endian words). Writes return a nil payload.
func ParseResponse(r Request, adu []byte) ([]byte, error) {
	if len(adu) < mbapSize+2 {
		return nil, protoErr("response of %d bytes is too short", len(adu))
	}
	if n := int(binary.BigEndian.Uint16(adu[4:6])); n != len(adu)-HeaderSize {
		return nil, protoErr("declared length %d does not match %d received", n, len(adu)-HeaderSize)
	}
	if tid := binary.BigEndian.Uint16(adu[0:2]); tid != r.TransactionID {
		return nil, protoErr("transaction id mismatch: got=%d want=%d", tid, r.TransactionID)
	}
	if adu[6] != r.UnitID {
		return nil, protoErr("unit id mismatch: got=%d want=%d", adu[6], r.UnitID)
	}

	fc := adu[mbapSize]
	if fc == byte(r.Function)|0x80 {
		return nil, &modbus.ModbusError{FunctionCode: byte(r.Function), ExceptionCode: adu[mbapSize+1]}
	}
	if fc != byte(r.Function) {
		return nil, protoErr("function mismatch: got=%d want=%d", fc, uint8(r.Function))
	}

	switch {
	case r.Function.IsBitRead():
		data, err := readPayload(adu)
		if err != nil {
			return nil, err
		}
		qty := r.Quantity()
		if len(data) < (qty+7)/8 {
			return nil, protoErr("read-bits payload of %d bytes shorter than %d bits", len(data), qty)
		}
		return unpackBits(data, qty), nil

	case r.Function.IsRead():
		data, err := readPayload(adu)
		if err != nil {
			return nil, err
		}
		if len(data)%2 != 0 {
			return nil, protoErr("read-registers byte count %d not even", len(data))
		}
		return data, nil

	default:
		if len(adu) < mbapSize+5 {
			return nil, protoErr("write response of %d bytes is too short", len(adu))
		}
		if addr := binary.BigEndian.Uint16(adu[mbapSize+1:]); addr != r.Address {
			return nil, protoErr("write address echo mismatch: got=%d want=%d", addr, r.Address)
		}
		return nil, nil
	}
}

// readPayload returns the bytes after the byte-count field.
func readPayload(adu []byte) ([]byte, error) {
	byteCount := int(adu[mbapSize+1])
	if len(adu)-registerPayloadStart < byteCount {
		return nil, protoErr("payload shorter than byte count %d", byteCount)
	}
	out := make([]byte, byteCount)
	copy(out, adu[registerPayloadStart:registerPayloadStart+byteCount])
	return out, nil
}

func unpackBits(data []byte, count int) []byte {
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		if data[i/8]&(1<<uint(i%8)) != 0 {
			out[i] = 1
		}
	}
	return out
}
