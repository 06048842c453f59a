// internal/frame/request.go
package frame

import (
	"encoding/binary"
)

// MBAP header layout.
//
//	TID(2) PID(2=0) LEN(2) UID(1)
//
// LEN counts the unit id plus the PDU.
const (
	HeaderSize  = 6 // bytes needed to derive the frame length
	mbapSize    = 7 // HeaderSize + unit id
	maxBodySize = 254
	protocolID  = 0

	maxReadBits       = 2000
	maxReadRegisters  = 125
	maxWriteBits      = 1968
	maxWriteRegisters = 123
)

// Request is everything needed to build one request frame.
type Request struct {
	Function      FunctionCode
	Address       uint16
	Count         uint16
	UnitID        uint8
	TransactionID uint16

	// WriteBuffer carries the values for write function codes.
	//   FC5:  byte 0 != 0
	//   FC6:  bytes 0-1, little-endian word
	//   FC15: 2-byte elements, each != 0
	//   FC16: 2-byte elements, little-endian words
	WriteBuffer []byte
}

// Quantity is the protocol quantity field sent for r.
// Bit reads request Count*BitsPerCount bits.
func (r Request) Quantity() int {
	switch {
	case r.Function.IsBitRead():
		return int(r.Count) * BitsPerCount
	case r.Function.IsRead():
		return int(r.Count)
	case r.Function == WriteMultipleCoils, r.Function == WriteMultipleRegisters:
		return len(r.WriteBuffer) / 2
	default:
		return 1
	}
}

// BuildRequest encodes r as a complete Modbus/TCP ADU.
func BuildRequest(r Request) ([]byte, error) {
	pdu, err := buildPDU(r)
	if err != nil {
		return nil, err
	}

	adu := make([]byte, mbapSize+len(pdu))
	binary.BigEndian.PutUint16(adu[0:2], r.TransactionID)
	binary.BigEndian.PutUint16(adu[2:4], protocolID)
	binary.BigEndian.PutUint16(adu[4:6], uint16(1+len(pdu)))
	adu[6] = r.UnitID
	copy(adu[mbapSize:], pdu)

	return adu, nil
}

func buildPDU(r Request) ([]byte, error) {
	fc := r.Function
	if !fc.Valid() {
		return nil, encodeErr(fc, "unsupported function code")
	}

	qty := r.Quantity()

	switch fc {
	case ReadCoils, ReadDiscreteInputs:
		if err := checkQuantity(fc, r.Address, qty, maxReadBits); err != nil {
			return nil, err
		}
		return addrQty(fc, r.Address, uint16(qty)), nil

	case ReadHoldingRegisters, ReadInputRegisters:
		if err := checkQuantity(fc, r.Address, qty, maxReadRegisters); err != nil {
			return nil, err
		}
		return addrQty(fc, r.Address, uint16(qty)), nil

	case WriteSingleCoil:
		if len(r.WriteBuffer) < 1 {
			return nil, encodeErr(fc, "write buffer is empty")
		}
		var v uint16
		if r.WriteBuffer[0] != 0 {
			v = 0xFF00
		}
		return addrQty(fc, r.Address, v), nil

	case WriteSingleRegister:
		if len(r.WriteBuffer) < 2 {
			return nil, encodeErr(fc, "write buffer holds %d bytes, need 2", len(r.WriteBuffer))
		}
		return addrQty(fc, r.Address, binary.LittleEndian.Uint16(r.WriteBuffer)), nil

	case WriteMultipleCoils:
		if err := checkQuantity(fc, r.Address, qty, maxWriteBits); err != nil {
			return nil, err
		}
		bits := make([]bool, qty)
		for i := range bits {
			bits[i] = r.WriteBuffer[2*i] != 0 || r.WriteBuffer[2*i+1] != 0
		}
		packed := packBits(bits)
		pdu := addrQty(fc, r.Address, uint16(qty))
		pdu = append(pdu, byte(len(packed)))
		return append(pdu, packed...), nil

	default: // WriteMultipleRegisters
		if err := checkQuantity(fc, r.Address, qty, maxWriteRegisters); err != nil {
			return nil, err
		}
		pdu := addrQty(fc, r.Address, uint16(qty))
		pdu = append(pdu, byte(2*qty))
		for i := 0; i < qty; i++ {
			w := binary.LittleEndian.Uint16(r.WriteBuffer[2*i:])
			pdu = append(pdu, byte(w>>8), byte(w))
		}
		return pdu, nil
	}
}

func checkQuantity(fc FunctionCode, addr uint16, qty, max int) error {
	if qty == 0 {
		return encodeErr(fc, "quantity must be greater than zero")
	}
	if qty > max {
		return encodeErr(fc, "quantity %d exceeds maximum %d", qty, max)
	}
	if int(addr)+qty > 0x10000 {
		return encodeErr(fc, "address %d + quantity %d exceeds address space", addr, qty)
	}
	return nil
}

// addrQty builds FC(1) Address(2) Value(2).
func addrQty(fc FunctionCode, addr, v uint16) []byte {
	pdu := make([]byte, 5, 6)
	pdu[0] = byte(fc)
	binary.BigEndian.PutUint16(pdu[1:3], addr)
	binary.BigEndian.PutUint16(pdu[3:5], v)
	return pdu
}

func packBits(bits []bool) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
