// internal/frame/errors.go
package frame

import (
	"errors"
	"fmt"

	"github.com/goburrow/modbus"
)

// ErrUnknownFrameLength means the MBAP header did not allow the body length
// to be derived.
var ErrUnknownFrameLength = errors.New("frame: unable to determine response frame length")

// EncodeError is an invalid request detected before any network I/O.
type EncodeError struct {
	Function FunctionCode
	Msg      string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("frame: cannot encode %s: %s", e.Function, e.Msg)
}

func encodeErr(fc FunctionCode, format string, args ...interface{}) error {
	return &EncodeError{Function: fc, Msg: fmt.Sprintf(format, args...)}
}

// ProtocolError is a response frame that does not match its request.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "frame: " + e.Msg }

func protoErr(format string, args ...interface{}) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

// Exception returns the Modbus exception carried by err, if any.
func Exception(err error) (*modbus.ModbusError, bool) {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
