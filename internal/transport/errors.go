// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is a read or write that hit its deadline.
	ErrTimeout = errors.New("timed out")
	// ErrIncomplete is a frame cut short by the peer.
	ErrIncomplete = errors.New("incomplete frame")
)

// ConnectError is a failure to reach the device endpoint.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("transport: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// IOError is a failure mid-exchange. Op is "write", "read header" or "read body".
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
