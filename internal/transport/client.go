// internal/transport/client.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/tamzrod/modbus-scanner/internal/frame"
)

// DefaultTimeout applies to connect, each write and each read.
const DefaultTimeout = 1 * time.Second

// Client opens one connection per exchange. The zero value is ready to use.
type Client struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Conn is a single-use connection to a device.
type Conn struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func orDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Dial connects to host:port. port is parsed here so a bad port string is a
// connect failure like any other.
func (c Client) Dial(ctx context.Context, host, port string) (*Conn, error) {
	addr := net.JoinHostPort(host, port)

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: fmt.Errorf("invalid port %q", port)}
	}
	if host == "" {
		return nil, &ConnectError{Addr: addr, Err: errors.New("empty host")}
	}
	addr = net.JoinHostPort(host, strconv.FormatUint(p, 10))

	d := net.Dialer{Timeout: orDefault(c.ConnectTimeout)}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}

	return &Conn{
		conn:         conn,
		readTimeout:  orDefault(c.ReadTimeout),
		writeTimeout: orDefault(c.WriteTimeout),
	}, nil
}

// Close releases the connection.
func (c *Conn) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Exchange writes req and reads one complete response frame: the 6-byte
// header first, then the body length it declares. Cancelling ctx closes the
// connection and aborts the exchange.
func (c *Conn) Exchange(ctx context.Context, req []byte) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := writeAll(c.conn, req); err != nil {
		return nil, c.ioErr(ctx, "write", err)
	}

	header := make([]byte, frame.HeaderSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return nil, c.ioErr(ctx, "read header", err)
	}

	n, err := frame.ResponseLength(header)
	if err != nil {
		return nil, err
	}

	adu := make([]byte, frame.HeaderSize+n)
	copy(adu, header)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	if _, err := io.ReadFull(c.conn, adu[frame.HeaderSize:]); err != nil {
		return nil, c.ioErr(ctx, "read body", err)
	}

	return adu, nil
}

func (c *Conn) ioErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &IOError{Op: op, Err: ctxErr}
	}
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		err = ErrTimeout
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		err = ErrIncomplete
	}
	return &IOError{Op: op, Err: err}
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
