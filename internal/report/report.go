// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/status"
	"github.com/tamzrod/modbus-scanner/internal/value"
)

// Writer renders query results as text.
type Writer struct {
	out io.Writer

	// Grid controls whether the decoded buffer is printed; watches always are.
	Grid bool
}

func New(out io.Writer) *Writer {
	return &Writer{out: out, Grid: true}
}

// WriteQuery prints the status line, the decoded read buffer and the
// watched registers of q.
func (w *Writer) WriteQuery(deviceLabel string, q *device.Query) error {
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "== %s / %s [%s] %s\n", deviceLabel, q.Label, q.Function, q.Status)

	if w.Grid && q.Function.IsRead() && len(q.ReadBuffer) > 0 {
		if q.Function.IsBitRead() {
			// one byte per bit, see frame.ParseResponse
			fmt.Fprintln(tw, "bit\tvalue")
			for i, b := range q.ReadBuffer {
				fmt.Fprintf(tw, "%d\t%d\n", i, b)
			}
		} else {
			fmt.Fprintf(tw, "offset\tregister\t%s\n", q.View)
			for i, d := range value.DecodeAll(q.ReadBuffer, q.View, q.Factor, q.ValueOffset) {
				off := i * q.View.Step()
				fmt.Fprintf(tw, "%d\t%d\t%s\n", off, int(q.Address)+off/2, d)
			}
		}
	}

	for _, r := range q.Watches {
		fmt.Fprintf(tw, "  %s\t%s %s\t@%d %s\n", r.Label, r.Display(), r.Suffix, r.Offset, r.View)
	}

	return tw.Flush()
}

// WriteHealth prints one device health line.
func (w *Writer) WriteHealth(deviceLabel string, s status.Snapshot) error {
	_, err := fmt.Fprintf(w.out, "-- %s health=%s last_error=%d seconds_in_error=%d\n",
		deviceLabel,
		status.HealthName(s.Health),
		s.LastErrorCode,
		s.SecondsInError,
	)
	return err
}
