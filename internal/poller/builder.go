// internal/poller/builder.go
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/worker"
)

// Build wires a started worker and a poller for one device.
// The returned stop function stops the worker; the poller ends with ctx.
func Build(ctx context.Context, d *device.Device, run worker.Runner, interval time.Duration, queueSize int, log zerolog.Logger) (*Poller, func(), error) {
	w := worker.New(d, run, queueSize, log)

	p, err := New(Config{
		DeviceID: d.ID,
		Interval: interval,
		Queries:  d.Queries,
	}, w)
	if err != nil {
		return nil, nil, err
	}

	w.Start(ctx)
	return p, w.Stop, nil
}
