// cmd/scanner/run.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-scanner/internal/config"
	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/executor"
	"github.com/tamzrod/modbus-scanner/internal/metrics"
	"github.com/tamzrod/modbus-scanner/internal/poller"
	"github.com/tamzrod/modbus-scanner/internal/report"
	"github.com/tamzrod/modbus-scanner/internal/status"
)

// runOnce executes every query in order and prints it. It returns the
// number of failed executions.
func runOnce(ctx context.Context, ws *device.Workspace, exec *executor.Executor, grid bool) int {
	rep := report.New(os.Stdout)
	rep.Grid = grid

	failed := 0
	for _, d := range ws.Devices {
		for _, q := range d.Queries {
			if ctx.Err() != nil {
				return failed + 1
			}
			if res := exec.Execute(ctx, d, q); !res.OK() {
				failed++
			}
			_ = rep.WriteQuery(d.Label, q)
		}
	}
	return failed
}

// runPoll runs one worker and poller per device until ctx ends.
func runPoll(ctx context.Context, log zerolog.Logger, s *config.ScannerConfig, ws *device.Workspace, exec *executor.Executor, grid bool) {
	reg := prometheus.NewRegistry()
	col := metrics.New(reg)

	if s.Metrics.Listen != "" {
		srv := &http.Server{
			Addr:              s.Metrics.Listen,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", s.Metrics.Listen).Msg("metrics server failed")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", s.Metrics.Listen).Msg("metrics listening")
	}

	// report output is shared by every device goroutine
	var mu sync.Mutex
	rep := report.New(os.Stdout)
	rep.Grid = grid

	interval := time.Duration(s.Poll.IntervalMs) * time.Millisecond

	var wg sync.WaitGroup
	for _, d := range ws.Devices {
		dlog := log.With().Str("device", d.Label).Logger()

		// ---- worker + poller ----
		p, stopWorker, err := poller.Build(ctx, d, exec, interval, s.Poll.QueueSize, dlog)
		if err != nil {
			dlog.Error().Err(err).Msg("poller build failed")
			continue
		}

		out := make(chan poller.PollResult)

		// Orchestrator (tracker-owned state + 1Hz seconds ticker)
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			defer stopWorker()

			tracker := status.NewTracker()
			col.SetHealth(label, tracker.Snapshot())

			secTicker := time.NewTicker(time.Second)
			defer secTicker.Stop()

			for {
				select {
				case <-ctx.Done():
					return

				case res := <-out:
					if res.Err != nil {
						dlog.Warn().Err(res.Err).Msg("query not submitted")
					} else {
						col.Observe(res.Result)
						mu.Lock()
						_ = rep.WriteQuery(label, res.Result.Query)
						mu.Unlock()
					}

					if snap, changed := tracker.Observe(res.Cause()); changed {
						col.SetHealth(label, snap)
						mu.Lock()
						_ = rep.WriteHealth(label, snap)
						mu.Unlock()
					}

				case <-secTicker.C:
					if snap, changed := tracker.Tick(); changed {
						col.SetHealth(label, snap)
					}
				}
			}
		}(d.Label)

		// poller producer
		go p.Run(ctx, out)
	}

	wg.Wait()
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}
