// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamzrod/modbus-scanner/internal/status"
	"github.com/tamzrod/modbus-scanner/internal/worker"
)

const namespace = "modbus_scanner"

// Collector exports execution outcomes and watched register values.
type Collector struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	watches    *prometheus.GaugeVec
	health     *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executions_total",
			Help:      "Query executions by outcome stage.",
		}, []string{"device", "query", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "execution_seconds",
			Help:      "Wall time of one query execution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}, []string{"device"}),
		watches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watch_value",
			Help:      "Scaled value of a watched register.",
		}, []string{"device", "query", "watch", "unit"}),
		health: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_health",
			Help:      "Device health code (0 unknown, 1 ok, 2 error).",
		}, []string{"device"}),
	}

	reg.MustRegister(c.executions, c.duration, c.watches, c.health)
	return c
}

// Observe records one worker result.
func (c *Collector) Observe(r worker.Result) {
	outcome := "ok"
	if r.Err != nil {
		outcome = r.Stage.String() + "_error"
	}
	c.executions.WithLabelValues(r.DeviceLabel, r.Query.Label, outcome).Inc()
	c.duration.WithLabelValues(r.DeviceLabel).Observe(r.Elapsed.Seconds())

	if r.Err != nil {
		return
	}
	for _, w := range r.Query.Watches {
		if w.Err != nil {
			continue
		}
		c.watches.WithLabelValues(r.DeviceLabel, r.Query.Label, w.Label, w.Suffix).Set(w.Value)
	}
}

// SetHealth publishes a device health snapshot.
func (c *Collector) SetHealth(deviceLabel string, s status.Snapshot) {
	c.health.WithLabelValues(deviceLabel).Set(float64(s.Health))
}
