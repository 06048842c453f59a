// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/worker"
)

// Submitter queues a query for execution. *worker.Worker satisfies it.
type Submitter interface {
	Submit(q *device.Query, done func(worker.Result)) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	DeviceID string
	Interval time.Duration
	Queries  []*device.Query
}

// Poller is a clock-driven re-executor for one device's queries.
type Poller struct {
	cfg Config
	sub Submitter

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates a poller with immutable config.
func New(cfg Config, sub Submitter) (*Poller, error) {
	if cfg.DeviceID == "" {
		return nil, errors.New("poller: device id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Queries) == 0 {
		return nil, errors.New("poller: at least one query required")
	}
	if sub == nil {
		return nil, errors.New("poller: submitter required")
	}
	return &Poller{cfg: cfg, sub: sub, inFlight: make(map[string]bool)}, nil
}

// PollOnce submits every query that is not still running from a previous
// cycle. Each completion or submission failure produces one PollResult.
func (p *Poller) PollOnce(ctx context.Context, out chan<- PollResult) {
	for _, q := range p.cfg.Queries {
		if !p.claim(q.ID) {
			continue
		}

		id := q.ID
		err := p.sub.Submit(q, func(r worker.Result) {
			p.release(id)
			emit(ctx, out, PollResult{DeviceID: p.cfg.DeviceID, At: time.Now(), Result: r})
		})
		if err != nil {
			p.release(id)
			emit(ctx, out, PollResult{DeviceID: p.cfg.DeviceID, At: time.Now(), Err: err})
		}
	}
}

// Run polls immediately, then every Interval until ctx ends.
// No overlap per query. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.PollOnce(ctx, out)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx, out)
		}
	}
}

func (p *Poller) claim(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[id] {
		return false
	}
	p.inFlight[id] = true
	return true
}

func (p *Poller) release(id string) {
	p.mu.Lock()
	delete(p.inFlight, id)
	p.mu.Unlock()
}

func emit(ctx context.Context, out chan<- PollResult, r PollResult) {
	select {
	case out <- r:
	case <-ctx.Done():
	}
}
