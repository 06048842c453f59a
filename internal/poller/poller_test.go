// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/executor"
	"github.com/tamzrod/modbus-scanner/internal/worker"
)

// fakeSubmitter completes jobs inline unless hold is set.
type fakeSubmitter struct {
	fail    error
	hold    bool
	held    []func(worker.Result)
	submits int
}

func (f *fakeSubmitter) Submit(q *device.Query, done func(worker.Result)) error {
	f.submits++
	if f.fail != nil {
		return f.fail
	}
	if f.hold {
		f.held = append(f.held, done)
		return nil
	}
	done(worker.Result{Query: q.Clone(), Result: executor.Result{Stage: executor.StageDone}})
	return nil
}

func queries(n int) []*device.Query {
	out := make([]*device.Query, n)
	for i := range out {
		out[i] = device.NewQuery()
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	sub := &fakeSubmitter{}
	if _, err := New(Config{Interval: time.Second, Queries: queries(1)}, sub); err == nil {
		t.Fatalf("expected error for missing device id")
	}
	if _, err := New(Config{DeviceID: "d", Queries: queries(1)}, sub); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if _, err := New(Config{DeviceID: "d", Interval: time.Second}, sub); err == nil {
		t.Fatalf("expected error for no queries")
	}
}

func TestPollOnce_Success(t *testing.T) {
	sub := &fakeSubmitter{}
	p, err := New(Config{DeviceID: "d1", Interval: time.Second, Queries: queries(2)}, sub)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	out := make(chan PollResult, 4)
	p.PollOnce(context.Background(), out)

	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for i := 0; i < 2; i++ {
		if r := <-out; r.Failed() || r.DeviceID != "d1" {
			t.Fatalf("unexpected result %+v", r)
		}
	}
}

func TestPollOnce_SubmitFailure(t *testing.T) {
	sub := &fakeSubmitter{fail: worker.ErrQueueFull}
	p, _ := New(Config{DeviceID: "d1", Interval: time.Second, Queries: queries(1)}, sub)

	out := make(chan PollResult, 1)
	p.PollOnce(context.Background(), out)

	r := <-out
	if !errors.Is(r.Cause(), worker.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", r.Cause())
	}

	// claim released: the next cycle submits again
	p.PollOnce(context.Background(), out)
	<-out
	if sub.submits != 2 {
		t.Fatalf("expected 2 submits, got %d", sub.submits)
	}
}

func TestPollOnce_NoOverlap(t *testing.T) {
	sub := &fakeSubmitter{hold: true}
	p, _ := New(Config{DeviceID: "d1", Interval: time.Second, Queries: queries(1)}, sub)

	out := make(chan PollResult, 2)
	p.PollOnce(context.Background(), out)
	p.PollOnce(context.Background(), out)
	if sub.submits != 1 {
		t.Fatalf("query resubmitted while in flight: %d submits", sub.submits)
	}

	sub.held[0](worker.Result{Query: device.NewQuery()})
	<-out

	p.PollOnce(context.Background(), out)
	if sub.submits != 2 {
		t.Fatalf("expected resubmit after completion, got %d", sub.submits)
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	sub := &fakeSubmitter{}
	p, _ := New(Config{DeviceID: "d1", Interval: 10 * time.Millisecond, Queries: queries(1)}, sub)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(stopped)
	}()

	<-out
	<-out
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
