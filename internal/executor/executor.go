// internal/executor/executor.go
package executor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/frame"
	"github.com/tamzrod/modbus-scanner/internal/transport"
)

const (
	StatusReadOK  = "Read successful"
	StatusWriteOK = "Write successful"
)

// Stage is how far an execution got.
type Stage uint8

const (
	StageEncode Stage = iota
	StageConnect
	StageExchange
	StageDecode
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageEncode:
		return "encode"
	case StageConnect:
		return "connect"
	case StageExchange:
		return "exchange"
	case StageDecode:
		return "decode"
	default:
		return "done"
	}
}

// Result describes one execution. The query's Status and ReadBuffer are the
// primary outcome; Result exists for logging, metrics and health tracking.
type Result struct {
	Stage   Stage
	Err     error // nil when Stage == StageDone
	Elapsed time.Duration

	// WatchErr holds watched registers that no longer fit the new buffer.
	WatchErr error
}

func (r Result) OK() bool { return r.Err == nil }

// Executor runs queries against their device, one connection per call.
type Executor struct {
	Transport transport.Client
	Logger    zerolog.Logger
}

func New(logger zerolog.Logger) *Executor {
	return &Executor{Logger: logger}
}

// Execute performs one request/response exchange for q and records the
// outcome on q. It blocks until the exchange finishes, times out or ctx is
// cancelled. Errors never escape: they become q.Status.
func (e *Executor) Execute(ctx context.Context, d *device.Device, q *device.Query) Result {
	start := time.Now()
	log := e.Logger.With().
		Str("device", d.Label).
		Str("query", q.Label).
		Uint8("fc", uint8(q.Function)).
		Logger()

	res := e.execute(ctx, log, d, q)
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		q.Status = res.Err.Error()
		log.Warn().Err(res.Err).Stringer("stage", res.Stage).Msg("query failed")
		return res
	}
	if res.WatchErr != nil {
		log.Warn().Err(res.WatchErr).Msg("watched register out of range")
	}
	log.Debug().Dur("elapsed", res.Elapsed).Str("status", q.Status).Msg("query done")
	return res
}

func (e *Executor) execute(ctx context.Context, log zerolog.Logger, d *device.Device, q *device.Query) Result {
	req := q.Request(d)

	adu, err := frame.BuildRequest(req)
	if err != nil {
		return Result{Stage: StageEncode, Err: err}
	}

	conn, err := e.Transport.Dial(ctx, d.Host, d.Port)
	if err != nil {
		return Result{Stage: StageConnect, Err: err}
	}
	defer conn.Close()

	log.Debug().Msgf("sending % x", adu)
	resp, err := conn.Exchange(ctx, adu)
	if err != nil {
		return Result{Stage: StageExchange, Err: err}
	}
	log.Debug().Msgf("received % x", resp)

	payload, err := frame.ParseResponse(req, resp)
	if err != nil {
		return Result{Stage: StageDecode, Err: err}
	}

	res := Result{Stage: StageDone}
	if req.Function.IsRead() {
		q.Status = StatusReadOK
		res.WatchErr = q.SetReadBuffer(payload)
	} else {
		q.Status = StatusWriteOK
	}
	return res
}
