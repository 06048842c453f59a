// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/modbus-scanner/internal/worker"
)

// PollResult is one completed (or skipped) query execution.
type PollResult struct {
	DeviceID string
	At       time.Time

	// Result is the worker outcome; zero when the query was not submitted.
	Result worker.Result

	// Err is a submission failure (queue full, worker stopped).
	Err error
}

// Failed reports whether either the submission or the execution failed.
func (r PollResult) Failed() bool {
	return r.Err != nil || r.Result.Err != nil
}

// Cause is the error that made the result fail, if any.
func (r PollResult) Cause() error {
	if r.Err != nil {
		return r.Err
	}
	return r.Result.Err
}
