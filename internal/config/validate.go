// internal/config/validate.go
package config

import (
	"fmt"
	"strconv"

	"github.com/tamzrod/modbus-scanner/internal/frame"
	"github.com/tamzrod/modbus-scanner/internal/value"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	s := cfg.Scanner

	if s.Poll.IntervalMs < 0 || s.Poll.QueueSize < 0 || s.Poll.TimeoutMs < 0 {
		return fmt.Errorf("poll: interval_ms, queue_size and timeout_ms must not be negative")
	}

	if len(s.Devices) == 0 {
		return fmt.Errorf("at least one device is required")
	}

	// device labels double as template file stems
	labels := make(map[string]bool)

	for di, d := range s.Devices {
		name := d.Label
		if name == "" {
			name = fmt.Sprintf("#%d", di)
		} else if labels[d.Label] {
			return fmt.Errorf("device %q: duplicate label", d.Label)
		}
		labels[d.Label] = true

		if d.Host == "" {
			return fmt.Errorf("device %s: host is required", name)
		}
		if d.Port != "" {
			if _, err := strconv.ParseUint(d.Port, 10, 16); err != nil {
				return fmt.Errorf("device %s: invalid port %q", name, d.Port)
			}
		}

		for qi, q := range d.Queries {
			if err := validateQuery(q); err != nil {
				return fmt.Errorf("device %s: query %d (%s): %w", name, qi, q.Label, err)
			}
		}
	}

	return nil
}

func validateQuery(q QueryConfig) error {
	fc := frame.FunctionCode(q.FC)
	if !fc.Valid() {
		return fmt.Errorf("unsupported function code %d", q.FC)
	}

	if q.View != "" {
		if _, err := value.ParseView(q.View); err != nil {
			return err
		}
	}

	if fc.IsRead() && len(q.Write) > 0 {
		return fmt.Errorf("write values given for read function %d", q.FC)
	}
	if fc.IsWrite() {
		if len(q.Write) == 0 {
			return fmt.Errorf("write function %d needs write values", q.FC)
		}
		if (fc == frame.WriteSingleCoil || fc == frame.WriteSingleRegister) && len(q.Write) > 1 {
			return fmt.Errorf("write function %d takes one value, got %d", q.FC, len(q.Write))
		}
		if q.Count != 0 && int(q.Count) != len(q.Write) {
			return fmt.Errorf("count %d does not match %d write values", q.Count, len(q.Write))
		}
	}
	if len(q.Watches) > 0 && !fc.IsRead() {
		return fmt.Errorf("watches need a read function code")
	}

	for wi, w := range q.Watches {
		if w.Offset < 0 {
			return fmt.Errorf("watch %d: negative offset %d", wi, w.Offset)
		}
		if w.View != "" {
			if _, err := value.ParseView(w.View); err != nil {
				return fmt.Errorf("watch %d: %w", wi, err)
			}
		}
	}

	return nil
}
