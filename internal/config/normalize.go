// internal/config/normalize.go
package config

const (
	DefaultIntervalMs = 1000
	DefaultQueueSize  = 8
	DefaultTimeoutMs  = 1000
	DefaultPort       = "502"
	DefaultLogLevel   = "info"
	DefaultUnitID     = 1
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	s := &cfg.Scanner

	if s.Poll.IntervalMs == 0 {
		s.Poll.IntervalMs = DefaultIntervalMs
	}
	if s.Poll.QueueSize == 0 {
		s.Poll.QueueSize = DefaultQueueSize
	}
	if s.Poll.TimeoutMs == 0 {
		s.Poll.TimeoutMs = DefaultTimeoutMs
	}
	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
	}

	for di := range s.Devices {
		d := &s.Devices[di]
		if d.Port == "" {
			d.Port = DefaultPort
		}
		if d.UnitID == nil {
			unit := uint8(DefaultUnitID)
			d.UnitID = &unit
		}

		for qi := range d.Queries {
			q := &d.Queries[qi]

			// write queries size themselves from their values
			if q.Count == 0 {
				if len(q.Write) > 0 {
					q.Count = uint16(len(q.Write))
				} else {
					q.Count = 1
				}
			}
			if q.TransactionID == 0 {
				q.TransactionID = 1
			}
			if q.View == "" {
				q.View = "u16"
			}
			for wi := range q.Watches {
				if q.Watches[wi].View == "" {
					q.Watches[wi].View = "u16"
				}
			}
		}
	}
}
