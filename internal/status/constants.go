// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents a device that has not been queried yet.
const HealthUnknown uint16 = 0

// HealthOK represents a device whose last query succeeded.
const HealthOK uint16 = 1

// HealthError represents a device whose last query failed.
const HealthError uint16 = 2

// GenericErrorCode is reported for failures that carry no Modbus exception code.
const GenericErrorCode uint16 = 1

// MaxSecondsInError caps the error duration counter.
const MaxSecondsInError = 65535

// HealthName is the display name of a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
