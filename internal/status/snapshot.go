// internal/status/snapshot.go
package status

// Snapshot is the health of one device as derived from its query outcomes.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}
