// internal/config/config.go
package config

type Config struct {
	Scanner ScannerConfig `yaml:"scanner" toml:"scanner"`
}

type ScannerConfig struct {
	Poll      PollConfig      `yaml:"poll" toml:"poll"`
	Log       LogConfig       `yaml:"log" toml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Templates TemplatesConfig `yaml:"templates" toml:"templates"`
	Devices   []DeviceConfig  `yaml:"devices" toml:"devices"`
}

// ---- RUNTIME ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms" toml:"interval_ms"`
	QueueSize  int `yaml:"queue_size" toml:"queue_size"`
	TimeoutMs  int `yaml:"timeout_ms" toml:"timeout_ms"`
}

type LogConfig struct {
	Level   string `yaml:"level" toml:"level"`
	Console bool   `yaml:"console" toml:"console"`
}

// MetricsConfig enables the /metrics endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}

// TemplatesConfig is where device templates are saved (<label>.device).
type TemplatesConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Label   string        `yaml:"label" toml:"label"`
	Host    string        `yaml:"host" toml:"host"`
	Port    string        `yaml:"port" toml:"port"`
	UnitID  *uint8        `yaml:"unit_id" toml:"unit_id"` // 0 is a valid unit
	Notes   string        `yaml:"notes" toml:"notes"`
	Queries []QueryConfig `yaml:"queries" toml:"queries"`
}

// ---- QUERY ----

type QueryConfig struct {
	Label         string   `yaml:"label" toml:"label"`
	FC            uint8    `yaml:"fc" toml:"fc"`
	Address       uint16   `yaml:"address" toml:"address"`
	Count         uint16   `yaml:"count" toml:"count"`
	TransactionID uint16   `yaml:"transaction_id" toml:"transaction_id"`
	UnitID        *uint8   `yaml:"unit_id" toml:"unit_id"` // unset: device unit id
	View          string   `yaml:"view" toml:"view"`
	Factor        *float64 `yaml:"factor" toml:"factor"`
	ValueOffset   float64  `yaml:"value_offset" toml:"value_offset"`

	// Write holds one 16-bit value per element for write function codes.
	Write []uint16 `yaml:"write" toml:"write"`

	Watches []WatchConfig `yaml:"watches" toml:"watches"`
}

type WatchConfig struct {
	Label       string   `yaml:"label" toml:"label"`
	Suffix      string   `yaml:"suffix" toml:"suffix"`
	Offset      int      `yaml:"offset" toml:"offset"`
	View        string   `yaml:"view" toml:"view"`
	Factor      *float64 `yaml:"factor" toml:"factor"`
	ValueOffset float64  `yaml:"value_offset" toml:"value_offset"`
	Locked      bool     `yaml:"locked" toml:"locked"`
}
