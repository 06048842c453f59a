// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tamzrod/modbus-scanner/internal/frame"
	"github.com/tamzrod/modbus-scanner/internal/value"
)

const sampleYAML = `
scanner:
  poll:
    interval_ms: 500
  metrics:
    listen: ":9102"
  devices:
    - label: meter
      host: 10.0.0.5
      unit_id: 3
      queries:
        - label: voltage
          fc: 3
          address: 100
          count: 4
          view: f32
          watches:
            - label: L1
              offset: 0
              view: f32
              factor: 0.1
              suffix: V
        - label: relay
          fc: 16
          address: 10
          unit_id: 0
          write: [1, 513]
`

const sampleTOML = `
[scanner.poll]
queue_size = 4

[[scanner.devices]]
label = "plc"
host = "127.0.0.1"
port = "1502"

[[scanner.devices.queries]]
fc = 1
count = 2
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func load(t *testing.T, name, body string) *Config {
	t.Helper()
	cfg, err := Load(writeFile(t, name, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate: %v", err)
	}
	Normalize(cfg)
	return cfg
}

func TestLoad_YAML(t *testing.T) {
	cfg := load(t, "ws.yaml", sampleYAML)

	s := cfg.Scanner
	if s.Poll.IntervalMs != 500 || s.Poll.QueueSize != DefaultQueueSize || s.Poll.TimeoutMs != DefaultTimeoutMs {
		t.Fatalf("poll = %+v", s.Poll)
	}
	if s.Metrics.Listen != ":9102" {
		t.Fatalf("metrics listen = %q", s.Metrics.Listen)
	}
	if s.Log.Level != DefaultLogLevel {
		t.Fatalf("log level = %q", s.Log.Level)
	}

	d := s.Devices[0]
	if d.Port != DefaultPort {
		t.Fatalf("port = %q", d.Port)
	}
	relay := d.Queries[1]
	if relay.Count != 2 {
		t.Fatalf("write count = %d, want sized from values", relay.Count)
	}
	if relay.UnitID == nil || *relay.UnitID != 0 {
		t.Fatalf("explicit unit id lost: %v", relay.UnitID)
	}
	if d.Queries[0].UnitID != nil {
		t.Fatal("unset unit id should stay nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	cfg := load(t, "ws.toml", sampleTOML)

	if cfg.Scanner.Poll.QueueSize != 4 {
		t.Fatalf("queue size = %d", cfg.Scanner.Poll.QueueSize)
	}
	q := cfg.Scanner.Devices[0].Queries[0]
	if q.FC != 1 || q.Count != 2 || q.View != "u16" || q.TransactionID != 1 {
		t.Fatalf("query = %+v", q)
	}
}

func TestLoad_UnknownKeys(t *testing.T) {
	if _, err := Load(writeFile(t, "bad.yaml", "scanner:\n  bogus: 1\n")); err == nil {
		t.Fatal("expected yaml unknown key error")
	}
	if _, err := Load(writeFile(t, "bad.toml", "[scanner]\nbogus = 1\n")); err == nil {
		t.Fatal("expected toml unknown key error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuild(t *testing.T) {
	cfg := load(t, "ws.yaml", sampleYAML)

	ws, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(ws.Devices) != 1 {
		t.Fatalf("devices = %d", len(ws.Devices))
	}

	d := ws.Devices[0]
	if d.Label != "meter" || d.Host != "10.0.0.5" || d.UnitID != 3 || d.Port != DefaultPort {
		t.Fatalf("device = %+v", d)
	}
	if d.Notes != "Add device notes here" {
		t.Fatalf("notes default lost: %q", d.Notes)
	}
	if len(d.Queries) != 2 {
		t.Fatalf("queries = %d", len(d.Queries))
	}

	v := d.Queries[0]
	if v.Function != frame.ReadHoldingRegisters || v.Address != 100 || v.Count != 4 || v.View != value.F32 {
		t.Fatalf("voltage = %+v", v)
	}
	if v.Request(d).UnitID != 3 {
		t.Fatal("query without unit id should use the device unit id")
	}
	if len(v.Watches) != 1 || v.Watches[0].Label != "L1" || v.Watches[0].Factor != 0.1 || v.Watches[0].Suffix != "V" {
		t.Fatalf("watches = %+v", v.Watches)
	}

	r := d.Queries[1]
	if r.Request(d).UnitID != 0 {
		t.Fatal("query unit id should override the device")
	}
	w0, _ := r.WriteWord(0)
	w1, _ := r.WriteWord(1)
	if w0 != 1 || w1 != 513 {
		t.Fatalf("write words = %d, %d", w0, w1)
	}
}

func TestBuild_DeviceWithoutQueriesKeepsDefault(t *testing.T) {
	cfg := &Config{Scanner: ScannerConfig{Devices: []DeviceConfig{{Host: "h"}}}}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	Normalize(cfg)

	ws, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	d := ws.Devices[0]
	if d.Label != "New Device" || len(d.Queries) != 1 || d.UnitID != DefaultUnitID {
		t.Fatalf("device = %+v", d)
	}
}

func TestBuild_DeviceUnitIDZero(t *testing.T) {
	cfg := load(t, "ws.yaml", `
scanner:
  devices:
    - label: gateway
      host: 10.0.0.9
      unit_id: 0
      queries:
        - fc: 3
          count: 2
`)

	ws, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	d := ws.Devices[0]
	if d.UnitID != 0 {
		t.Fatalf("device unit id = %d, want 0", d.UnitID)
	}
	if got := d.Queries[0].Request(d).UnitID; got != 0 {
		t.Fatalf("request unit id = %d, want 0", got)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Scanner: ScannerConfig{Devices: []DeviceConfig{{
			Label: "d",
			Host:  "h",
			Queries: []QueryConfig{{
				FC:    3,
				Count: 2,
			}},
		}}}}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no devices", func(c *Config) { c.Scanner.Devices = nil }, "at least one device"},
		{"negative interval", func(c *Config) { c.Scanner.Poll.IntervalMs = -1 }, "must not be negative"},
		{"missing host", func(c *Config) { c.Scanner.Devices[0].Host = "" }, "host is required"},
		{"bad port", func(c *Config) { c.Scanner.Devices[0].Port = "70000" }, "invalid port"},
		{"duplicate label", func(c *Config) {
			c.Scanner.Devices = append(c.Scanner.Devices, c.Scanner.Devices[0])
		}, "duplicate label"},
		{"bad fc", func(c *Config) { c.Scanner.Devices[0].Queries[0].FC = 7 }, "unsupported function code"},
		{"bad view", func(c *Config) { c.Scanner.Devices[0].Queries[0].View = "u64" }, "unknown view"},
		{"write on read", func(c *Config) { c.Scanner.Devices[0].Queries[0].Write = []uint16{1} }, "write values given"},
		{"write without values", func(c *Config) { c.Scanner.Devices[0].Queries[0].FC = 6 }, "needs write values"},
		{"single write with many values", func(c *Config) {
			q := &c.Scanner.Devices[0].Queries[0]
			q.FC = 6
			q.Count = 0
			q.Write = []uint16{1, 2}
		}, "takes one value"},
		{"write count mismatch", func(c *Config) {
			q := &c.Scanner.Devices[0].Queries[0]
			q.FC = 16
			q.Write = []uint16{1}
		}, "does not match"},
		{"watch on write", func(c *Config) {
			q := &c.Scanner.Devices[0].Queries[0]
			q.FC = 6
			q.Count = 0
			q.Write = []uint16{1}
			q.Watches = []WatchConfig{{}}
		}, "watches need a read"},
		{"negative watch offset", func(c *Config) {
			c.Scanner.Devices[0].Queries[0].Watches = []WatchConfig{{Offset: -2}}
		}, "negative offset"},
	}

	if err := Validate(base()); err != nil {
		t.Fatalf("base config invalid: %v", err)
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidate_DoesNotMutate(t *testing.T) {
	cfg := &Config{Scanner: ScannerConfig{Devices: []DeviceConfig{{Host: "h", Queries: []QueryConfig{{FC: 1}}}}}}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	d := cfg.Scanner.Devices[0]
	if d.Port != "" || d.UnitID != nil || d.Queries[0].Count != 0 {
		t.Fatal("Validate mutated config")
	}
}
