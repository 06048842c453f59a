// cmd/scanner/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-scanner/internal/config"
	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/executor"
	"github.com/tamzrod/modbus-scanner/internal/transport"
)

type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ",") }
func (l *listFlag) Set(s string) error { *l = append(*l, s); return nil }

func main() {
	var (
		once      = flag.Bool("once", false, "execute every query once, print the results and exit")
		interval  = flag.Duration("interval", 0, "poll interval (overrides poll.interval_ms)")
		metrics   = flag.String("metrics", "", "listen address for /metrics (overrides metrics.listen)")
		logLevel  = flag.String("log-level", "", "zerolog level (overrides log.level)")
		templates = flag.String("save-templates", "", "write <label>.device templates into this directory")
		grid      = flag.Bool("grid", true, "print decoded read buffers, not only watches")
		imports   listFlag
	)
	flag.Var(&imports, "import", "add a device from a .device template (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: scanner [flags] <config.yaml|config.toml>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config validation failed: %v\n", err)
		os.Exit(1)
	}
	config.Normalize(cfg)

	s := &cfg.Scanner
	if *interval > 0 {
		s.Poll.IntervalMs = int(interval.Milliseconds())
	}
	if *metrics != "" {
		s.Metrics.Listen = *metrics
	}
	if *logLevel != "" {
		s.Log.Level = *logLevel
	}
	if *templates != "" {
		s.Templates.Dir = *templates
	}

	log, err := newLogger(s.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ws, err := config.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("workspace build failed")
	}
	for _, path := range imports {
		d, err := importDevice(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("template import failed")
		}
		ws.Devices = append(ws.Devices, d)
	}

	// --------------------
	// Executor
	// --------------------

	timeout := time.Duration(s.Poll.TimeoutMs) * time.Millisecond
	exec := executor.New(log.With().Str("component", "executor").Logger())
	exec.Transport = transport.Client{
		ConnectTimeout: timeout,
		ReadTimeout:    timeout,
		WriteTimeout:   timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		failed := runOnce(ctx, ws, exec, *grid)
		saveTemplatesOrWarn(log, s.Templates.Dir, ws)
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	runPoll(ctx, log, s, ws, exec, *grid)
	saveTemplatesOrWarn(log, s.Templates.Dir, ws)
}

func newLogger(c config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var log zerolog.Logger
	if c.Console {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

func saveTemplatesOrWarn(log zerolog.Logger, dir string, ws *device.Workspace) {
	if dir == "" {
		return
	}
	if err := saveTemplates(dir, ws); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("template save failed")
		return
	}
	log.Info().Str("dir", dir).Int("devices", len(ws.Devices)).Msg("templates saved")
}
