// cmd/scanner/templates.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tamzrod/modbus-scanner/internal/device"
)

const templateExt = ".device"

// saveTemplates writes one <label>.device file per device. Labels that are
// not usable as file names are sanitized.
func saveTemplates(dir string, ws *device.Workspace) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, d := range ws.Devices {
		b, err := device.MarshalDevice(d)
		if err != nil {
			return fmt.Errorf("device %s: %w", d.Label, err)
		}
		path := filepath.Join(dir, templateName(d.Label))
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func importDevice(path string) (*device.Device, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return device.UnmarshalDevice(b)
}

func templateName(label string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	if name == "" {
		name = "device"
	}
	return name + templateExt
}
