// internal/config/build.go
package config

import (
	"fmt"

	"github.com/tamzrod/modbus-scanner/internal/device"
	"github.com/tamzrod/modbus-scanner/internal/frame"
	"github.com/tamzrod/modbus-scanner/internal/value"
	"github.com/tamzrod/modbus-scanner/internal/watch"
)

// Build converts a validated, normalized config into a workspace.
func Build(cfg *Config) (*device.Workspace, error) {
	ws := &device.Workspace{}

	for _, dc := range cfg.Scanner.Devices {
		d := device.NewDevice()
		if dc.Label != "" {
			d.Label = dc.Label
		}
		d.Host = dc.Host
		d.Port = dc.Port
		if dc.UnitID != nil {
			d.UnitID = *dc.UnitID
		}
		if dc.Notes != "" {
			d.Notes = dc.Notes
		}

		if len(dc.Queries) > 0 {
			d.Queries = d.Queries[:0]
		}
		for _, qc := range dc.Queries {
			q, err := buildQuery(qc)
			if err != nil {
				return nil, fmt.Errorf("device %s: %w", d.Label, err)
			}
			d.Queries = append(d.Queries, q)
		}

		ws.Devices = append(ws.Devices, d)
	}

	return ws, nil
}

func buildQuery(qc QueryConfig) (*device.Query, error) {
	q := device.NewQuery()
	if qc.Label != "" {
		q.Label = qc.Label
	}
	q.Function = frame.FunctionCode(qc.FC)
	q.Address = qc.Address
	q.TransactionID = qc.TransactionID
	q.UnitID = qc.UnitID
	q.ValueOffset = qc.ValueOffset
	if qc.Factor != nil {
		q.Factor = *qc.Factor
	}

	view, err := value.ParseView(qc.View)
	if err != nil {
		return nil, err
	}
	q.View = view

	q.SetCount(qc.Count)
	for i, v := range qc.Write {
		if err := q.SetWriteWord(i, v); err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Label, err)
		}
	}

	for _, wc := range qc.Watches {
		wv, err := value.ParseView(wc.View)
		if err != nil {
			return nil, err
		}
		factor := 1.0
		if wc.Factor != nil {
			factor = *wc.Factor
		}
		r := watch.New(wc.Offset, wv, factor, wc.ValueOffset)
		if wc.Label != "" {
			r.Label = wc.Label
		}
		r.Suffix = wc.Suffix
		r.Locked = wc.Locked
		q.AddWatch(r)
	}

	return q, nil
}
