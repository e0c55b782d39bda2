package gps

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sensorcore/devicetracker/internal/frame"
)

// VirtualProvider is a fixed, manually-set fix source: the "lowest priority,
// always valid" fallback a deployment wires in for a stationary sensor with
// a known surveyed position (spec §4.5's non-goal list excludes a UI for
// this, but the driver kind itself is named in §6.5).
type VirtualProvider struct {
	name string

	mu   sync.Mutex
	last frame.GPSFix
}

// NewVirtualProvider builds a provider that always reports fix as its fix.
func NewVirtualProvider(name string, fix frame.GPSFix) *VirtualProvider {
	fix.Provider = name
	fix.Valid = true
	return &VirtualProvider{name: name, last: fix}
}

// VirtualBuilder is the Builder registered under the "virtual" driver kind.
// Options: lat=<deg>, lon=<deg>, alt=<meters> (defaults to 0).
func VirtualBuilder(name string, opts map[string]string) (Provider, error) {
	lat, err := parseFloatOpt(opts, "lat", 0)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloatOpt(opts, "lon", 0)
	if err != nil {
		return nil, err
	}
	alt, err := parseFloatOpt(opts, "alt", 0)
	if err != nil {
		return nil, err
	}
	return NewVirtualProvider(name, frame.GPSFix{Lat: lat, Lon: lon, Alt: alt, FixType: 3}), nil
}

func parseFloatOpt(opts map[string]string, key string, def float64) (float64, error) {
	raw, ok := opts[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("gps virtual: invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

// Set updates the fix this provider reports, e.g. from an operator command.
func (p *VirtualProvider) Set(fix frame.GPSFix) {
	fix.Provider = p.name
	fix.Valid = true
	p.mu.Lock()
	p.last = fix
	p.mu.Unlock()
}

func (p *VirtualProvider) Poll(ctx context.Context) frame.GPSFix {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *VirtualProvider) Name() string { return p.name }

func (p *VirtualProvider) Close() error { return nil }
