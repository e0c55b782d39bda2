// Package gps implements the Multi-Source Location Arbiter (spec §4.5): a
// priority-ordered set of GPS providers, each registered by a named
// prototype and instantiated lazily from a config string (spec §6.5).
package gps

import (
	"context"

	"github.com/sensorcore/devicetracker/internal/frame"
)

// Provider is a single GPS source. Poll returns the provider's current best
// fix; Valid frames only are considered by the arbiter.
type Provider interface {
	// Poll returns the provider's current fix. The returned fix's Valid
	// field is authoritative; an invalid fix is never selected.
	Poll(ctx context.Context) frame.GPSFix
	// Name is the provider's identity, stamped onto fixes it produces.
	Name() string
	// Close releases any resources (serial port, socket) the provider holds.
	Close() error
}

// Builder constructs a Provider from the "<opt>=<val>,..." portion of a
// config string (spec §6.5). Registered per driver kind ("serial", "gpsd",
// "virtual", "web") ahead of instantiation, mirroring the original's
// prototype/instance split (gps_manager.h's gps_prototype vs gps_instance).
type Builder func(name string, opts map[string]string) (Provider, error)
