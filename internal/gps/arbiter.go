package gps

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sensorcore/devicetracker/internal/dterr"
	"github.com/sensorcore/devicetracker/internal/dtlog"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// prototype is a registered driver kind, awaiting instantiation.
type prototype struct {
	name     string
	priority int
	build    Builder
}

// instance is an activated provider, ordered by descending priority.
type instance struct {
	id       uint
	provider Provider
	typeName string
	priority int
}

// Arbiter selects the "best" location fix across concurrently registered
// GPS providers, by descending priority and validity (spec §4.5). Its lock
// is held only around the provider list, never across a provider's Poll
// (spec §5: "no other core operation may block on I/O while holding the
// Device Registry lock" — the arbiter lock is its own, narrower, guard).
type Arbiter struct {
	mu         sync.Mutex
	prototypes map[string]*prototype
	instances  []*instance
	nextID     uint
}

// NewArbiter constructs an empty arbiter with no registered prototypes.
func NewArbiter() *Arbiter {
	return &Arbiter{prototypes: make(map[string]*prototype)}
}

// RegisterPrototype makes a driver kind available for later instantiation
// by config string. priority orders the providers Best() queries (higher
// first); equal priorities keep creation order.
func (a *Arbiter) RegisterPrototype(name string, priority int, build Builder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prototypes[name] = &prototype{name: name, priority: priority, build: build}
}

// RemovePrototype withdraws a driver kind; existing instances are
// unaffected (they already captured their Provider).
func (a *Arbiter) RemovePrototype(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.prototypes, name)
}

// Create instantiates a provider from a "<driver>:<opt>=<val>,..." config
// string (spec §6.5). A malformed string or unknown driver produces a
// logged error and no instantiation, per §6.5.
func (a *Arbiter) Create(config string) (uint, error) {
	driver, opts, err := parseConfig(config)
	if err != nil {
		dtlog.Logf("gps: malformed config %q: %v", config, err)
		return 0, dterr.New(dterr.IoError, "gps.Create", err)
	}

	a.mu.Lock()
	proto, ok := a.prototypes[driver]
	a.mu.Unlock()
	if !ok {
		dtlog.Logf("gps: unknown driver %q in config %q", driver, config)
		return 0, dterr.New(dterr.NotFound, "gps.Create", fmt.Errorf("unknown gps driver %q", driver))
	}

	provider, err := proto.build(driver, opts)
	if err != nil {
		dtlog.Logf("gps: failed to build provider %q: %v", driver, err)
		return 0, dterr.New(dterr.IoError, "gps.Create", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	id := a.nextID
	a.instances = append(a.instances, &instance{
		id: id, provider: provider, typeName: driver, priority: proto.priority,
	})
	a.sortLocked()
	return id, nil
}

// Remove withdraws an activated provider instance by id, preserving the
// relative order of the remainder, and closes it.
func (a *Arbiter) Remove(id uint) error {
	a.mu.Lock()
	var removed *instance
	for i, inst := range a.instances {
		if inst.id == id {
			removed = inst
			a.instances = append(a.instances[:i], a.instances[i+1:]...)
			break
		}
	}
	a.mu.Unlock()

	if removed == nil {
		return dterr.New(dterr.NotFound, "gps.Remove", fmt.Errorf("no gps instance %d", id))
	}
	return removed.provider.Close()
}

func (a *Arbiter) sortLocked() {
	sort.SliceStable(a.instances, func(i, j int) bool {
		return a.instances[i].priority > a.instances[j].priority
	})
}

// snapshot copies the ordered instance list under the lock, so Best can
// poll providers without holding the arbiter lock across I/O.
func (a *Arbiter) snapshot() []*instance {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*instance, len(a.instances))
	copy(out, a.instances)
	return out
}

// Best queries providers in descending-priority order and returns the
// first valid fix (spec invariant 9). Ties in priority are resolved by
// insertion (registration) order, preserved by sort.SliceStable.
func (a *Arbiter) Best(ctx context.Context) (frame.GPSFix, bool) {
	for _, inst := range a.snapshot() {
		fix := inst.provider.Poll(ctx)
		if fix.Valid {
			return fix, true
		}
	}
	return frame.GPSFix{}, false
}

// Attach decorates fr with the best available fix if it doesn't already
// carry a location component (spec §4.5's "for each inbound frame lacking
// a location component").
func (a *Arbiter) Attach(ctx context.Context, fr *frame.Frame) {
	if fr.GPS != nil {
		return
	}
	if fix, ok := a.Best(ctx); ok {
		f := fix
		fr.GPS = &f
	}
}

// parseConfig splits "<driver>:<opt>=<val>,<opt>=<val>,..." (spec §6.5).
func parseConfig(config string) (driver string, opts map[string]string, err error) {
	driverPart, rest, found := strings.Cut(config, ":")
	if driverPart == "" {
		return "", nil, fmt.Errorf("missing driver in %q", config)
	}
	opts = make(map[string]string)
	if !found || rest == "" {
		return driverPart, opts, nil
	}
	for _, pair := range strings.Split(rest, ",") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return "", nil, fmt.Errorf("malformed option %q in %q", pair, config)
		}
		opts[k] = v
	}
	return driverPart, opts, nil
}
