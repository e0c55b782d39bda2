// Package phy implements the PHY Registry of spec §4.2: an ordered
// namespace of PHY decoders, each passed frames and given the chance to
// claim and enrich them.
package phy

import (
	"sync"

	"github.com/sensorcore/devicetracker/internal/dterr"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// Plugin is the contract every PHY decoder must satisfy (spec §4.2):
// given a frame, either claim it and return populated common-info, or
// decline.
type Plugin interface {
	// Classify attempts to claim fr. ok is false on decline.
	Classify(fr *frame.Frame) (info frame.CommonInfo, ok bool)
}

// descriptor pairs a registered plugin with its assigned id and running
// counters (devicetracker.PhyDescriptor shape, mirrored here to avoid an
// import cycle between phy and devicetracker).
type descriptor struct {
	id     int32
	name   string
	plugin Plugin

	packets       uint64
	dataPackets   uint64
	cryptPackets  uint64
	errorPackets  uint64
	filterPackets uint64
	numDevices    uint64
}

// Registry assigns monotonically increasing ids to registered plugins and
// provides O(1) lookup by id; names are only checked for uniqueness at
// registration.
type Registry struct {
	mu      sync.Mutex
	byID    map[int32]*descriptor
	byName  map[string]*descriptor
	nextID  int32
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[int32]*descriptor), byName: make(map[string]*descriptor)}
}

// Register assigns the next PHY id to plugin under name. Ids are stable for
// process lifetime (spec §4.2).
func (r *Registry) Register(name string, plugin Plugin) (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return 0, dterr.New(dterr.SchemaConflict, "phy.Register", errDuplicatePhyName(name))
	}

	id := r.nextID
	r.nextID++
	d := &descriptor{id: id, name: name, plugin: plugin}
	r.byID[id] = d
	r.byName[name] = d
	return id, nil
}

// ByID returns the registered plugin for id.
func (r *Registry) ByID(id int32) (Plugin, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return d.plugin, true
}

// Name returns the printable name registered for id.
func (r *Registry) Name(id int32) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[id]; ok {
		return d.name
	}
	return ""
}

// Classify runs every registered plugin over fr in registration order until
// one claims it, returning its id and common-info.
func (r *Registry) Classify(fr *frame.Frame) (phyID int32, info frame.CommonInfo, ok bool) {
	r.mu.Lock()
	plugins := make([]*descriptor, 0, len(r.byID))
	for id := int32(0); id < r.nextID; id++ {
		if d, ok := r.byID[id]; ok {
			plugins = append(plugins, d)
		}
	}
	r.mu.Unlock()

	for _, d := range plugins {
		if info, claimed := d.plugin.Classify(fr); claimed {
			return d.id, info, true
		}
	}
	return 0, frame.CommonInfo{}, false
}

// --- PhyCounters (devicetracker.PhyCounters contract) ---

func (r *Registry) IncNumDevices(phyID int32)  { r.mutate(phyID, func(d *descriptor) { d.numDevices++ }) }
func (r *Registry) DecNumDevices(phyID int32)  { r.mutate(phyID, func(d *descriptor) { d.numDevices-- }) }
func (r *Registry) IncPackets(phyID int32)      { r.mutate(phyID, func(d *descriptor) { d.packets++ }) }
func (r *Registry) IncDataPackets(phyID int32)  { r.mutate(phyID, func(d *descriptor) { d.dataPackets++ }) }
func (r *Registry) IncCryptPackets(phyID int32) { r.mutate(phyID, func(d *descriptor) { d.cryptPackets++ }) }
func (r *Registry) IncErrorPackets(phyID int32) { r.mutate(phyID, func(d *descriptor) { d.errorPackets++ }) }
func (r *Registry) IncFilterPackets(phyID int32) {
	r.mutate(phyID, func(d *descriptor) { d.filterPackets++ })
}

func (r *Registry) PhyName(phyID int32) string { return r.Name(phyID) }

func (r *Registry) mutate(phyID int32, fn func(d *descriptor)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[phyID]; ok {
		fn(d)
	}
}

// Counters is a read-only snapshot of a PHY descriptor's state, for
// serialization (spec §6.7's all-phys endpoint).
type Counters struct {
	ID            int32
	Name          string
	Packets       uint64
	DataPackets   uint64
	CryptPackets  uint64
	ErrorPackets  uint64
	FilterPackets uint64
	NumDevices    uint64
}

// All returns a snapshot of every registered PHY's descriptor, ordered by
// id (registration order, per spec §4.2's "ids are stable for process
// lifetime").
func (r *Registry) All() []Counters {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Counters, 0, len(r.byID))
	for id := int32(0); id < r.nextID; id++ {
		d, ok := r.byID[id]
		if !ok {
			continue
		}
		out = append(out, Counters{
			ID: d.id, Name: d.name, Packets: d.packets, DataPackets: d.dataPackets,
			CryptPackets: d.cryptPackets, ErrorPackets: d.errorPackets,
			FilterPackets: d.filterPackets, NumDevices: d.numDevices,
		})
	}
	return out
}
