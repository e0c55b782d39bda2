package devicetracker

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/dterr"
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// errAllZeroSourceMac is returned when a PHY plugin reports an all-zero
// source mac. Spec §9's open question on this recommends dropping the
// frame and incrementing the PHY's error_packets, which UpdateCommon does
// before returning this error.
var errAllZeroSourceMac = errors.New("devicetracker: all-zero source mac")

// PhyCounters is the subset of the PHY Registry (spec §4.2) the Device
// Registry updates as a side effect of device lifecycle: num_devices on
// creation/removal, and the per-frame packet counters on every update.
type PhyCounters interface {
	IncNumDevices(phyID int32)
	DecNumDevices(phyID int32)
	IncPackets(phyID int32)
	IncDataPackets(phyID int32)
	IncCryptPackets(phyID int32)
	IncErrorPackets(phyID int32)
	IncFilterPackets(phyID int32)
	PhyName(phyID int32) string
}

// Worker is invoked once per device by MatchAll, then Finalize once at the
// end (spec §4.3: "the worker MUST NOT retain references after return and
// MUST NOT call back into registry-mutating operations").
type Worker interface {
	Match(d *Device)
	Finalize()
}

// Registry is the Device Registry of spec §4.3: a keyed store of device
// records with creation, lookup, capped eviction, and a refresh epoch.
//
// The original's recursive lock (needed only because PHY plugins may call
// find() from inside match_all's callback) is replaced with the split
// design note 9 recommends: MatchAll snapshots device pointers under the
// lock, then invokes the worker with the lock released, so a plugin's find
// call during the callback never re-enters a held mutex.
type Registry struct {
	mu    sync.Mutex
	byKey map[Key]*Device
	order []*Device

	fullRefreshEpoch atomic.Int64

	phy   PhyCounters
	stats *phyStatsTracker
}

// NewRegistry builds an empty registry. phy may be nil in tests that don't
// exercise PHY counters.
func NewRegistry(phy PhyCounters) *Registry {
	return &Registry{byKey: make(map[Key]*Device), phy: phy, stats: newPhyStatsTracker()}
}

// FullRefreshEpoch returns the last destructive-mutation timestamp (spec
// §4.3); clients compare this against their last-seen value to decide
// whether to discard a cached incremental view.
func (r *Registry) FullRefreshEpoch() int64 { return r.fullRefreshEpoch.Load() }

func (r *Registry) bumpRefresh(now int64) {
	r.fullRefreshEpoch.Store(now)
}

// BumpRefresh sets full_refresh_epoch to now unconditionally.
func (r *Registry) BumpRefresh(now int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bumpRefresh(now)
}

// Find looks up a device by its composite key.
func (r *Registry) Find(key Key) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.byKey[key]
	return d, ok
}

// FindByMac looks up a device by (phy, mac).
func (r *Registry) FindByMac(phy int32, mac element.Mac) (*Device, bool) {
	return r.Find(MakeKey(phy, mac))
}

// UpdateCommon is spec §4.3/§4.4's combined find-or-create-then-enrich
// operation: the single entry point by which frames mutate the registry.
func (r *Registry) UpdateCommon(phy int32, mac element.Mac, fr *frame.Frame, info frame.CommonInfo, source uuid.UUID, flags UpdateFlag) (*Device, error) {
	if mac == 0 {
		if r.phy != nil {
			r.phy.IncErrorPackets(phy)
		}
		return nil, dterr.New(dterr.NotFound, "Registry.UpdateCommon",
			errAllZeroSourceMac)
	}

	key := MakeKey(phy, mac)

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byKey[key]
	if !ok {
		phyName := ""
		if r.phy != nil {
			phyName = r.phy.PhyName(phy)
		}
		d = newDevice(key, mac, phy, phyName, fr.Timestamp)
		r.byKey[key] = d
		r.order = append(r.order, d)
		if r.phy != nil {
			r.phy.IncNumDevices(phy)
		}
		r.stats.recordCreation(phy, fr.Timestamp)
	}

	updateCommon(d, fr, info, source, flags)

	if r.phy != nil {
		r.phy.IncPackets(phy)
		if flags.Has(FlagEncryption) && info.BasicCryptSet&BasicCryptEncrypted != 0 {
			r.phy.IncCryptPackets(phy)
		}
		if fr.Kind == frame.KindData {
			r.phy.IncDataPackets(phy)
		}
		if fr.Kind == frame.KindError {
			r.phy.IncErrorPackets(phy)
		}
	}

	return d, nil
}

// MatchAll invokes worker.Match for every device, then worker.Finalize,
// with the registry lock released during the callback (see the split
// documented on Registry).
func (r *Registry) MatchAll(worker Worker) {
	r.mu.Lock()
	snapshot := make([]*Device, len(r.order))
	copy(snapshot, r.order)
	r.mu.Unlock()

	for _, d := range snapshot {
		worker.Match(d)
	}
	worker.Finalize()
}

// TickIdle removes every device whose last_time is older than
// now-idleExpirationSeconds (spec §4.3, invariant 4).
func (r *Registry) TickIdle(now int64, idleExpirationSeconds int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now - idleExpirationSeconds
	removed := 0
	kept := r.order[:0]
	for _, d := range r.order {
		if d.LastTime < cutoff {
			r.removeLocked(d)
			removed++
			continue
		}
		kept = append(kept, d)
	}
	r.order = kept
	if removed > 0 {
		r.bumpRefresh(now)
	}
	return removed
}

// TickCap evicts the oldest-by-last_time devices until the population is at
// or under maxDevices (spec §4.3). Ties: fewer total packets evicted first,
// then lower key64 (spec's deterministic tie-break rule).
func (r *Registry) TickCap(now int64, maxDevices int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) <= maxDevices {
		return 0
	}

	candidates := make([]*Device, len(r.order))
	copy(candidates, r.order)
	sortForEviction(candidates)

	toRemove := len(candidates) - maxDevices
	removedSet := make(map[Key]struct{}, toRemove)
	for i := 0; i < toRemove; i++ {
		r.removeLocked(candidates[i])
		removedSet[candidates[i].Key] = struct{}{}
	}

	kept := r.order[:0]
	for _, d := range r.order {
		if _, gone := removedSet[d.Key]; !gone {
			kept = append(kept, d)
		}
	}
	r.order = kept
	r.bumpRefresh(now)
	return toRemove
}

// removeLocked deletes a device from byKey and its PHY's num_devices count.
// Caller must hold mu and separately rebuild r.order.
func (r *Registry) removeLocked(d *Device) {
	delete(r.byKey, d.Key)
	if r.phy != nil {
		r.phy.DecNumDevices(d.PhyID)
	}
}

// sortForEviction orders devices oldest-first by the spec §4.3 tie-break
// rule: ascending last_time, then ascending packet count, then ascending
// key64.
func sortForEviction(devices []*Device) {
	sort.Slice(devices, func(i, j int) bool {
		a, b := devices[i], devices[j]
		if a.LastTime != b.LastTime {
			return a.LastTime < b.LastTime
		}
		if a.Packets != b.Packets {
			return a.Packets < b.Packets
		}
		return a.Key < b.Key
	})
}
