package devicetracker

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// creationWindow bounds how many recent device-creation timestamps are kept
// per PHY before the rolling rate statistics are derived from them.
const creationWindow = 64

// PhyStats is a rolling summary of how quickly a PHY has been producing new
// devices, extending the plain packet counters of spec §3.4's PHY descriptor
// with a diagnostic mean/stddev of recent creation intervals.
type PhyStats struct {
	MeanIntervalSecs   float64
	StdDevIntervalSecs float64
	Samples            int
}

// phyStatsTracker accumulates device-creation timestamps per PHY id and
// derives PhyStats from the intervals between them. A bounded window keeps
// memory flat regardless of how long the registry has been running.
type phyStatsTracker struct {
	mu    sync.Mutex
	byPhy map[int32][]int64
}

func newPhyStatsTracker() *phyStatsTracker {
	return &phyStatsTracker{byPhy: make(map[int32][]int64)}
}

// recordCreation appends ts to phyID's window, dropping the oldest entries
// once creationWindow is exceeded.
func (t *phyStatsTracker) recordCreation(phyID int32, ts int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	timestamps := append(t.byPhy[phyID], ts)
	if len(timestamps) > creationWindow {
		timestamps = timestamps[len(timestamps)-creationWindow:]
	}
	t.byPhy[phyID] = timestamps
}

// stats computes the rolling creation-interval mean/stddev for phyID. Fewer
// than two recorded timestamps yields a zero-value PhyStats: there is no
// interval to measure yet.
func (t *phyStatsTracker) stats(phyID int32) PhyStats {
	t.mu.Lock()
	timestamps := append([]int64(nil), t.byPhy[phyID]...)
	t.mu.Unlock()

	if len(timestamps) < 2 {
		return PhyStats{}
	}

	intervals := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		intervals = append(intervals, float64(timestamps[i]-timestamps[i-1]))
	}

	mean := stat.Mean(intervals, nil)
	return PhyStats{
		MeanIntervalSecs:   mean,
		StdDevIntervalSecs: stat.StdDev(intervals, nil),
		Samples:            len(intervals),
	}
}

// PhyStats returns the rolling device-creation-rate summary for phyID,
// computed from timestamps UpdateCommon has recorded on each new-device
// path. Safe to call concurrently with UpdateCommon.
func (r *Registry) PhyStats(phyID int32) PhyStats {
	return r.stats.stats(phyID)
}
