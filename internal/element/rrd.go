package element

// ring is the rolling-rate primitive behind both RRD shapes of spec §4.1.1:
// a fixed-length ring of uint64 buckets, each covering bucketSeconds of wall
// clock, advanced by elapsed time. On every AddSample with a monotonic
// non-decreasing timestamp, reading slot "now - k" yields the total
// observed in the k-th-ago bucket (spec invariant 8).
type ring struct {
	slots         []uint64
	bucketSeconds int64
	curBucket     int64
	hasData       bool
}

func newRing(length int, bucketSeconds int64) ring {
	return ring{slots: make([]uint64, length), bucketSeconds: bucketSeconds}
}

// add folds v into the bucket for ts, advancing and zero-filling skipped
// buckets as needed per spec §4.1.1's rollover rule.
func (r *ring) add(ts int64, v uint64) {
	n := int64(len(r.slots))
	bucket := ts / r.bucketSeconds

	if !r.hasData {
		r.slots[mod(bucket, n)] = v
		r.curBucket = bucket
		r.hasData = true
		return
	}

	if bucket == r.curBucket {
		r.slots[mod(bucket, n)] += v
		return
	}

	delta := bucket - r.curBucket
	steps := delta
	if steps > n {
		steps = n
	}
	for i := int64(1); i <= steps; i++ {
		idx := mod(r.curBucket+i, n)
		if i == delta {
			r.slots[idx] = v
		} else {
			r.slots[idx] = 0
		}
	}
	if delta > n {
		// Every slot was reset above; the new current bucket still needs v.
		r.slots[mod(bucket, n)] = v
	}
	r.curBucket = bucket
}

// at returns the value k buckets ago (k=0 is the current bucket).
func (r *ring) at(k int) uint64 {
	n := int64(len(r.slots))
	if k < 0 || int64(k) >= n {
		return 0
	}
	return r.slots[mod(r.curBucket-int64(k), n)]
}

// all returns the raw ring contents in storage order (not "ago" order),
// used only for serialization.
func (r *ring) all() []uint64 {
	out := make([]uint64, len(r.slots))
	copy(out, r.slots)
	return out
}

func mod(a, n int64) int64 {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// PerSecondRRD is kis_tracked_rrd: three ring buffers covering the last 60
// seconds, 60 minutes, and 24 hours, used by packets_rrd and data_rrd.
type PerSecondRRD struct {
	Base
	seconds ring
	minutes ring
	hours   ring
}

// NewPerSecondRRD builds a defaulted RRD. id is 0 for a template prototype
// registered once and cloned per device/record.
func NewPerSecondRRD(id FieldID, name string) *PerSecondRRD {
	return &PerSecondRRD{
		Base:    newBase(id, name, KindComplex),
		seconds: newRing(60, 1),
		minutes: newRing(60, 60),
		hours:   newRing(24, 3600),
	}
}

func (r *PerSecondRRD) CloneType(id FieldID) Complex {
	return NewPerSecondRRD(id, r.name)
}

// AddSample folds a single observation of v at unix-seconds ts into all
// three rings.
func (r *PerSecondRRD) AddSample(ts int64, v uint64) {
	r.seconds.add(ts, v)
	r.minutes.add(ts, v)
	r.hours.add(ts, v)
	r.dirty = true
}

// SecondsAgo returns the total observed k seconds ago (0 <= k < 60).
func (r *PerSecondRRD) SecondsAgo(k int) uint64 { return r.seconds.at(k) }

// MinutesAgo returns the total observed k minutes ago (0 <= k < 60).
func (r *PerSecondRRD) MinutesAgo(k int) uint64 { return r.minutes.at(k) }

// HoursAgo returns the total observed k hours ago (0 <= k < 24).
func (r *PerSecondRRD) HoursAgo(k int) uint64 { return r.hours.at(k) }

// SecondsRing, MinutesRing, HoursRing expose the raw ring contents for
// serialization.
func (r *PerSecondRRD) SecondsRing() []uint64 { return r.seconds.all() }
func (r *PerSecondRRD) MinutesRing() []uint64 { return r.minutes.all() }
func (r *PerSecondRRD) HoursRing() []uint64   { return r.hours.all() }

// MinuteRRD is kis_tracked_minute_rrd: a single 60-slot minute ring, used by
// the five packet_rrd_bin_* size-bucket histograms.
type MinuteRRD struct {
	Base
	minutes ring
}

func NewMinuteRRD(id FieldID, name string) *MinuteRRD {
	return &MinuteRRD{Base: newBase(id, name, KindComplex), minutes: newRing(60, 60)}
}

func (r *MinuteRRD) CloneType(id FieldID) Complex {
	return NewMinuteRRD(id, r.name)
}

func (r *MinuteRRD) AddSample(ts int64, v uint64) {
	r.minutes.add(ts, v)
	r.dirty = true
}

func (r *MinuteRRD) MinutesAgo(k int) uint64 { return r.minutes.at(k) }
func (r *MinuteRRD) MinutesRing() []uint64   { return r.minutes.all() }
