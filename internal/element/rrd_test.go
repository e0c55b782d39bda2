package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPerSecondRRDAddSampleAccumulatesWithinBucket exercises spec invariant
// 8's base case: samples landing in the same second/minute/hour bucket sum.
func TestPerSecondRRDAddSampleAccumulatesWithinBucket(t *testing.T) {
	t.Parallel()

	r := NewPerSecondRRD(1, "packets_rrd")
	r.AddSample(1000, 3)
	r.AddSample(1000, 4)

	assert.EqualValues(t, 7, r.SecondsAgo(0))
	assert.EqualValues(t, 7, r.MinutesAgo(0))
	assert.EqualValues(t, 7, r.HoursAgo(0))
	assert.True(t, r.Dirty())
}

// TestPerSecondRRDSecondsAgoRollsForward exercises invariant 8's rollover
// rule: advancing the clock by k seconds shifts "now" so the old sample
// reads back at "k seconds ago", with the buckets in between zero-filled.
func TestPerSecondRRDSecondsAgoRollsForward(t *testing.T) {
	t.Parallel()

	r := NewPerSecondRRD(1, "packets_rrd")
	r.AddSample(1000, 10)
	r.AddSample(1003, 2)

	assert.EqualValues(t, 2, r.SecondsAgo(0))
	assert.EqualValues(t, 0, r.SecondsAgo(1))
	assert.EqualValues(t, 0, r.SecondsAgo(2))
	assert.EqualValues(t, 10, r.SecondsAgo(3))
}

// TestPerSecondRRDSecondsRingWrapsAfter60Seconds exercises invariant 8's
// ring-buffer wraparound: a sample older than the ring's span no longer
// shows up once 60 seconds of new buckets have cycled past it.
func TestPerSecondRRDSecondsRingWrapsAfter60Seconds(t *testing.T) {
	t.Parallel()

	r := NewPerSecondRRD(1, "packets_rrd")
	r.AddSample(0, 99)
	r.AddSample(60, 1)

	assert.EqualValues(t, 1, r.SecondsAgo(0))
	assert.EqualValues(t, 0, r.SecondsAgo(59))
}

// TestPerSecondRRDMinutesAgoAggregatesAcrossSeconds verifies the minute ring
// accumulates every second-level sample landing in the same 60s bucket.
func TestPerSecondRRDMinutesAgoAggregatesAcrossSeconds(t *testing.T) {
	t.Parallel()

	r := NewPerSecondRRD(1, "packets_rrd")
	r.AddSample(10, 1)
	r.AddSample(40, 1)
	r.AddSample(59, 1)

	assert.EqualValues(t, 3, r.MinutesAgo(0))
}

func TestPerSecondRRDCloneTypeIsIndependentAndPreservesIdentity(t *testing.T) {
	t.Parallel()

	proto := NewPerSecondRRD(0, "packets_rrd")
	clone := proto.CloneType(7)

	rrd, ok := clone.(*PerSecondRRD)
	assert.True(t, ok)
	assert.EqualValues(t, 7, rrd.FieldID())
	assert.Equal(t, "packets_rrd", rrd.Name())

	rrd.AddSample(1, 1)
	assert.EqualValues(t, 0, proto.SecondsAgo(0))
}

func TestMinuteRRDAddSampleAndRollover(t *testing.T) {
	t.Parallel()

	r := NewMinuteRRD(1, "packet_rrd_bin_250")
	r.AddSample(0, 5)
	r.AddSample(60, 2)

	assert.EqualValues(t, 2, r.MinutesAgo(0))
	assert.EqualValues(t, 5, r.MinutesAgo(1))
	assert.True(t, r.Dirty())
}

func TestMinuteRRDCloneTypeIsIndependent(t *testing.T) {
	t.Parallel()

	proto := NewMinuteRRD(0, "packet_rrd_bin_250")
	clone := proto.CloneType(3).(*MinuteRRD)

	clone.AddSample(0, 9)
	assert.EqualValues(t, 0, proto.MinutesAgo(0))
	assert.EqualValues(t, 9, clone.MinutesAgo(0))
	assert.EqualValues(t, 3, clone.FieldID())
}
