package devicetracker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/frame"
)

func TestPhyStatsEmptyBeforeSecondDevice(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	assert.Equal(t, PhyStats{}, reg.PhyStats(0))

	mac := mustMac(t, "00:11:22:33:44:55")
	fr := &frame.Frame{Timestamp: 1000, Kind: frame.KindData}
	info := frame.CommonInfo{SourceMac: mac, BasicTypeSet: 1}
	_, err := reg.UpdateCommon(0, mac, fr, info, uuid.New(), FlagPackets)
	require.NoError(t, err)

	// One device created: no interval to measure yet.
	assert.Equal(t, PhyStats{}, reg.PhyStats(0))
}

func TestPhyStatsMeanAndStdDevOverCreationIntervals(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	macs := []string{"00:11:22:33:44:01", "00:11:22:33:44:02", "00:11:22:33:44:03"}
	timestamps := []int64{1000, 1010, 1030}

	for i, macStr := range macs {
		mac := mustMac(t, macStr)
		fr := &frame.Frame{Timestamp: timestamps[i], Kind: frame.KindData}
		info := frame.CommonInfo{SourceMac: mac, BasicTypeSet: 1}
		_, err := reg.UpdateCommon(0, mac, fr, info, uuid.New(), FlagPackets)
		require.NoError(t, err)
	}

	// Intervals are 10 and 20 seconds: mean 15, sample stddev sqrt(50) (gonum's
	// StdDev applies Bessel's correction).
	stats := reg.PhyStats(0)
	assert.Equal(t, 2, stats.Samples)
	assert.InDelta(t, 15.0, stats.MeanIntervalSecs, 1e-9)
	assert.InDelta(t, 7.0710678118654755, stats.StdDevIntervalSecs, 1e-9)
}

func TestPhyStatsOnlyCountsCreationNotEveryUpdate(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	mac := mustMac(t, "00:11:22:33:44:55")
	info := frame.CommonInfo{SourceMac: mac, BasicTypeSet: 1}

	for _, ts := range []int64{1000, 1005, 1009} {
		fr := &frame.Frame{Timestamp: ts, Kind: frame.KindData}
		_, err := reg.UpdateCommon(0, mac, fr, info, uuid.New(), FlagPackets)
		require.NoError(t, err)
	}

	// Same device every time: only the first update records a creation.
	assert.Equal(t, PhyStats{}, reg.PhyStats(0))
}

func TestPhyStatsTracksPhysIndependently(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(nil)
	infoA := frame.CommonInfo{SourceMac: mustMac(t, "00:11:22:33:44:01"), BasicTypeSet: 1}
	infoB := frame.CommonInfo{SourceMac: mustMac(t, "00:11:22:33:44:02"), BasicTypeSet: 1}

	_, err := reg.UpdateCommon(0, infoA.SourceMac, &frame.Frame{Timestamp: 1000}, infoA, uuid.New(), FlagPackets)
	require.NoError(t, err)
	_, err = reg.UpdateCommon(1, infoB.SourceMac, &frame.Frame{Timestamp: 2000}, infoB, uuid.New(), FlagPackets)
	require.NoError(t, err)

	assert.Equal(t, PhyStats{}, reg.PhyStats(0))
	assert.Equal(t, PhyStats{}, reg.PhyStats(1))
}
