package devicetracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDataMergeTracksMinMaxLast(t *testing.T) {
	t.Parallel()

	s := &SignalData{}
	s.MergeSignal(-60, true, -90, true, nil)
	s.MergeSignal(-40, true, -95, true, nil)
	s.MergeSignal(-70, true, -85, true, nil)

	assert.EqualValues(t, -40, s.MaxSignal)
	assert.EqualValues(t, -70, s.MinSignal)
	assert.EqualValues(t, -70, s.LastSignal)
	assert.EqualValues(t, -85, s.MaxNoise)
	assert.EqualValues(t, -95, s.MinNoise)
	assert.InDelta(t, -170.0/3.0, s.AvgSignal(), 0.001)
}

func TestSignalDataIgnoresAbsentSamples(t *testing.T) {
	t.Parallel()

	s := &SignalData{}
	s.MergeSignal(0, false, 0, false, nil)
	assert.Equal(t, 0.0, s.AvgSignal())
}

func TestSignalDataSnapshotsPeakLocation(t *testing.T) {
	t.Parallel()

	s := &SignalData{}
	loc := &Location{LastLat: 1, LastLon: 2, LastAlt: 3, LastValid: true}
	s.MergeSignal(-30, true, 0, false, loc)

	assert.True(t, s.HasPeakLocation)
	assert.Equal(t, 1.0, s.PeakLat)
}
