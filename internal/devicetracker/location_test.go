package devicetracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sensorcore/devicetracker/internal/frame"
)

func TestLocationMergeFixEnvelope(t *testing.T) {
	t.Parallel()

	loc := &Location{}
	loc.MergeFix(frame.GPSFix{Lat: 10, Lon: 20, Alt: 5, FixType: 3, Valid: true})
	loc.MergeFix(frame.GPSFix{Lat: 12, Lon: 18, Alt: 7, FixType: 3, Valid: true})

	assert.Equal(t, 10.0, loc.MinLat)
	assert.Equal(t, 12.0, loc.MaxLat)
	assert.Equal(t, 18.0, loc.MinLon)
	assert.Equal(t, 20.0, loc.MaxLon)
	assert.InDelta(t, 11.0, loc.AvgLat(), 0.0001)
	assert.EqualValues(t, 2, loc.NumSamples)
	assert.Equal(t, 12.0, loc.LastLat, "last fix reflects the most recent merge")
}

func TestLocationMergeFixIgnoresInvalid(t *testing.T) {
	t.Parallel()

	loc := &Location{}
	loc.MergeFix(frame.GPSFix{Lat: 99, Valid: false})

	assert.EqualValues(t, 0, loc.NumSamples)
	assert.False(t, loc.LastValid)
}
