package devicetracker

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/element"
)

// TestNewDeviceHydratesComplexFieldsFromSchema guards against Device's
// complex sub-records silently reverting to ad hoc struct literals: every
// one of them should carry the field id Schema actually registered for its
// name, because it was built by cloning the registered prototype.
func TestNewDeviceHydratesComplexFieldsFromSchema(t *testing.T) {
	t.Parallel()

	d := newDevice(MakeKey(1, 0x1122334455), 0x1122334455, 1, "test", 1000)

	wantID, ok := Schema.ID("signal_data")
	require.True(t, ok)
	assert.Equal(t, wantID, d.SignalData.FieldID())

	wantID, ok = Schema.ID("location")
	require.True(t, ok)
	assert.Equal(t, wantID, d.Location.FieldID())

	wantID, ok = Schema.ID("tag")
	require.True(t, ok)
	assert.Equal(t, wantID, d.Tag.FieldID())

	wantID, ok = Schema.ID("packets_rrd")
	require.True(t, ok)
	assert.Equal(t, wantID, d.PacketsRRD.FieldID())

	wantID, ok = Schema.ID("packet_rrd_bin_250")
	require.True(t, ok)
	assert.Equal(t, wantID, d.packetRRDBins[sizeBin250].FieldID())
}

// TestSeenByEntryClonesFromSchema ensures every seenby_map entry is a fresh,
// independent clone of the registered seenby_record prototype, not a shared
// pointer or a bare literal with no field id.
func TestSeenByEntryClonesFromSchema(t *testing.T) {
	t.Parallel()

	d := newDevice(MakeKey(1, 0x1), 1, 1, "test", 1000)
	a, b := uuid.New(), uuid.New()

	recA := d.seenByEntry(a, 1000)
	recB := d.seenByEntry(b, 2000)

	wantID, ok := Schema.ID("seenby_record")
	require.True(t, ok)
	assert.Equal(t, wantID, recA.FieldID())
	assert.Equal(t, wantID, recB.FieldID())
	assert.NotSame(t, recA, recB)

	recA.Update(1500, 0)
	assert.EqualValues(t, 1, recA.Packets)
	assert.EqualValues(t, 0, recB.Packets)
}

// TestDeviceComplexFieldsSatisfyElementComplex is a compile-time-adjacent
// guard: each type wired through Schema must genuinely implement
// element.Complex, not just happen to have a CloneType method with the
// wrong shape.
func TestDeviceComplexFieldsSatisfyElementComplex(t *testing.T) {
	t.Parallel()

	var (
		_ element.Complex = NewSignalData(0)
		_ element.Complex = NewLocation(0)
		_ element.Complex = NewTag(0)
		_ element.Complex = NewSeenByRecord(0)
		_ element.Complex = element.NewPerSecondRRD(0, "x")
		_ element.Complex = element.NewMinuteRRD(0, "x")
	)
}
