package phy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/frame"
)

type stubPlugin struct {
	claim bool
	info  frame.CommonInfo
}

func (p stubPlugin) Classify(fr *frame.Frame) (frame.CommonInfo, bool) { return p.info, p.claim }

func TestRegisterAssignsMonotonicIDs(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	id0, err := r.Register("IEEE802.11", stubPlugin{})
	require.NoError(t, err)
	id1, err := r.Register("Bluetooth", stubPlugin{})
	require.NoError(t, err)

	assert.Equal(t, int32(0), id0)
	assert.Equal(t, int32(1), id1)
	assert.Equal(t, "IEEE802.11", r.Name(id0))
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Register("IEEE802.11", stubPlugin{})
	require.NoError(t, err)
	_, err = r.Register("IEEE802.11", stubPlugin{})
	assert.Error(t, err)
}

func TestClassifyReturnsFirstClaimingPlugin(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Register("declines", stubPlugin{claim: false})
	require.NoError(t, err)
	claimedInfo := frame.CommonInfo{Channel: "6"}
	id, err := r.Register("claims", stubPlugin{claim: true, info: claimedInfo})
	require.NoError(t, err)

	gotID, info, ok := r.Classify(&frame.Frame{})
	require.True(t, ok)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "6", info.Channel)
}

func TestClassifyReturnsFalseWhenNoneClaim(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Register("declines", stubPlugin{claim: false})
	require.NoError(t, err)

	_, _, ok := r.Classify(&frame.Frame{})
	assert.False(t, ok)
}

func TestCountersRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	id, err := r.Register("IEEE802.11", stubPlugin{})
	require.NoError(t, err)

	r.IncNumDevices(id)
	r.IncPackets(id)
	r.IncPackets(id)

	all := r.All()
	require.Len(t, all, 1)
	assert.EqualValues(t, 1, all[0].NumDevices)
	assert.EqualValues(t, 2, all[0].Packets)
}
