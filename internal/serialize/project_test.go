package serialize

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/frame"
	"github.com/sensorcore/devicetracker/internal/phy"
)

func buildTestDevice(t *testing.T) *devicetracker.Device {
	t.Helper()

	reg := devicetracker.NewRegistry(nil)
	mac, err := element.ParseMac("00:11:22:33:44:55")
	require.NoError(t, err)

	fr := &frame.Frame{
		Timestamp:    1000,
		LengthBytes:  128,
		Kind:         frame.KindData,
		HasSignal:    true,
		SignalDBM:    -50,
		FrequencyKHz: 2412000,
		Channel:      "1",
	}
	info := frame.CommonInfo{
		SourceMac:    mac,
		BasicTypeSet: 1,
		Channel:      "1",
		Frequency:    2412000,
	}

	flags := devicetracker.FlagSignal | devicetracker.FlagFrequencies | devicetracker.FlagPackets
	d, err := reg.UpdateCommon(1, mac, fr, info, uuid.New(), flags)
	require.NoError(t, err)
	return d
}

func findChild(t *testing.T, n Node, name string) Node {
	t.Helper()
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no child named %q in %q", name, n.Name)
	return Node{}
}

func TestDeviceSummaryUsesDefaultFieldsInOrder(t *testing.T) {
	t.Parallel()

	d := buildTestDevice(t)
	n := DeviceSummary(d, nil)

	require.Equal(t, len(summaryFields), len(n.Children))
	for i, name := range summaryFields {
		assert.Equal(t, name, n.Children[i].Name)
	}
}

func TestDeviceSummaryCustomProjection(t *testing.T) {
	t.Parallel()

	d := buildTestDevice(t)
	n := DeviceSummary(d, []string{"manuf", "key"})

	require.Len(t, n.Children, 2)
	assert.Equal(t, "manuf", n.Children[0].Name)
	assert.Equal(t, "key", n.Children[1].Name)
	assert.Equal(t, uint64(d.Key), n.Children[1].Value)
}

func TestDeviceFullTreeIncludesEveryField(t *testing.T) {
	t.Parallel()

	d := buildTestDevice(t)
	n := Device(d)

	require.Equal(t, len(fullFields), len(n.Children))

	sig := findChild(t, n, "signal_data")
	last := findChild(t, sig, "last_signal")
	assert.Equal(t, int32(-50), last.Value)
}

func TestFreqKhzMapKeyIsPlainDecimal(t *testing.T) {
	t.Parallel()

	d := buildTestDevice(t)
	n := Device(d)
	freqMap := findChild(t, n, "freq_khz_map")
	require.Len(t, freqMap.Children, 1)
	assert.Equal(t, "2412000", freqMap.Children[0].Name)
}

func TestAllPhysRendersInInputOrder(t *testing.T) {
	t.Parallel()

	// phy.Counters is a plain struct; build two literals directly rather
	// than standing up a full phy.Registry.
	counters := []phy.Counters{{ID: 0, Name: "IEEE802.11"}, {ID: 1, Name: "Bluetooth"}}
	ordered := AllPhys(counters, nil)
	require.Len(t, ordered.Children, 2)
	assert.Equal(t, "IEEE802.11", ordered.Children[0].Name)
	assert.Equal(t, "Bluetooth", ordered.Children[1].Name)

	n := AllPhys(nil, nil)
	assert.Equal(t, "phy_list", n.Name)
	assert.Empty(t, n.Children)
}

func TestAllPhysIncludesStatsWhenResolverGiven(t *testing.T) {
	t.Parallel()

	counters := []phy.Counters{{ID: 0, Name: "IEEE802.11", Packets: 5}}
	statsFor := func(phyID int32) devicetracker.PhyStats {
		return devicetracker.PhyStats{MeanIntervalSecs: 12.5, StdDevIntervalSecs: 2.5, Samples: 3}
	}

	n := AllPhys(counters, statsFor)
	phyNode := findChild(t, n, "IEEE802.11")
	mean := findChild(t, phyNode, "mean_creation_interval_secs")
	assert.Equal(t, 12.5, mean.Value)
	samples := findChild(t, phyNode, "creation_interval_samples")
	assert.Equal(t, uint64(3), samples.Value)
}

func TestWrapNestsUnderOuterKey(t *testing.T) {
	t.Parallel()

	inner := Node{Name: "device", Value: 1}
	wrapped := Wrap("devices", inner)
	assert.Equal(t, "devices", wrapped.Name)
	require.Len(t, wrapped.Children, 1)
	assert.Equal(t, "device", wrapped.Children[0].Name)
}
