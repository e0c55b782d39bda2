// Package serialize implements the serialization surface of spec §6.7: an
// all-phys endpoint and a device-summary endpoint, with optional
// field-subset projection and outer-map wrapping. The pluggable encoders
// live in the jsonenc and protoenc subpackages; this package only walks
// the device/PHY state into an ordered, named tree those encoders render.
package serialize

import (
	"strconv"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/phy"
)

// Node is one emitted element: a name (the registered dotted-path field
// name, spec §3.1), the field id registered for that name in
// devicetracker.Schema (0 if the name carries no top-level registration,
// e.g. a seenby_map entry keyed by source uuid), and either a scalar Value
// or ordered Children.
type Node struct {
	Name     string
	FieldID  element.FieldID
	Value    any
	Children []Node
}

// fieldFunc extracts one named field's value (or sub-tree) from a device.
type fieldFunc func(d *devicetracker.Device) Node

// summaryFields is the default projection for device-summary: the subset
// spec §3.2 calls out as "a parallel sub-tree exposing a subset of fields
// for list endpoints" — identity, classification, and the fields a list
// view actually renders.
var summaryFields = []string{
	"key", "macaddr", "phyname", "devicename", "basic_type_set",
	"basic_crypt_set", "last_time", "packets", "channel", "frequency",
	"signal_data", "tag",
}

// fullFields is the summary fields followed by the remaining named fields
// of spec §3.2's device record. The packet_rrd_bin_* size-bucket RRDs are
// not emitted.
var fullFields = append(append([]string{}, summaryFields...),
	"username", "type_string", "crypt_string", "manuf", "first_time",
	"rx_packets", "tx_packets", "llc_packets", "error_packets",
	"data_packets", "crypt_packets", "filter_packets", "datasize",
	"packets_rrd", "data_rrd", "freq_khz_map", "location", "seenby_map",
	"alert",
)

var fieldAccessors = map[string]fieldFunc{
	"key":             func(d *devicetracker.Device) Node { return Node{Name: "key", Value: uint64(d.Key)} },
	"macaddr":         func(d *devicetracker.Device) Node { return Node{Name: "macaddr", Value: d.Mac.String()} },
	"phyname":         func(d *devicetracker.Device) Node { return Node{Name: "phyname", Value: d.PhyName} },
	"devicename":      func(d *devicetracker.Device) Node { return Node{Name: "devicename", Value: d.DeviceName} },
	"username":        func(d *devicetracker.Device) Node { return Node{Name: "username", Value: d.Username} },
	"type_string":     func(d *devicetracker.Device) Node { return Node{Name: "type_string", Value: d.TypeString} },
	"crypt_string":    func(d *devicetracker.Device) Node { return Node{Name: "crypt_string", Value: d.CryptString} },
	"manuf":           func(d *devicetracker.Device) Node { return Node{Name: "manuf", Value: d.Manuf} },
	"basic_type_set":  func(d *devicetracker.Device) Node { return Node{Name: "basic_type_set", Value: d.BasicTypeSet} },
	"basic_crypt_set": func(d *devicetracker.Device) Node { return Node{Name: "basic_crypt_set", Value: d.BasicCryptSet} },
	"first_time":      func(d *devicetracker.Device) Node { return Node{Name: "first_time", Value: d.FirstTime} },
	"last_time":       func(d *devicetracker.Device) Node { return Node{Name: "last_time", Value: d.LastTime} },
	"packets":         func(d *devicetracker.Device) Node { return Node{Name: "packets", Value: d.Packets} },
	"rx_packets":      func(d *devicetracker.Device) Node { return Node{Name: "rx_packets", Value: d.RxPackets} },
	"tx_packets":      func(d *devicetracker.Device) Node { return Node{Name: "tx_packets", Value: d.TxPackets} },
	"llc_packets":     func(d *devicetracker.Device) Node { return Node{Name: "llc_packets", Value: d.LlcPackets} },
	"error_packets":   func(d *devicetracker.Device) Node { return Node{Name: "error_packets", Value: d.ErrorPackets} },
	"data_packets":    func(d *devicetracker.Device) Node { return Node{Name: "data_packets", Value: d.DataPackets} },
	"crypt_packets":   func(d *devicetracker.Device) Node { return Node{Name: "crypt_packets", Value: d.CryptPackets} },
	"filter_packets":  func(d *devicetracker.Device) Node { return Node{Name: "filter_packets", Value: d.FilterPackets} },
	"datasize":        func(d *devicetracker.Device) Node { return Node{Name: "datasize", Value: d.DataSize} },
	"channel":         func(d *devicetracker.Device) Node { return Node{Name: "channel", Value: d.Channel} },
	"frequency":       func(d *devicetracker.Device) Node { return Node{Name: "frequency", Value: d.Frequency} },
	"alert":           func(d *devicetracker.Device) Node { return Node{Name: "alert", Value: d.Alert} },
	"tag":             func(d *devicetracker.Device) Node { return Node{Name: "tag", Value: d.Tag.Get()} },

	"packets_rrd": func(d *devicetracker.Device) Node { return rrdNode("packets_rrd", d.PacketsRRD) },
	"data_rrd":    func(d *devicetracker.Device) Node { return rrdNode("data_rrd", d.DataRRD) },

	"signal_data": func(d *devicetracker.Device) Node {
		s := d.SignalData
		return Node{Name: "signal_data", Children: []Node{
			{Name: "last_signal", Value: s.LastSignal},
			{Name: "last_noise", Value: s.LastNoise},
			{Name: "min_signal", Value: s.MinSignal},
			{Name: "max_signal", Value: s.MaxSignal},
			{Name: "min_noise", Value: s.MinNoise},
			{Name: "max_noise", Value: s.MaxNoise},
			{Name: "avg_signal", Value: s.AvgSignal()},
		}}
	},

	"location": func(d *devicetracker.Device) Node {
		l := d.Location
		return Node{Name: "location", Children: []Node{
			{Name: "min_lat", Value: l.MinLat}, {Name: "max_lat", Value: l.MaxLat},
			{Name: "min_lon", Value: l.MinLon}, {Name: "max_lon", Value: l.MaxLon},
			{Name: "min_alt", Value: l.MinAlt}, {Name: "max_alt", Value: l.MaxAlt},
			{Name: "avg_lat", Value: l.AvgLat()}, {Name: "avg_lon", Value: l.AvgLon()},
			{Name: "last_lat", Value: l.LastLat}, {Name: "last_lon", Value: l.LastLon},
			{Name: "last_valid", Value: l.LastValid},
		}}
	},

	"freq_khz_map": func(d *devicetracker.Device) Node {
		hist := d.FrequencyHistogram()
		children := make([]Node, len(hist))
		for i, fc := range hist {
			children[i] = Node{Name: formatFreqKey(fc.FreqKhz), Value: fc.Count}
		}
		return Node{Name: "freq_khz_map", Children: children}
	},

	"seenby_map": func(d *devicetracker.Device) Node {
		sources := d.SeenBySources()
		children := make([]Node, 0, len(sources))
		for _, src := range sources {
			rec, _ := d.SeenByRecord(src)
			children = append(children, Node{Name: src.String(), Children: []Node{
				{Name: "first_time", Value: rec.FirstTime},
				{Name: "last_time", Value: rec.LastTime},
				{Name: "num_packets", Value: rec.Packets},
			}})
		}
		return Node{Name: "seenby_map", Children: children}
	},
}

func rrdNode(name string, rrd *element.PerSecondRRD) Node {
	return Node{Name: name, Children: []Node{
		{Name: "seconds", Value: rrd.SecondsRing()},
		{Name: "minutes", Value: rrd.MinutesRing()},
		{Name: "hours", Value: rrd.HoursRing()},
	}}
}

func formatFreqKey(freqKhz float64) string {
	return strconv.FormatFloat(freqKhz, 'f', -1, 64)
}

// Device renders a device into its full tree, in fullFields order (spec
// §6.7: "each element is emitted with its registered name and ... order
// matches traversal order").
func Device(d *devicetracker.Device) Node {
	return projectFields(d, fullFields)
}

// DeviceSummary renders a device's summary sub-tree (spec §3.2's
// summary_map), or a caller-supplied field-subset projection by dotted
// path name if fields is non-empty (spec §6.7).
func DeviceSummary(d *devicetracker.Device, fields []string) Node {
	if len(fields) == 0 {
		fields = summaryFields
	}
	return projectFields(d, fields)
}

func projectFields(d *devicetracker.Device, fields []string) Node {
	children := make([]Node, 0, len(fields))
	for _, name := range fields {
		if fn, ok := fieldAccessors[name]; ok {
			n := fn(d)
			if id, ok := devicetracker.Schema.ID(name); ok {
				n.FieldID = id
			}
			children = append(children, n)
		}
	}
	return Node{Name: "device", Children: children}
}

// AllPhys renders the PHY descriptor list of spec §3.4/§6.7's all-phys
// endpoint. statsFor is optional (nil skips the diagnostic fields); when
// given, it resolves each PHY's rolling device-creation-rate summary
// (internal/devicetracker/phystats.go) alongside its packet counters.
func AllPhys(counters []phy.Counters, statsFor func(phyID int32) devicetracker.PhyStats) Node {
	children := make([]Node, len(counters))
	for i, c := range counters {
		fields := []Node{
			{Name: "phy_id", Value: c.ID},
			{Name: "packets", Value: c.Packets},
			{Name: "data_packets", Value: c.DataPackets},
			{Name: "crypt_packets", Value: c.CryptPackets},
			{Name: "error_packets", Value: c.ErrorPackets},
			{Name: "filter_packets", Value: c.FilterPackets},
			{Name: "num_devices", Value: c.NumDevices},
		}
		if statsFor != nil {
			s := statsFor(c.ID)
			fields = append(fields,
				Node{Name: "mean_creation_interval_secs", Value: s.MeanIntervalSecs},
				Node{Name: "stddev_creation_interval_secs", Value: s.StdDevIntervalSecs},
				Node{Name: "creation_interval_samples", Value: uint64(s.Samples)},
			)
		}
		children[i] = Node{Name: c.Name, Children: fields}
	}
	return Node{Name: "phy_list", Children: children}
}

// Wrap nests n under a single outer key, per spec §6.7's optional
// outer-map wrapping.
func Wrap(outerKey string, n Node) Node {
	return Node{Name: outerKey, Children: []Node{n}}
}
