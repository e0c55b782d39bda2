package devicetracker

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/element"
)

// sizeBin names the five packet-size buckets of spec §3.2.
type sizeBin string

const (
	sizeBin250   sizeBin = "250"
	sizeBin500   sizeBin = "500"
	sizeBin1000  sizeBin = "1000"
	sizeBin1500  sizeBin = "1500"
	sizeBinJumbo sizeBin = "jumbo"
)

func classifySizeBin(lengthBytes int) sizeBin {
	switch {
	case lengthBytes <= 250:
		return sizeBin250
	case lengthBytes <= 500:
		return sizeBin500
	case lengthBytes <= 1000:
		return sizeBin1000
	case lengthBytes <= 1500:
		return sizeBin1500
	default:
		return sizeBinJumbo
	}
}

// Device is a tracked endpoint identified by (PHY, hardware address), the
// full field set of spec §3.2.
type Device struct {
	Key     Key
	Mac     element.Mac
	PhyID   int32
	PhyName string

	DeviceName  string
	Username    string
	TypeString  string
	CryptString string
	Manuf       string

	BasicTypeSet  uint64
	BasicCryptSet uint64

	FirstTime int64
	LastTime  int64

	Packets       uint64
	RxPackets     uint64
	TxPackets     uint64
	LlcPackets    uint64
	ErrorPackets  uint64
	DataPackets   uint64
	CryptPackets  uint64
	FilterPackets uint64
	DataSize      uint64

	PacketsRRD *element.PerSecondRRD
	DataRRD    *element.PerSecondRRD

	packetRRDBins map[sizeBin]*element.MinuteRRD

	SignalData *SignalData
	Location   *Location

	freqKhz map[float64]uint64
	Channel string
	Frequency float64

	seenBy      map[uuid.UUID]*SeenByRecord
	seenByOrder []uuid.UUID

	Alert uint64
	Tag   *Tag

	// Extra holds PHY-specific sub-trees merged in under their own field id
	// (spec §4.4's "Return": "PHY-specific plugins then attach their own
	// sub-tree ... under their own field id inside the device").
	Extra map[element.FieldID]element.Complex
}

// newDevice constructs a device freshly created by the enrichment pipeline
// (spec §4.4's "Creation"), hydrating every complex sub-record through
// Schema.GetInstance rather than a bare struct literal, so the field ids
// registered in schema.go genuinely drive what a device is built from
// (spec §4.1).
func newDevice(key Key, mac element.Mac, phyID int32, phyName string, ts int64) *Device {
	return &Device{
		Key:        key,
		Mac:        mac,
		PhyID:      phyID,
		PhyName:    phyName,
		FirstTime:  ts,
		LastTime:   ts,
		PacketsRRD: mustGetInstance[*element.PerSecondRRD](fieldPacketsRRD),
		DataRRD:    mustGetInstance[*element.PerSecondRRD](fieldDataRRD),
		packetRRDBins: map[sizeBin]*element.MinuteRRD{
			sizeBin250:   mustGetInstance[*element.MinuteRRD](fieldPacketRRDBin250),
			sizeBin500:   mustGetInstance[*element.MinuteRRD](fieldPacketRRDBin500),
			sizeBin1000:  mustGetInstance[*element.MinuteRRD](fieldPacketRRDBin1000),
			sizeBin1500:  mustGetInstance[*element.MinuteRRD](fieldPacketRRDBin1500),
			sizeBinJumbo: mustGetInstance[*element.MinuteRRD](fieldPacketRRDBinJumbo),
		},
		SignalData: mustGetInstance[*SignalData](fieldSignalData),
		Location:   mustGetInstance[*Location](fieldLocation),
		freqKhz:    make(map[float64]uint64),
		seenBy:     make(map[uuid.UUID]*SeenByRecord),
		Tag:        mustGetInstance[*Tag](fieldTag),
		Extra:      make(map[element.FieldID]element.Complex),
	}
}

// FrequencyHistogram returns freq_khz_map in ascending-key order, per spec
// §6.7's numeric-keyed map traversal rule.
func (d *Device) FrequencyHistogram() []FreqCount {
	out := make([]FreqCount, 0, len(d.freqKhz))
	for k, v := range d.freqKhz {
		out = append(out, FreqCount{FreqKhz: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FreqKhz < out[j].FreqKhz })
	return out
}

// seenByEntry returns the seenby_map entry for source, creating it on first
// sighting (spec §3.3's "created on the device's first frame from that
// source").
func (d *Device) seenByEntry(source uuid.UUID, ts int64) *SeenByRecord {
	rec, ok := d.seenBy[source]
	if !ok {
		rec = newSeenByRecord(source, ts)
		d.seenBy[source] = rec
		d.seenByOrder = append(d.seenByOrder, source)
	}
	return rec
}

// SeenBySources returns every seenby_map source id in first-seen (insertion)
// order, per spec §6.7's container-order guarantee: a map with no natural
// numeric key still owes callers a stable, repeatable order across
// back-to-back serializations of an unchanged device.
func (d *Device) SeenBySources() []uuid.UUID {
	out := make([]uuid.UUID, len(d.seenByOrder))
	copy(out, d.seenByOrder)
	return out
}

func (d *Device) SeenByRecord(source uuid.UUID) (*SeenByRecord, bool) {
	rec, ok := d.seenBy[source]
	return rec, ok
}

func (d *Device) packetRRDBin(lengthBytes int) *element.MinuteRRD {
	return d.packetRRDBins[classifySizeBin(lengthBytes)]
}
