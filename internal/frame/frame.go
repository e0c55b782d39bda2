// Package frame defines the capture-frame shape that flows through the PHY
// registry (spec §4.2) and the common enrichment pipeline (spec §4.4). It
// is the narrow interface boundary to the out-of-scope capture drivers and
// PHY decoders named in spec §1: this package only describes the data they
// hand the core, never how they produce it.
package frame

import "github.com/sensorcore/devicetracker/internal/element"

// Kind classifies a frame the way the common enrichment pipeline needs to
// (spec §4.4's PACKETS flag: llc/data/error).
type Kind int

const (
	KindUnknown Kind = iota
	KindData
	KindLLC
	KindError
)

// Direction is rx/tx/unknown, as produced by a PHY plugin (spec §4.2).
type Direction int

const (
	DirUnknown Direction = iota
	DirRX
	DirTX
)

// GPSFix is the location attached to a frame, either by the capture source
// or by the Location Arbiter (spec §4.5) when one is absent.
type GPSFix struct {
	Lat, Lon, Alt     float64
	Speed, Heading    float64
	Precision         float64 // meters
	FixType           int     // 2 or 3
	Time              int64   // unix seconds
	Provider          string
	Valid             bool
}

// Frame is a captured frame after PHY classification, the input to the
// common enrichment pipeline's UpdateCommon (spec §4.4).
type Frame struct {
	Timestamp    int64 // unix seconds
	LengthBytes  int
	Kind         Kind
	Direction    Direction
	HasSignal    bool
	SignalDBM    int32
	HasNoise     bool
	NoiseDBM     int32
	FrequencyKHz float64
	Channel      string
	GPS          *GPSFix

	SourceMac  element.Mac
	DestMac    element.Mac
	NetworkMac element.Mac // BSSID / coordinating-node address, if any

	Raw []byte // undecoded bytes, handed to PHY plugins that want them
}

// CommonInfo is what a PHY plugin contract (spec §4.2) returns on a claimed
// frame: the fields the enrichment pipeline needs to update a device's
// common attributes, plus an optional PHY-specific sub-tree the plugin
// wants attached under its own field id.
type CommonInfo struct {
	SourceMac     element.Mac
	DestMac       element.Mac
	NetworkMac    element.Mac
	BasicTypeSet  uint64
	BasicCryptSet uint64
	Channel       string
	Frequency     float64
	Direction     Direction

	// Extra is the PHY-specific component the plugin wants merged into the
	// device under its own registered field id (spec §4.4's "Return").
	Extra     element.Complex
	ExtraID   element.FieldID
	HasExtra  bool
}
