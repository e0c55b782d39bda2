// Package devicetracker implements the device record (spec §3.2), seen-by
// record (§3.3), device registry (§4.3), and common enrichment pipeline
// (§4.4) of the wireless-sensor tracking core.
package devicetracker

import "github.com/sensorcore/devicetracker/internal/element"

// Sentinel PHY ids (spec §3.4).
const (
	PhyAny     int32 = -1
	PhyUnknown int32 = -2
)

// Basic-type bitmask (spec §6.2), stable across sessions.
const (
	BasicTypeDevice uint64 = 0
	BasicTypeAP     uint64 = 1 << 0
	BasicTypeClient uint64 = 1 << 1
	BasicTypeWired  uint64 = 1 << 2
	BasicTypePeer   uint64 = 1 << 3

	// BasicTypeClientMask is the UI filter mask for "any kind of client".
	BasicTypeClientMask = BasicTypeAP | BasicTypeClient
)

// Basic-crypt bitmask (spec §6.3).
const (
	BasicCryptNone      uint64 = 0
	BasicCryptEncrypted uint64 = 1 << 1
	BasicCryptL2        uint64 = 1 << 2
	BasicCryptL3        uint64 = 1 << 3
	BasicCryptWeak       uint64 = 1 << 4
	BasicCryptDecrypted  uint64 = 1 << 5
)

// UpdateFlag is the update-flag bitmask of spec §4.4/§6.4, selecting which
// common fields a frame enriches.
type UpdateFlag uint32

const (
	FlagSignal      UpdateFlag = 1 << 0
	FlagFrequencies UpdateFlag = 1 << 1
	FlagPackets     UpdateFlag = 1 << 2
	FlagLocation    UpdateFlag = 1 << 3
	FlagSeenBy      UpdateFlag = 1 << 4
	FlagEncryption  UpdateFlag = 1 << 5

	FlagAll = FlagSignal | FlagFrequencies | FlagPackets | FlagLocation | FlagSeenBy | FlagEncryption
)

func (f UpdateFlag) Has(bit UpdateFlag) bool { return f&bit != 0 }

// Key is the 64-bit composite device identity of spec §6.1: bits 63..48 are
// the PHY id, bits 47..0 are the hardware address's numeric form.
type Key uint64

// MakeKey builds the composite key from a phy id and mac. phy must not be
// PhyAny or PhyUnknown for a storable device (spec §3.2 invariant).
func MakeKey(phy int32, mac element.Mac) Key {
	return Key((uint64(uint16(phy)) << 48) | (mac.AsUint64() & 0xFFFFFFFFFFFF))
}

// Phy extracts the PHY id encoded in the key.
func (k Key) Phy() uint16 { return uint16(k >> 48) }

// Mac extracts the hardware address encoded in the key.
func (k Key) Mac() element.Mac { return element.Mac(uint64(k) & 0xFFFFFFFFFFFF) }
