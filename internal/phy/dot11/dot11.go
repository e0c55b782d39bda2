// Package dot11 is the reference PHY plugin for IEEE 802.11 (spec §4.2),
// grounded on the teacher's gopacket-based frame decoding (see
// internal/lidar/network/pcap.go): a Dot11 layer is parsed out of each
// frame's raw bytes and translated into the common-info shape the
// enrichment pipeline expects.
package dot11

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// Name is the PHY's registered name (spec §3.2's phyname).
const Name = "IEEE802.11"

// Plugin decodes raw 802.11 frames whose bytes start at the 802.11 header;
// a leading radiotap header is not decoded.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

// Classify implements phy.Plugin.
func (p *Plugin) Classify(fr *frame.Frame) (frame.CommonInfo, bool) {
	if len(fr.Raw) == 0 {
		return frame.CommonInfo{}, false
	}

	packet := gopacket.NewPacket(fr.Raw, layers.LayerTypeDot11, gopacket.NoCopy)
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return frame.CommonInfo{}, false
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		return frame.CommonInfo{}, false
	}

	info := frame.CommonInfo{
		SourceMac:  element.MacFromBytes(toOctets(dot11.Address2)),
		DestMac:    element.MacFromBytes(toOctets(dot11.Address1)),
		NetworkMac: element.MacFromBytes(toOctets(dot11.Address3)),
		Channel:    fr.Channel,
		Frequency:  fr.FrequencyKHz,
		Direction:  classifyDirection(dot11),
	}

	info.BasicTypeSet = classifyBasicType(dot11)
	if dot11.Flags.WEP() {
		info.BasicCryptSet = devicetracker.BasicCryptEncrypted | devicetracker.BasicCryptWeak
	}

	return info, true
}

func toOctets(mac net.HardwareAddr) [6]byte {
	var out [6]byte
	copy(out[:], mac)
	return out
}

func classifyDirection(d *layers.Dot11) frame.Direction {
	switch {
	case d.Flags.ToDS() && !d.Flags.FromDS():
		return frame.DirTX
	case d.Flags.FromDS() && !d.Flags.ToDS():
		return frame.DirRX
	default:
		return frame.DirUnknown
	}
}

func classifyBasicType(d *layers.Dot11) uint64 {
	switch d.Type.MainType() {
	case layers.Dot11TypeMgmt:
		if d.Type == layers.Dot11TypeMgmtBeacon {
			return devicetracker.BasicTypeAP
		}
		return devicetracker.BasicTypeClient
	case layers.Dot11TypeData:
		return devicetracker.BasicTypeClient
	default:
		return devicetracker.BasicTypeDevice
	}
}
