package devicetracker

import (
	"github.com/google/uuid"

	"github.com/sensorcore/devicetracker/internal/frame"
)

// updateCommon is the Common Enrichment Pipeline of spec §4.4: given a
// device, a classified frame, a PHY's common-info, and an update-flag
// bitset, it applies each flag's effect in the table's fixed order. The
// find-or-create step happens in the caller (Registry.UpdateCommon), which
// holds the Device Registry lock while calling this.
func updateCommon(d *Device, fr *frame.Frame, info frame.CommonInfo, source uuid.UUID, flags UpdateFlag) {
	d.LastTime = fr.Timestamp

	// basic_type_set is OR-merged every frame, never cleared (spec §4.4).
	d.BasicTypeSet |= info.BasicTypeSet

	// A PHY plugin's sub-tree is merged in under its own field id every
	// frame that carries one, independent of the flag table (spec §4.4's
	// "Return": "PHY-specific plugins then attach their own sub-tree ...
	// under their own field id inside the device").
	if info.HasExtra {
		d.Extra[info.ExtraID] = info.Extra
	}

	if flags.Has(FlagSignal) {
		d.SignalData.MergeSignal(fr.SignalDBM, fr.HasSignal, fr.NoiseDBM, fr.HasNoise, d.Location)
	}

	if flags.Has(FlagFrequencies) {
		if info.Frequency != 0 {
			d.freqKhz[info.Frequency]++
			d.Frequency = info.Frequency
		}
		if info.Channel != "" {
			d.Channel = info.Channel
		}
	}

	if flags.Has(FlagPackets) {
		d.Packets++
		switch info.Direction {
		case frame.DirRX:
			d.RxPackets++
		case frame.DirTX:
			d.TxPackets++
		}
		switch fr.Kind {
		case frame.KindLLC:
			d.LlcPackets++
		case frame.KindData:
			d.DataPackets++
		case frame.KindError:
			d.ErrorPackets++
		}
		d.DataSize += uint64(fr.LengthBytes)

		d.PacketsRRD.AddSample(fr.Timestamp, 1)
		if fr.Kind == frame.KindData {
			d.DataRRD.AddSample(fr.Timestamp, uint64(fr.LengthBytes))
		}
		d.packetRRDBin(fr.LengthBytes).AddSample(fr.Timestamp, 1)
	}

	if flags.Has(FlagLocation) && fr.GPS != nil {
		d.Location.MergeFix(*fr.GPS)
	}

	if flags.Has(FlagSeenBy) {
		rec := d.seenByEntry(source, fr.Timestamp)
		rec.Update(fr.Timestamp, info.Frequency)
	}

	if flags.Has(FlagEncryption) {
		d.BasicCryptSet |= info.BasicCryptSet
		if info.BasicCryptSet&BasicCryptEncrypted != 0 {
			d.CryptPackets++
		}
	}
}
