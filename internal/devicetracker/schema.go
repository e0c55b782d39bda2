package devicetracker

import "github.com/sensorcore/devicetracker/internal/element"

// Schema is the process-lifetime field registry backing the device record
// (spec §4.1's tracked-element model). Every named field of spec §3.2 is
// registered here at package init, so a field id is assignable to every
// node internal/serialize emits and every complex sub-record newDevice
// hydrates is a genuine registry clone, not a bare struct literal.
var Schema = element.NewRegistry()

// The scalar fields below are never read back by id from this package: they
// exist so Schema.ID("name") (used by internal/serialize to stamp a field
// id onto every emitted node) has an entry for each of spec §3.2's fields.
var (
	_ = Schema.MustRegisterField("key", element.KindUint64, "device key")
	_ = Schema.MustRegisterField("macaddr", element.KindMac, "hardware address")
	_ = Schema.MustRegisterField("phyname", element.KindString, "owning PHY name")
	_ = Schema.MustRegisterField("devicename", element.KindString, "display name")
	_ = Schema.MustRegisterField("username", element.KindString, "user-assigned name")
	_ = Schema.MustRegisterField("type_string", element.KindString, "classification string")
	_ = Schema.MustRegisterField("crypt_string", element.KindString, "crypto summary string")
	_ = Schema.MustRegisterField("manuf", element.KindString, "OUI manufacturer lookup")
	_ = Schema.MustRegisterField("basic_type_set", element.KindUint64, "basic type bitset")
	_ = Schema.MustRegisterField("basic_crypt_set", element.KindUint64, "basic crypto bitset")
	_ = Schema.MustRegisterField("first_time", element.KindInt64, "first-seen timestamp")
	_ = Schema.MustRegisterField("last_time", element.KindInt64, "last-seen timestamp")
	_ = Schema.MustRegisterField("packets", element.KindUint64, "total packet count")
	_ = Schema.MustRegisterField("rx_packets", element.KindUint64, "received packet count")
	_ = Schema.MustRegisterField("tx_packets", element.KindUint64, "transmitted packet count")
	_ = Schema.MustRegisterField("llc_packets", element.KindUint64, "LLC packet count")
	_ = Schema.MustRegisterField("error_packets", element.KindUint64, "error packet count")
	_ = Schema.MustRegisterField("data_packets", element.KindUint64, "data packet count")
	_ = Schema.MustRegisterField("crypt_packets", element.KindUint64, "encrypted packet count")
	_ = Schema.MustRegisterField("filter_packets", element.KindUint64, "filtered packet count")
	_ = Schema.MustRegisterField("datasize", element.KindUint64, "total data bytes")
	_ = Schema.MustRegisterField("channel", element.KindString, "last channel observed")
	_ = Schema.MustRegisterField("frequency", element.KindFloat64, "last frequency observed, kHz")
	_ = Schema.MustRegisterField("alert", element.KindUint64, "alert bitset")
	_ = Schema.MustRegisterField("freq_khz_map", element.KindDoubleMap, "per-frequency packet histogram")
	_ = Schema.MustRegisterField("seenby_map", element.KindMap, "per-source witness records")
)

// The complex fields below back real sub-records: newDevice clones a fresh
// instance of each from Schema instead of building a literal.
var (
	fieldSignalData   = Schema.MustRegisterComplex("signal_data", NewSignalData(0), "signal/noise envelope")
	fieldLocation     = Schema.MustRegisterComplex("location", NewLocation(0), "location envelope")
	fieldTag          = Schema.MustRegisterComplex("tag", NewTag(0), "user tag")
	fieldSeenByRecord = Schema.MustRegisterComplex("seenby_record", NewSeenByRecord(0), "one seenby_map entry")

	fieldPacketsRRD        = Schema.MustRegisterComplex("packets_rrd", element.NewPerSecondRRD(0, "packets_rrd"), "packet-rate RRD")
	fieldDataRRD           = Schema.MustRegisterComplex("data_rrd", element.NewPerSecondRRD(0, "data_rrd"), "data-rate RRD")
	fieldPacketRRDBin250   = Schema.MustRegisterComplex("packet_rrd_bin_250", element.NewMinuteRRD(0, "packet_rrd_bin_250"), "packet-size histogram, <=250B")
	fieldPacketRRDBin500   = Schema.MustRegisterComplex("packet_rrd_bin_500", element.NewMinuteRRD(0, "packet_rrd_bin_500"), "packet-size histogram, <=500B")
	fieldPacketRRDBin1000  = Schema.MustRegisterComplex("packet_rrd_bin_1000", element.NewMinuteRRD(0, "packet_rrd_bin_1000"), "packet-size histogram, <=1000B")
	fieldPacketRRDBin1500  = Schema.MustRegisterComplex("packet_rrd_bin_1500", element.NewMinuteRRD(0, "packet_rrd_bin_1500"), "packet-size histogram, <=1500B")
	fieldPacketRRDBinJumbo = Schema.MustRegisterComplex("packet_rrd_bin_jumbo", element.NewMinuteRRD(0, "packet_rrd_bin_jumbo"), "packet-size histogram, jumbo")
)

// mustGetInstance clones a registered field's defaulted instance and asserts
// it to its concrete Go type. A failure here means the schema above and the
// construction code below have drifted, a programming error worth a panic
// rather than threading an error return through every device constructor.
func mustGetInstance[T element.Node](id element.FieldID) T {
	n, err := Schema.GetInstance(id)
	if err != nil {
		panic(err)
	}
	return n.(T)
}
