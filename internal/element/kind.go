// Package element implements the tracked-element model of spec §4.1: a
// typed, named, registerable field tree with per-node identity, used as the
// self-describing backing store for every device record and the structures
// that hang off it (signal envelopes, locations, RRDs, seen-by records).
//
// The model trades the original's runtime reflection (every node boxed
// behind a common SharedTrackerElement, downcast at access time) for Go's
// static typing: concrete records declare concrete-typed fields, and the
// generic machinery here is limited to what actually needs to be
// polymorphic at runtime — container traversal and serialization.
package element

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the wire/type variant of a tracked element, per spec §3.1.
type Kind int

const (
	KindInt8 Kind = iota
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindMac
	KindUUID
	KindBytes

	KindMap       // ordered string -> node, insertion order
	KindIntMap    // int64 -> node, ascending key order
	KindMacMap    // Mac -> node, ascending key order
	KindDoubleMap // float64 -> node, ascending key order
	KindSlice     // ordered sequence
	KindSet       // ordered-unique sequence

	KindComplex // user-defined record composed of named children
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindUint8:
		return "uint8"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindMac:
		return "mac"
	case KindUUID:
		return "uuid"
	case KindBytes:
		return "bytes"
	case KindMap:
		return "map"
	case KindIntMap:
		return "intmap"
	case KindMacMap:
		return "macmap"
	case KindDoubleMap:
		return "doublemap"
	case KindSlice:
		return "slice"
	case KindSet:
		return "set"
	case KindComplex:
		return "complex"
	default:
		return "unknown"
	}
}

// Mac is a 48-bit hardware address in big-endian byte order, the numeric
// form used by device keys (spec §6.1).
type Mac uint64

// ParseMac parses a colon-separated hex MAC string ("00:11:22:33:44:55").
func ParseMac(s string) (Mac, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return 0, fmt.Errorf("element: invalid mac %q: want 6 octets", s)
	}
	var buf [8]byte
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return 0, fmt.Errorf("element: invalid mac %q: %w", s, err)
		}
		buf[2+i] = byte(v)
	}
	return Mac(binary.BigEndian.Uint64(buf[:])), nil
}

// MacFromBytes builds a Mac from 6 octets in network order.
func MacFromBytes(octets [6]byte) Mac {
	var buf [8]byte
	copy(buf[2:], octets[:])
	return Mac(binary.BigEndian.Uint64(buf[:]))
}

// String renders the canonical colon-separated form.
func (m Mac) String() string {
	b := [6]byte{
		byte(m >> 40), byte(m >> 32), byte(m >> 24),
		byte(m >> 16), byte(m >> 8), byte(m),
	}
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
}

// AsUint64 returns the numeric form used in device keys.
func (m Mac) AsUint64() uint64 { return uint64(m) }
