// Package protoenc renders a serialize.Node tree into a
// google.protobuf.Struct, for callers that want a protobuf-native
// envelope rather than JSON bytes.
//
// google.protobuf.Struct backs its fields with a map, so it cannot itself
// preserve traversal order on the wire — a limitation of the Struct type,
// not of this encoder. Callers needing order-preserving protobuf output
// should define a dedicated message type instead of Struct.
package protoenc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/sensorcore/devicetracker/internal/serialize"
)

// Encode renders n as a *structpb.Struct.
func Encode(n serialize.Node) (*structpb.Struct, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("protoenc: root node %q has no children to form a struct", n.Name)
	}

	fields := make(map[string]*structpb.Value, len(n.Children))
	for _, child := range n.Children {
		v, err := encodeValue(child)
		if err != nil {
			return nil, err
		}
		fields[child.Name] = v
	}
	return &structpb.Struct{Fields: fields}, nil
}

func encodeValue(n serialize.Node) (*structpb.Value, error) {
	if len(n.Children) > 0 {
		sub, err := Encode(n)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(sub), nil
	}
	return structpb.NewValue(normalizeScalar(n.Value))
}

// normalizeScalar coerces integer kinds structpb.NewValue doesn't accept
// natively (it only understands float64, string, bool, nil, []any, map,
// and *structpb types) into float64, matching JSON's own number model.
func normalizeScalar(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case []uint64:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = float64(e)
		}
		return out
	default:
		return v
	}
}
