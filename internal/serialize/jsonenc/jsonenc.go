// Package jsonenc renders a serialize.Node tree to JSON, preserving
// container order (spec §6.7) by emitting an ordered object instead of
// relying on encoding/json's map-key sort.
package jsonenc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sensorcore/devicetracker/internal/serialize"
)

// Encode renders n as a JSON object. Scalar leaves become JSON values;
// nodes with children become nested objects, in traversal order.
func Encode(n serialize.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n serialize.Node) error {
	if len(n.Children) == 0 {
		return encodeValue(buf, n.Value)
	}

	buf.WriteByte('{')
	for i, child := range n.Children {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(child.Name)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := encodeNode(buf, child); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("jsonenc: encode value: %w", err)
	}
	buf.Write(raw)
	return nil
}
