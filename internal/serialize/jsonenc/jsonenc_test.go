package jsonenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/serialize"
)

func TestEncodeScalarLeaf(t *testing.T) {
	t.Parallel()

	out, err := Encode(serialize.Node{Name: "key", Value: uint64(42)})
	require.NoError(t, err)
	assert.JSONEq(t, `42`, string(out))
}

func TestEncodePreservesChildOrder(t *testing.T) {
	t.Parallel()

	n := serialize.Node{Name: "device", Children: []serialize.Node{
		{Name: "zebra", Value: 1},
		{Name: "apple", Value: 2},
		{Name: "mango", Value: 3},
	}}

	out, err := Encode(n)
	require.NoError(t, err)

	// encoding/json would alphabetize a map; assert the literal byte
	// sequence preserves declaration order instead.
	assert.Equal(t, `{"zebra":1,"apple":2,"mango":3}`, string(out))
}

func TestEncodeNestedChildren(t *testing.T) {
	t.Parallel()

	n := serialize.Node{Name: "device", Children: []serialize.Node{
		{Name: "signal_data", Children: []serialize.Node{
			{Name: "last_signal", Value: int32(-50)},
			{Name: "last_noise", Value: int32(-95)},
		}},
	}}

	out, err := Encode(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"signal_data":{"last_signal":-50,"last_noise":-95}}`, string(out))
}

func TestEncodeStringAndBoolLeaves(t *testing.T) {
	t.Parallel()

	n := serialize.Node{Name: "device", Children: []serialize.Node{
		{Name: "phyname", Value: "IEEE802.11"},
		{Name: "last_valid", Value: true},
	}}

	out, err := Encode(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phyname":"IEEE802.11","last_valid":true}`, string(out))
}
