package dot11

import (
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"

	"github.com/sensorcore/devicetracker/internal/devicetracker"
	"github.com/sensorcore/devicetracker/internal/frame"
)

func TestClassifyDirection(t *testing.T) {
	t.Parallel()

	toDS := &layers.Dot11{Flags: layers.Dot11Flags(0x01)}
	assert.Equal(t, frame.DirTX, classifyDirection(toDS))

	fromDS := &layers.Dot11{Flags: layers.Dot11Flags(0x02)}
	assert.Equal(t, frame.DirRX, classifyDirection(fromDS))

	neither := &layers.Dot11{Flags: layers.Dot11Flags(0x00)}
	assert.Equal(t, frame.DirUnknown, classifyDirection(neither))

	both := &layers.Dot11{Flags: layers.Dot11Flags(0x03)}
	assert.Equal(t, frame.DirUnknown, classifyDirection(both))
}

func TestClassifyBasicType(t *testing.T) {
	t.Parallel()

	beacon := &layers.Dot11{Type: layers.Dot11TypeMgmtBeacon}
	assert.Equal(t, devicetracker.BasicTypeAP, classifyBasicType(beacon))

	data := &layers.Dot11{Type: layers.Dot11TypeData}
	assert.Equal(t, devicetracker.BasicTypeClient, classifyBasicType(data))

	ctrl := &layers.Dot11{Type: layers.Dot11TypeCtrl}
	assert.Equal(t, devicetracker.BasicTypeDevice, classifyBasicType(ctrl))
}

func TestClassifyDeclinesEmptyRaw(t *testing.T) {
	t.Parallel()

	p := New()
	_, ok := p.Classify(&frame.Frame{Raw: nil})
	assert.False(t, ok)
}
