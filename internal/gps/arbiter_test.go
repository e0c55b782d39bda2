package gps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/frame"
)

func buildStaticBuilder(fix frame.GPSFix) Builder {
	return func(name string, opts map[string]string) (Provider, error) {
		fix.Provider = name
		return NewVirtualProvider(name, fix), nil
	}
}

// invalidProvider never produces a valid fix, for exercising Best's skip path.
type invalidProvider struct{ name string }

func (p invalidProvider) Poll(ctx context.Context) frame.GPSFix { return frame.GPSFix{Provider: p.name} }
func (p invalidProvider) Name() string                          { return p.name }
func (p invalidProvider) Close() error                          { return nil }

func NewVirtualProviderInvalid(name string) Provider { return invalidProvider{name: name} }

func TestArbiterBestPicksHighestPriorityValidFix(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("low", 1, buildStaticBuilder(frame.GPSFix{Lat: 1, Lon: 1, FixType: 3, Valid: true}))
	a.RegisterPrototype("high", 10, buildStaticBuilder(frame.GPSFix{Lat: 2, Lon: 2, FixType: 3, Valid: true}))

	_, err := a.Create("low:")
	require.NoError(t, err)
	_, err = a.Create("high:")
	require.NoError(t, err)

	fix, ok := a.Best(context.Background())
	require.True(t, ok)
	assert.Equal(t, 2.0, fix.Lat)
}

func TestArbiterBestSkipsInvalidFixes(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("invalid-high", 10, func(name string, opts map[string]string) (Provider, error) {
		return NewVirtualProviderInvalid(name), nil
	})
	a.RegisterPrototype("valid-low", 1, buildStaticBuilder(frame.GPSFix{Lat: 5, Lon: 5, FixType: 2, Valid: true}))

	_, err := a.Create("invalid-high:")
	require.NoError(t, err)
	_, err = a.Create("valid-low:")
	require.NoError(t, err)

	fix, ok := a.Best(context.Background())
	require.True(t, ok)
	assert.Equal(t, 5.0, fix.Lat)
}

func TestArbiterTiesPreserveInsertionOrder(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("first", 5, buildStaticBuilder(frame.GPSFix{Lat: 1, FixType: 3, Valid: true}))
	a.RegisterPrototype("second", 5, buildStaticBuilder(frame.GPSFix{Lat: 2, FixType: 3, Valid: true}))

	_, err := a.Create("first:")
	require.NoError(t, err)
	_, err = a.Create("second:")
	require.NoError(t, err)

	fix, ok := a.Best(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1.0, fix.Lat, "equal-priority providers resolve ties by registration order")
}

func TestArbiterCreateUnknownDriver(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	_, err := a.Create("nonexistent:opt=1")
	assert.Error(t, err)
}

func TestArbiterCreateMalformedConfig(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("virtual", 1, VirtualBuilder)
	_, err := a.Create("virtual:badoption")
	assert.Error(t, err)
}

func TestArbiterRemove(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("virtual", 1, VirtualBuilder)
	id, err := a.Create("virtual:lat=1,lon=2")
	require.NoError(t, err)

	require.NoError(t, a.Remove(id))
	_, ok := a.Best(context.Background())
	assert.False(t, ok)

	err = a.Remove(id)
	assert.Error(t, err)
}

func TestArbiterAttachDoesNotOverwriteExistingFix(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("virtual", 1, VirtualBuilder)
	_, err := a.Create("virtual:lat=9,lon=9")
	require.NoError(t, err)

	existing := &frame.GPSFix{Lat: 42, Valid: true}
	fr := &frame.Frame{GPS: existing}
	a.Attach(context.Background(), fr)

	assert.Same(t, existing, fr.GPS)
}

func TestArbiterAttachFillsMissingFix(t *testing.T) {
	t.Parallel()

	a := NewArbiter()
	a.RegisterPrototype("virtual", 1, VirtualBuilder)
	_, err := a.Create("virtual:lat=9,lon=9")
	require.NoError(t, err)

	fr := &frame.Frame{}
	a.Attach(context.Background(), fr)

	require.NotNil(t, fr.GPS)
	assert.Equal(t, 9.0, fr.GPS.Lat)
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	t.Run("driver only", func(t *testing.T) {
		t.Parallel()
		driver, opts, err := parseConfig("virtual:")
		require.NoError(t, err)
		assert.Equal(t, "virtual", driver)
		assert.Empty(t, opts)
	})

	t.Run("driver with options", func(t *testing.T) {
		t.Parallel()
		driver, opts, err := parseConfig("serial:port=/dev/ttyUSB0,baud=4800")
		require.NoError(t, err)
		assert.Equal(t, "serial", driver)
		assert.Equal(t, "/dev/ttyUSB0", opts["port"])
		assert.Equal(t, "4800", opts["baud"])
	})

	t.Run("missing driver", func(t *testing.T) {
		t.Parallel()
		_, _, err := parseConfig(":port=1")
		assert.Error(t, err)
	})

	t.Run("malformed option", func(t *testing.T) {
		t.Parallel()
		_, _, err := parseConfig("serial:portonly")
		assert.Error(t, err)
	})
}
