package globalreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterNameIsIdempotent(t *testing.T) {
	t.Parallel()

	r := New()
	a := r.RegisterName("packetchain")
	b := r.RegisterName("packetchain")
	assert.Equal(t, a, b)
}

func TestInsertAndFetch(t *testing.T) {
	t.Parallel()

	r := New()
	r.Insert("manufdb", 42)

	v, err := r.Fetch("manufdb")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestFetchUnknownName(t *testing.T) {
	t.Parallel()

	r := New()
	_, err := r.Fetch("nope")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	r := New()
	r.Insert("alertracker", "x")
	r.Remove("alertracker")

	_, err := r.Fetch("alertracker")
	assert.Error(t, err)
}

type recordingLifetime struct {
	name string
	log  *[]string
}

func (l *recordingLifetime) Shutdown() { *l.log = append(*l.log, l.name) }

func TestShutdownReversesInsertionOrder(t *testing.T) {
	t.Parallel()

	r := New()
	var log []string
	r.RegisterLifetime(&recordingLifetime{name: "first", log: &log})
	r.RegisterLifetime(&recordingLifetime{name: "second", log: &log})
	r.RegisterLifetime(&recordingLifetime{name: "third", log: &log})

	r.Shutdown()

	assert.Equal(t, []string{"third", "second", "first"}, log)
}

func TestRemoveLifetimeSkipsShutdown(t *testing.T) {
	t.Parallel()

	r := New()
	var log []string
	l := &recordingLifetime{name: "only", log: &log}
	r.RegisterLifetime(l)
	r.RemoveLifetime(l)

	r.Shutdown()
	assert.Empty(t, log)
}
