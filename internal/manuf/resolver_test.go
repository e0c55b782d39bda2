package manuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensorcore/devicetracker/internal/element"
	"github.com/sensorcore/devicetracker/internal/manuf/migrations"
)

func TestResolverLookup(t *testing.T) {
	t.Parallel()

	db, err := Open(":memory:", migrations.FS)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert("00:11:22", "Example Corp"))

	mac, err := element.ParseMac("00:11:22:33:44:55")
	require.NoError(t, err)

	name, err := db.Lookup(mac)
	require.NoError(t, err)
	assert.Equal(t, "Example Corp", name)
}

func TestResolverLookupMiss(t *testing.T) {
	t.Parallel()

	db, err := Open(":memory:", migrations.FS)
	require.NoError(t, err)
	defer db.Close()

	mac, err := element.ParseMac("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	_, err = db.Lookup(mac)
	assert.Error(t, err)
}

func TestResolverInsertReplaces(t *testing.T) {
	t.Parallel()

	db, err := Open(":memory:", migrations.FS)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Insert("aa:bb:cc", "First"))
	require.NoError(t, db.Insert("aa:bb:cc", "Second"))

	mac, err := element.ParseMac("aa:bb:cc:00:00:00")
	require.NoError(t, err)

	name, err := db.Lookup(mac)
	require.NoError(t, err)
	assert.Equal(t, "Second", name)
}
