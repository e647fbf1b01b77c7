package record

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SectionsAreIndependent(t *testing.T) {
	other := towerSchema()
	other.Name = "litigations"
	reg, err := NewRegistry(towerSchema(), other)
	require.NoError(t, err)
	assert.Equal(t, []string{"buildings", "litigations"}, reg.Names())

	b, err := reg.Section("buildings")
	require.NoError(t, err)
	commit(t, b, map[string]string{"name": "A", "type": "Residential"})

	l, err := reg.Section("litigations")
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())

	snaps, err := reg.Snapshot("litigations", "buildings")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "litigations", snaps[0].Section)
	assert.Len(t, snaps[1].Records, 1)
}

func TestRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(towerSchema(), towerSchema())
	assert.ErrorContains(t, err, "duplicate section")

	_, err = NewRegistry(Schema{Name: "broken"})
	assert.Error(t, err)

	reg, err := NewRegistry(towerSchema())
	require.NoError(t, err)
	_, err = reg.Section("nope")
	assert.True(t, errors.Is(err, ErrUnknownSection))
	_, err = reg.Snapshot("nope")
	assert.True(t, errors.Is(err, ErrUnknownSection))
}
