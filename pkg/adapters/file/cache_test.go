package file_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/file"
)

func TestFileCache_RoundTrip(t *testing.T) {
	c := file.New(t.TempDir())

	_, ok, err := c.GetItem("property:u:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetItem("property:u:d1", []byte(`{"draftId":"d1"}`)))

	v, ok, err := c.GetItem("property:u:d1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"draftId":"d1"}`, string(v))

	// Overwrite wins.
	require.NoError(t, c.SetItem("property:u:d1", []byte(`{"draftId":"d1","v":2}`)))
	v, _, _ = c.GetItem("property:u:d1")
	assert.Contains(t, string(v), `"v":2`)

	require.NoError(t, c.RemoveItem("property:u:d1"))
	_, ok, _ = c.GetItem("property:u:d1")
	assert.False(t, ok)

	// Removing again stays quiet.
	assert.NoError(t, c.RemoveItem("property:u:d1"))
}

func TestFileCache_KeysPrefix(t *testing.T) {
	c := file.New(t.TempDir())

	require.NoError(t, c.SetItem("land:u1:a", []byte("1")))
	require.NoError(t, c.SetItem("land:u1:b", []byte("2")))
	require.NoError(t, c.SetItem("land:u2:c", []byte("3")))

	keys, err := c.Keys("land:u1:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"land:u1:a", "land:u1:b"}, keys)
}

func TestFileCache_EmptyDir(t *testing.T) {
	c := file.New(t.TempDir() + "/nonexistent")
	keys, err := c.Keys("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
