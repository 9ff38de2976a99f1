package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStorePutGetDelete(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	id, err := store.Put([]byte{0x89, 0x50, 0x4e, 0x47}, "kelas-n5.png", "image/png")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	data, contentType, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, store.Delete(id))
	_, _, err = store.Get(id)
	require.Error(t, err)

	// deleting twice is a no-op
	require.NoError(t, store.Delete(id))
}

func TestImageStoreGetMissing(t *testing.T) {
	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get("does-not-exist.png")
	require.Error(t, err)
}
