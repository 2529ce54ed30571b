package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sess := NewActiveSession("home", "/home/alice/.luksvault/mnt", "/mnt/vault", "vault1")
	require.NotEmpty(t, sess.ID)
	require.NoError(t, store.Save(sess))

	got, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "home", got.Profile)
	assert.Equal(t, "/home/alice/.luksvault/mnt", got.LocalDir)
	assert.Equal(t, "/mnt/vault", got.RemotePoint)
	assert.Equal(t, "vault1", got.Mapper)
	assert.WithinDuration(t, sess.MountedAt, got.MountedAt, time.Second)
}

func TestStoreLoadAbsent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStoreClear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(NewActiveSession("home", "/tmp/mnt", "/mnt/vault", "vault1")))
	require.NoError(t, store.Clear())

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Clearing twice is fine.
	assert.NoError(t, store.Clear())
}
