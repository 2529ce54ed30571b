package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "profiles.ini"))
}

func sampleProfile(name string) Profile {
	return Profile{
		Name:       name,
		Hostname:   "192.168.1.50",
		Port:       "22",
		Username:   "bob",
		Password:   "s3cret",
		Device:     "/dev/sda3",
		Mapper:     "encrypted_vault",
		MountPoint: "/mnt/encrypted",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(sampleProfile("nas")))

	got, err := store.Get("nas")
	require.NoError(t, err)
	assert.Equal(t, sampleProfile("nas"), got)
}

func TestStoreLoadAll(t *testing.T) {
	t.Run("absent file yields no profiles", func(t *testing.T) {
		store := tempStore(t)
		profiles, err := store.LoadAll()
		require.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("returns every saved section", func(t *testing.T) {
		store := tempStore(t)
		require.NoError(t, store.Save(sampleProfile("nas")))
		require.NoError(t, store.Save(sampleProfile("office")))

		profiles, err := store.LoadAll()
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("overwrites same name and preserves others", func(t *testing.T) {
		store := tempStore(t)
		require.NoError(t, store.Save(sampleProfile("nas")))
		require.NoError(t, store.Save(sampleProfile("office")))

		updated := sampleProfile("nas")
		updated.Hostname = "10.0.0.9"
		require.NoError(t, store.Save(updated))

		got, err := store.Get("nas")
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.9", got.Hostname)

		other, err := store.Get("office")
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.50", other.Hostname)
	})

	t.Run("rejects incomplete profiles", func(t *testing.T) {
		store := tempStore(t)
		p := sampleProfile("nas")
		p.Password = ""
		assert.Error(t, store.Save(p))
	})

	t.Run("keeps the store private to the owner", func(t *testing.T) {
		store := tempStore(t)
		require.NoError(t, store.Save(sampleProfile("nas")))

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

func TestStoreDelete(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(sampleProfile("nas")))
	require.NoError(t, store.Save(sampleProfile("office")))

	require.NoError(t, store.Delete("nas"))

	_, err := store.Get("nas")
	assert.Error(t, err)

	_, err = store.Get("office")
	assert.NoError(t, err)

	// Deleting an unknown profile is a no-op.
	assert.NoError(t, store.Delete("ghost"))
}

func TestStoreGetUnknown(t *testing.T) {
	store := tempStore(t)
	_, err := store.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}
