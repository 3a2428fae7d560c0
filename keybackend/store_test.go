package keybackend_test

import (
	"testing"

	"github.com/sagarc03/camupload/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialStore_ConfiguredPairOnly(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{
		Username: "axis",
		Password: "hunter2",
	})
	require.NoError(t, err)

	pw, err := store.Lookup("axis")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
	assert.Equal(t, 1, store.Len())
}

func TestNewCredentialStore_FileOnly(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, `[
		{"username": "cam1", "password": "pw1"},
		{"username": "cam2", "password": "pw2"}
	]`)

	store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{File: path})
	require.NoError(t, err)

	pw, err := store.Lookup("cam2")
	require.NoError(t, err)
	assert.Equal(t, "pw2", pw)
	assert.Equal(t, 2, store.Len())
}

func TestNewCredentialStore_ConfiguredPairOverridesFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, `[
		{"username": "axis", "password": "from-file"},
		{"username": "cam2", "password": "pw2"}
	]`)

	store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{
		Username: "axis",
		Password: "from-config",
		File:     path,
	})
	require.NoError(t, err)

	pw, err := store.Lookup("axis")
	require.NoError(t, err)
	assert.Equal(t, "from-config", pw)

	pw, err = store.Lookup("cam2")
	require.NoError(t, err)
	assert.Equal(t, "pw2", pw)
}

func TestNewCredentialStore_IncompletePairIgnored(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{Username: "axis"})
	require.NoError(t, err)

	_, err = store.Lookup("axis")
	assert.ErrorIs(t, err, keybackend.ErrUserNotFound)
}

func TestNewCredentialStore_FileError(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewCredentialStore(keybackend.CredentialsConfig{File: "/nonexistent/users.json"})
	assert.Error(t, err)
	assert.Nil(t, store)
}
