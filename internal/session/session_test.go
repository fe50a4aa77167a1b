package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileMeansLoggedOut(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.AccessToken())
}

func TestSetPairRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetPair("access-1", "refresh-1"))

	// A fresh Open sees the persisted pair.
	s2, err := Open(dir)
	require.NoError(t, err)
	assert.True(t, s2.LoggedIn())
	assert.Equal(t, "access-1", s2.AccessToken())
	assert.Equal(t, "refresh-1", s2.RefreshToken())
}

func TestTokenFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetPair("a", "r"))

	info, err := os.Stat(filepath.Join(dir, tokensFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetPair("a", "r"))
	require.NoError(t, s.Clear())

	assert.False(t, s.LoggedIn())
	_, statErr := os.Stat(filepath.Join(dir, tokensFile))
	assert.True(t, os.IsNotExist(statErr))

	// Clearing an already-clear store stays a no-op.
	assert.NoError(t, s.Clear())
}

func TestCorruptFileTreatedAsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokensFile), []byte("{broken"), 0o600))

	s, err := Open(dir)
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}

func TestInfoFromUnverifiedToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("any-key"))
	require.NoError(t, err)

	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SetPair(signed, "r"))

	info, ok := s.Info()
	require.True(t, ok)
	assert.Equal(t, "user-7", info.Subject)
	assert.WithinDuration(t, exp, info.ExpiresAt, time.Second)
}

func TestInfoOpaqueToken(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SetPair("not-a-jwt", "r"))

	_, ok := s.Info()
	assert.False(t, ok)
}
