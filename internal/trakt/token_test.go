package trakt

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/trakt-mcp/internal/sanitize"
)

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "auth_token.json")
	store, err := NewTokenStore(path)
	require.NoError(t, err)

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok, "missing file is not an error")

	want := &Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    7200,
		CreatedAt:    1700000000,
		Scope:        "public",
		TokenType:    "bearer",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing twice is fine")
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth_token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := NewTokenStore(path)
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorContains(t, err, "parsing token file")
}

func TestNewTokenStoreRejectsTraversal(t *testing.T) {
	_, err := NewTokenStore("../auth_token.json")
	assert.ErrorIs(t, err, sanitize.ErrPathTraversal)

	_, err = NewTokenStore("")
	assert.ErrorIs(t, err, sanitize.ErrEmptyPath)
}

func TestTokenValidity(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := &Token{AccessToken: "a", CreatedAt: created.Unix(), ExpiresIn: 3600, TokenType: "bearer", RefreshToken: "r"}

	assert.Equal(t, created.Add(time.Hour), tok.Expiry().UTC())
	assert.True(t, tok.Valid(created.Add(59*time.Minute)))
	assert.False(t, tok.Valid(created.Add(time.Hour)))
	assert.False(t, (&Token{CreatedAt: created.Unix(), ExpiresIn: 3600}).Valid(created), "empty access token")
	assert.False(t, (*Token)(nil).Valid(created))

	o := tok.OAuth2()
	assert.Equal(t, "a", o.AccessToken)
	assert.Equal(t, "r", o.RefreshToken)
	assert.Equal(t, "bearer", o.TokenType)
	assert.True(t, o.Expiry.Equal(tok.Expiry()))
}
