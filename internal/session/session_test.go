package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := New(path)
	assert.False(t, s.HasSession())

	user := json.RawMessage(`{"id":"u1","name":"Sam","role":"CITIZEN"}`)
	require.NoError(t, s.Save("tok-123", user))

	assert.Equal(t, "tok-123", s.Token())
	assert.JSONEq(t, string(user), string(s.User()))
	assert.True(t, s.HasSession())

	// A fresh store on the same path restores the session without network
	restored := New(path)
	assert.Equal(t, "tok-123", restored.Token())
	assert.JSONEq(t, string(user), string(restored.User()))
}

func TestClearIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := New(path)
	require.NoError(t, s.Save("tok-123", json.RawMessage(`{"id":"u1"}`)))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.False(t, s.HasSession())

	// Clearing again must not fail
	require.NoError(t, s.Clear())
}

func TestCorruptFileMeansNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := New(path)
	require.NoError(t, s.Save("tok-123", json.RawMessage(`{"id":"u1"}`)))

	// Corrupt the file behind the store's back
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	restored := New(path)
	assert.False(t, restored.HasSession())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"userId": "u1", "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenExpired(t *testing.T) {
	assert.False(t, TokenExpired(signedToken(t, time.Now().Add(time.Hour))))
	assert.True(t, TokenExpired(signedToken(t, time.Now().Add(-time.Hour))))
	assert.True(t, TokenExpired("not-a-jwt"))
}

func TestTokenWithoutExpIsValid(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	assert.False(t, TokenExpired(signed))
}
