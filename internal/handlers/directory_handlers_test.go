package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/client"
	"cipherchat/internal/crypto"
	"cipherchat/internal/directory"
)

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := NewDirectoryHandlers(directory.NewMemoryStore())

	mux := http.NewServeMux()
	mux.HandleFunc("/signup", h.Signup)
	mux.HandleFunc("/keys/", h.LookupKey)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestSignupAndLookup(t *testing.T) {
	ts := newDirectoryServer(t)
	dir := client.NewDirectory(ts.URL)

	pub, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	require.NoError(t, dir.Signup("alice", pub))

	got, err := dir.LookupKey("alice")
	require.NoError(t, err)
	assert.Equal(t, pub, got)
}

func TestLookupMissIs404(t *testing.T) {
	ts := newDirectoryServer(t)
	dir := client.NewDirectory(ts.URL)

	_, err := dir.LookupKey("nobody")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestSignupOverwrites(t *testing.T) {
	ts := newDirectoryServer(t)
	dir := client.NewDirectory(ts.URL)

	first, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	second, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	require.NoError(t, dir.Signup("alice", first))
	require.NoError(t, dir.Signup("alice", second))

	got, err := dir.LookupKey("alice")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSignupRejectsBadRequests(t *testing.T) {
	ts := newDirectoryServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json at all"},
		{"missing userId", `{"publicKey":"QUJD"}`},
		{"bad key encoding", `{"userId":"alice","publicKey":"***"}`},
		{"wrong key length", `{"userId":"alice","publicKey":"QUJD"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/signup", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
