package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherchat/internal/crypto"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:4000", want: "ws://localhost:4000/ws"},
		{in: "https://relay.example.com", want: "wss://relay.example.com/ws"},
		{in: "ws://localhost:4000", want: "ws://localhost:4000/ws"},
		{in: "ftp://localhost", wantErr: true},
	}
	for _, tt := range tests {
		got, err := WebsocketURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestIdentityRoundTrip(t *testing.T) {
	dir := t.TempDir()

	id, err := NewIdentity("alice")
	require.NoError(t, err)
	require.NoError(t, SaveIdentity(dir, id))

	loaded, err := LoadIdentity(dir)
	require.NoError(t, err)
	assert.Equal(t, id.UserLabel, loaded.UserLabel)
	assert.Equal(t, id.PublicKey, loaded.PublicKey)

	pub, err := loaded.Public()
	require.NoError(t, err)
	priv, err := loaded.Private()
	require.NoError(t, err)

	// The stored pair must still be a matching X25519 pair.
	otherPub, otherPriv, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	k1, err := crypto.DeriveSharedKey(otherPub, priv)
	require.NoError(t, err)
	k2, err := crypto.DeriveSharedKey(pub, otherPriv)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestLoadIdentityMissing(t *testing.T) {
	_, err := LoadIdentity(t.TempDir())
	assert.Error(t, err)
}

func TestPasswordKeyMode(t *testing.T) {
	km := PasswordKey("hunter2")
	assert.Equal(t, crypto.ModePasswordDerived, km.Mode)
	assert.Equal(t, crypto.DeriveKey("hunter2"), km.Key)
}
