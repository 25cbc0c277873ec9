package client

import (
	"fmt"

	"cipherchat/internal/crypto"
)

// PasswordKey derives key material from the shared room password. No
// directory round trip is needed; the password itself is the out-of-band
// shared secret.
func PasswordKey(password string) crypto.KeyMaterial {
	return crypto.KeyMaterial{
		Key:  crypto.DeriveKey(password),
		Mode: crypto.ModePasswordDerived,
	}
}

// ExchangeKey fetches the peer's published public key from the directory and
// runs the X25519 exchange against our private key. The resulting symmetric
// key never crosses the wire.
func ExchangeKey(dir *Directory, peerLabel string, own crypto.PrivateKey) (crypto.KeyMaterial, error) {
	peerPub, err := dir.LookupKey(peerLabel)
	if err != nil {
		return crypto.KeyMaterial{}, fmt.Errorf("cannot establish key with %s: %w", peerLabel, err)
	}
	key, err := crypto.DeriveSharedKey(peerPub, own)
	if err != nil {
		return crypto.KeyMaterial{}, err
	}
	return crypto.KeyMaterial{Key: key, Mode: crypto.ModeExchangeDerived}, nil
}
