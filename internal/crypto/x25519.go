package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/curve25519"
)

type (
	PublicKey  [32]byte
	PrivateKey [32]byte
)

// GenerateKeyPair returns a fresh X25519 key pair. The private scalar is
// clamped per RFC 7748.
func GenerateKeyPair() (PublicKey, PrivateKey, error) {
	var priv PrivateKey
	if _, err := rand.Read(priv[:]); err != nil {
		return PublicKey{}, PrivateKey{}, fmt.Errorf("failed to generate private key: %w", err)
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return PublicKey{}, PrivateKey{}, err
	}
	var out PublicKey
	copy(out[:], pub)
	return out, priv, nil
}

// DeriveSharedKey computes the X25519 shared secret between our private key
// and the peer's public key, then hashes it with SHA-256 to produce the
// symmetric key. Both sides reach the same key without it ever crossing the
// wire. Low-order peer points yield an all-zero secret and are rejected.
func DeriveSharedKey(peer PublicKey, own PrivateKey) (Key, error) {
	secret, err := curve25519.X25519(own[:], peer[:])
	if err != nil {
		return Key{}, fmt.Errorf("key exchange failed: %w", err)
	}
	return Key(sha256.Sum256(secret)), nil
}
