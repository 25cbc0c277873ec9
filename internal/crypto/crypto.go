package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the length of a symmetric key in bytes.
	KeySize = 32

	// NonceSize is the XSalsa20-Poly1305 nonce length in bytes.
	NonceSize = 24
)

// ErrDecryptionFailed means the authentication tag did not verify. The usual
// cause is a key mismatch between the two ends, but a corrupted or tampered
// ciphertext is indistinguishable from that here.
var ErrDecryptionFailed = errors.New("decryption failed: authentication check failed")

// Key is a 32-byte symmetric key. The relay never holds one; keys exist only
// on the client side of a conversation.
type Key [KeySize]byte

// Mode records how a Key was established.
type Mode string

const (
	// ModePasswordDerived: both ends hashed the same room password.
	ModePasswordDerived Mode = "password"

	// ModeExchangeDerived: both ends ran an X25519 exchange.
	ModeExchangeDerived Mode = "exchange"
)

// KeyMaterial pairs a Key with the mode that produced it, so callers that
// seal and open envelopes stay agnostic to how the key came to be.
type KeyMaterial struct {
	Key  Key
	Mode Mode
}

// DeriveKey derives a symmetric key from a shared room password by hashing
// its UTF-8 bytes with SHA-256. The derivation is deterministic, so the same
// password on both ends yields the same key. The password carries all the
// entropy; a weak password gives a weak key.
func DeriveKey(password string) Key {
	return Key(sha256.Sum256([]byte(password)))
}

// Seal encrypts plaintext with XSalsa20-Poly1305 under key, using a fresh
// random 24-byte nonce. The nonce must be sent alongside the ciphertext.
func Seal(plaintext []byte, key Key) (nonce [NonceSize]byte, ciphertext []byte, err error) {
	if _, err = rand.Read(nonce[:]); err != nil {
		return nonce, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	k := [KeySize]byte(key)
	ciphertext = secretbox.Seal(nil, plaintext, &nonce, &k)
	return nonce, ciphertext, nil
}

// Open authenticates and decrypts a sealed message. It returns
// ErrDecryptionFailed if the tag does not verify; it never returns a
// silently wrong plaintext.
func Open(nonce [NonceSize]byte, ciphertext []byte, key Key) ([]byte, error) {
	k := [KeySize]byte(key)
	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, &k)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
