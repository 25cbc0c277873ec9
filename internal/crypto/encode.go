package crypto

import (
	"encoding/base64"
	"fmt"
)

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// UnB64 decodes standard base64.
func UnB64(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// ParsePublicKey decodes a base64 public key as used at the directory
// boundary.
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := UnB64(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid public key encoding: %w", err)
	}
	if len(b) != len(PublicKey{}) {
		return PublicKey{}, fmt.Errorf("invalid public key length %d", len(b))
	}
	var pub PublicKey
	copy(pub[:], b)
	return pub, nil
}

// ParseNonce decodes a base64 nonce from an envelope.
func ParseNonce(s string) ([NonceSize]byte, error) {
	var nonce [NonceSize]byte
	b, err := UnB64(s)
	if err != nil {
		return nonce, fmt.Errorf("invalid nonce encoding: %w", err)
	}
	if len(b) != NonceSize {
		return nonce, fmt.Errorf("invalid nonce length %d", len(b))
	}
	copy(nonce[:], b)
	return nonce, nil
}
