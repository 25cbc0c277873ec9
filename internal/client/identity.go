package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cipherchat/internal/crypto"
)

const identityFile = "identity.json"

// Identity is the locally stored keypair plus the label it was published
// under. The file holds the private key, so it is written 0600.
type Identity struct {
	UserLabel  string `json:"userLabel"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// NewIdentity generates a fresh X25519 keypair for label.
func NewIdentity(label string) (*Identity, error) {
	pub, priv, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Identity{
		UserLabel:  label,
		PublicKey:  crypto.B64(pub[:]),
		PrivateKey: crypto.B64(priv[:]),
	}, nil
}

func (id *Identity) Public() (crypto.PublicKey, error) {
	return crypto.ParsePublicKey(id.PublicKey)
}

func (id *Identity) Private() (crypto.PrivateKey, error) {
	b, err := crypto.UnB64(id.PrivateKey)
	if err != nil {
		return crypto.PrivateKey{}, fmt.Errorf("invalid private key encoding: %w", err)
	}
	if len(b) != len(crypto.PrivateKey{}) {
		return crypto.PrivateKey{}, fmt.Errorf("invalid private key length %d", len(b))
	}
	var priv crypto.PrivateKey
	copy(priv[:], b)
	return priv, nil
}

// SaveIdentity writes the identity to home/identity.json, creating the
// directory if needed.
func SaveIdentity(home string, id *Identity) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, identityFile), data, 0o600)
}

// LoadIdentity reads a previously saved identity.
func LoadIdentity(home string) (*Identity, error) {
	data, err := os.ReadFile(filepath.Join(home, identityFile))
	if err != nil {
		return nil, fmt.Errorf("no identity found in %s (run keygen first): %w", home, err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("corrupt identity file: %w", err)
	}
	return &id, nil
}
