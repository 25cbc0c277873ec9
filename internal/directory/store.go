package directory

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned by Lookup when no key has been published under
// the requested label.
var ErrUserNotFound = errors.New("user not found")

// Store maps self-asserted user labels to published public keys. Labels are
// not verified identities: any caller may overwrite any label, and a later
// Publish silently replaces the prior key. The relay consumes this only
// through the HTTP boundary; key material never feeds into room state.
type Store interface {
	Publish(ctx context.Context, userLabel string, publicKey []byte) error
	Lookup(ctx context.Context, userLabel string) ([]byte, error)
	Close() error
}
