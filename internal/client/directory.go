package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cipherchat/internal/crypto"
	"cipherchat/internal/directory"
	"cipherchat/internal/models"
)

// Directory talks to the relay's HTTP surface: the public-key directory and
// the room listing.
type Directory struct {
	Base string
	HTTP *http.Client
}

func NewDirectory(base string) *Directory {
	return &Directory{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

// Signup publishes our public key under userID. A repeat signup overwrites
// the previous key.
func (c *Directory) Signup(userID string, publicKey crypto.PublicKey) error {
	body, err := json.Marshal(models.SignupRequest{
		UserID:    userID,
		PublicKey: crypto.B64(publicKey[:]),
	})
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Post(c.Base+"/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("signup failed: %s", resp.Status)
	}
	return nil
}

// LookupKey fetches the public key published under userID. A miss is
// directory.ErrUserNotFound and ends this key exchange; it has no effect on
// anything else.
func (c *Directory) LookupKey(userID string) (crypto.PublicKey, error) {
	resp, err := c.HTTP.Get(c.Base + "/keys/" + url.PathEscape(userID))
	if err != nil {
		return crypto.PublicKey{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return crypto.PublicKey{}, directory.ErrUserNotFound
	}
	if resp.StatusCode/100 != 2 {
		return crypto.PublicKey{}, fmt.Errorf("lookup failed: %s", resp.Status)
	}

	var out models.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return crypto.PublicKey{}, err
	}
	return crypto.ParsePublicKey(out.PublicKey)
}

// ListRooms returns the relay's room listing snapshot.
func (c *Directory) ListRooms() ([]models.RoomInfo, error) {
	resp, err := c.HTTP.Get(c.Base + "/rooms")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("room listing failed: %s", resp.Status)
	}

	var out models.RoomList
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Rooms, nil
}
