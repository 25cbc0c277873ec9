package models

// SignupRequest publishes a user's public key to the directory. Labels are
// self-asserted; a later signup for the same label overwrites the old key.
type SignupRequest struct {
	UserID    string `json:"userId"`
	PublicKey string `json:"publicKey"`
}

type LookupResponse struct {
	UserID    string `json:"userId"`
	PublicKey string `json:"publicKey"`
}
