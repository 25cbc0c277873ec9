package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cipherchat/internal/crypto"
	"cipherchat/internal/directory"
	"cipherchat/internal/models"
	"cipherchat/pkg/logger"
)

type DirectoryHandlers struct {
	store directory.Store
}

func NewDirectoryHandlers(store directory.Store) *DirectoryHandlers {
	return &DirectoryHandlers{store: store}
}

// Signup publishes a public key under a self-asserted label. Any caller may
// overwrite any label; the directory does not verify ownership.
func (h *DirectoryHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	publicKey, err := crypto.ParsePublicKey(req.PublicKey)
	if err != nil {
		http.Error(w, "invalid public key", http.StatusBadRequest)
		return
	}

	if err := h.store.Publish(r.Context(), req.UserID, publicKey[:]); err != nil {
		logger.Error("Signup error for %s: %v", req.UserID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info("Published public key for %s", req.UserID)
	w.WriteHeader(http.StatusNoContent)
}

// LookupKey resolves /keys/{userId} to the published public key, or 404.
func (h *DirectoryHandlers) LookupKey(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/keys/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	publicKey, err := h.store.Lookup(r.Context(), userID)
	if errors.Is(err, directory.ErrUserNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("Lookup error for %s: %v", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LookupResponse{
		UserID:    userID,
		PublicKey: crypto.B64(publicKey),
	})
}
