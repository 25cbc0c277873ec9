package handlers

import (
	"encoding/json"
	"net/http"

	"cipherchat/internal/models"
	"cipherchat/internal/registry"
)

type RoomHandlers struct {
	registry *registry.Registry
}

func NewRoomHandlers(reg *registry.Registry) *RoomHandlers {
	return &RoomHandlers{registry: reg}
}

// ListRooms returns a snapshot of the live rooms with their occupancy. The
// snapshot carries no reservation: a listed room may be full or gone by the
// time the caller tries to join it.
func (h *RoomHandlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.RoomList{Rooms: h.registry.List()})
}
