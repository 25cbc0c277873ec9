package registry

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"cipherchat/internal/models"
	"cipherchat/pkg/logger"
)

var (
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyJoined     = errors.New("connection already in a room")
)

// room exists only while it has members. The password is set by whoever
// triggers creation and is immutable afterwards; only its bcrypt hash is
// kept, since in password mode the room password doubles as key material and
// the relay must not retain it.
type room struct {
	passwordHash []byte
	capacity     int
	members      map[string]struct{}
}

// Registry owns all live rooms. Every mutation goes through one mutex, which
// makes the create/password/capacity/admit sequence of Join atomic: two
// connections racing for the last slot cannot both win.
type Registry struct {
	mu              sync.Mutex
	rooms           map[string]*room
	byConn          map[string]string // connection id -> room id
	defaultCapacity int
}

func New(defaultCapacity int) *Registry {
	if defaultCapacity < 1 {
		defaultCapacity = 2
	}
	return &Registry{
		rooms:           make(map[string]*room),
		byConn:          make(map[string]string),
		defaultCapacity: defaultCapacity,
	}
}

// Join admits connID to roomID, creating the room on the first join for an
// unknown id. There is no separate create primitive: creation is a side
// effect of the first successful join, and the password supplied then
// becomes the room's password for its whole lifetime.
func (r *Registry) Join(roomID, password, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, joined := r.byConn[connID]; joined {
		return ErrAlreadyJoined
	}

	rm, ok := r.rooms[roomID]
	if !ok {
		hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		rm = &room{
			passwordHash: hash,
			capacity:     r.defaultCapacity,
			members:      make(map[string]struct{}),
		}
		r.rooms[roomID] = rm
		logger.Info("Created room %s (capacity %d)", roomID, rm.capacity)
	}

	if bcrypt.CompareHashAndPassword(rm.passwordHash, passwordDigest(password)) != nil {
		return ErrIncorrectPassword
	}
	if len(rm.members) >= rm.capacity {
		return ErrRoomFull
	}

	rm.members[connID] = struct{}{}
	r.byConn[connID] = roomID
	logger.Info("Connection %s joined room %s (%d/%d)", connID, roomID, len(rm.members), rm.capacity)
	return nil
}

// passwordDigest normalizes a room password before bcrypt, which only reads
// the first 72 bytes of its input. Hashing first makes the comparison cover
// the whole password regardless of length; base64 keeps the digest printable.
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Leave removes connID from whichever room it is in. It is idempotent: a
// connection that is not a member of anything is a no-op. A room whose last
// member leaves is deleted outright, so a later join for the same id starts
// a fresh room with a fresh password.
func (r *Registry) Leave(connID string) (roomID string, remaining int, left bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, left = r.byConn[connID]
	if !left {
		return "", 0, false
	}
	delete(r.byConn, connID)

	rm := r.rooms[roomID]
	delete(rm.members, connID)
	logger.Info("Connection %s left room %s (%d remaining)", connID, roomID, len(rm.members))

	if len(rm.members) == 0 {
		delete(r.rooms, roomID)
		logger.Info("Deleted empty room %s", roomID)
	}
	return roomID, len(rm.members), true
}

// Members returns a snapshot of the member connection ids of roomID.
func (r *Registry) Members(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	members := make([]string, 0, len(rm.members))
	for connID := range rm.members {
		members = append(members, connID)
	}
	return members
}

// List returns a snapshot of all live rooms, sorted by id. A listed room may
// be full or gone by the time a join is attempted.
func (r *Registry) List() []models.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]models.RoomInfo, 0, len(r.rooms))
	for roomID, rm := range r.rooms {
		list = append(list, models.RoomInfo{
			RoomID:   roomID,
			Count:    len(rm.members),
			Capacity: rm.capacity,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].RoomID < list[j].RoomID })
	return list
}
