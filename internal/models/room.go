package models

// RoomInfo is one row of the room listing. A listing is a snapshot: a listed
// room may already be full or gone by the time a join is attempted.
type RoomInfo struct {
	RoomID   string `json:"roomId"`
	Count    int    `json:"count"`
	Capacity int    `json:"capacity"`
}

type RoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}
