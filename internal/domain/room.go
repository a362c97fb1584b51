package domain

import "time"

type (
	RoomCode   string
	RoomStatus string
)

const (
	RoomWaiting RoomStatus = "waiting"
	RoomActive  RoomStatus = "active"
)

// RoomCapacity is the hard participant limit per room.
const RoomCapacity = 2

// RoomParticipant is one connection inside a room. Rooms bind raw
// connections, not participant ids: a room peer is addressed by the
// ConnID it learned from the join/ready broadcast.
type RoomParticipant struct {
	ConnID      ConnID    `json:"connectionId"`
	DisplayName string    `json:"displayName"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// Room is a code-based pairing between up to two connections.
// Status is active exactly while the room is at capacity.
type Room struct {
	Code         RoomCode
	Participants []RoomParticipant
	Status       RoomStatus
	CreatedAt    time.Time
}

func (r *Room) Full() bool {
	return len(r.Participants) >= RoomCapacity
}
