package app

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"callbridge/internal/domain"
)

// Room codes are short, human-relayable and case-insensitive. Codes
// are stored upper-cased; lookups normalize the same way.
const roomCodeLen = 6

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomTable owns every live room plus a connection→code reverse index
// so leave/disconnect never scans the table.
type RoomTable struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomCode]*domain.Room
	byConn map[domain.ConnID]domain.RoomCode
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms:  make(map[domain.RoomCode]*domain.Room),
		byConn: make(map[domain.ConnID]domain.RoomCode),
	}
}

func normalizeCode(code string) domain.RoomCode {
	return domain.RoomCode(strings.ToUpper(code))
}

func newRoomCode() domain.RoomCode {
	buf := make([]byte, roomCodeLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = roomCodeCharset[int(b)%len(roomCodeCharset)]
	}
	return domain.RoomCode(buf)
}

// Create inserts an empty waiting room under a freshly generated code,
// retrying generation while the candidate collides with a live room.
func (t *RoomTable) Create() domain.RoomCode {
	t.mu.Lock()
	defer t.mu.Unlock()

	code := newRoomCode()
	for {
		if _, exists := t.rooms[code]; !exists {
			break
		}
		code = newRoomCode()
	}
	t.rooms[code] = &domain.Room{
		Code:      code,
		Status:    domain.RoomWaiting,
		CreatedAt: time.Now(),
	}
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("created")
	return code
}

// RoomCheck is the read-only answer to "can I join this code".
type RoomCheck struct {
	Valid            bool `json:"valid"`
	Full             bool `json:"full"`
	ParticipantCount int  `json:"participantCount"`
}

func (t *RoomTable) Check(code string) RoomCheck {
	t.mu.RLock()
	defer t.mu.RUnlock()
	room, ok := t.rooms[normalizeCode(code)]
	if !ok {
		return RoomCheck{}
	}
	return RoomCheck{
		Valid:            true,
		Full:             room.Full(),
		ParticipantCount: len(room.Participants),
	}
}

// JoinResult is a snapshot taken inside Join's critical section.
// Others lists the participants that were already present, so the
// caller can broadcast the arrival; Ready flips exactly once, on the
// join that fills the room.
type JoinResult struct {
	Room   domain.Room
	Joined domain.RoomParticipant
	Others []domain.RoomParticipant
	Ready  bool
}

// Join appends the connection to the room. The capacity check and the
// append share one lock: two racing joins on a one-slot room cannot
// both pass.
func (t *RoomTable) Join(code string, conn domain.ConnID, displayName string) (JoinResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	room, ok := t.rooms[normalizeCode(code)]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	if room.Full() {
		return JoinResult{}, ErrRoomFull
	}

	others := append([]domain.RoomParticipant(nil), room.Participants...)
	joined := domain.RoomParticipant{
		ConnID:      conn,
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
	room.Participants = append(room.Participants, joined)
	t.byConn[conn] = room.Code

	ready := false
	if room.Full() {
		room.Status = domain.RoomActive
		ready = true
	}
	log.Info().Str("module", "app.rooms").Str("room", string(room.Code)).
		Str("conn", string(conn)).Int("count", len(room.Participants)).Msg("joined")

	return JoinResult{Room: snapshotRoom(room), Joined: joined, Others: others, Ready: ready}, nil
}

// LeaveResult reports who left which room and who stayed behind.
type LeaveResult struct {
	Code      domain.RoomCode
	Left      domain.RoomParticipant
	Remaining []domain.RoomParticipant
	WasActive bool
	Deleted   bool
}

// Leave removes the connection from whichever room holds it, found via
// the reverse index; the room is deleted once empty.
func (t *RoomTable) Leave(conn domain.ConnID) (LeaveResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	code, ok := t.byConn[conn]
	if !ok {
		return LeaveResult{}, false
	}
	delete(t.byConn, conn)

	room, ok := t.rooms[code]
	if !ok {
		// Inconsistent index entry; treat as not in a room.
		return LeaveResult{}, false
	}

	res := LeaveResult{Code: code, WasActive: room.Status == domain.RoomActive}
	kept := room.Participants[:0]
	for _, p := range room.Participants {
		if p.ConnID == conn {
			res.Left = p
			continue
		}
		kept = append(kept, p)
	}
	room.Participants = kept
	room.Status = domain.RoomWaiting

	if len(room.Participants) == 0 {
		delete(t.rooms, code)
		res.Deleted = true
	} else {
		res.Remaining = append([]domain.RoomParticipant(nil), room.Participants...)
	}
	log.Info().Str("module", "app.rooms").Str("room", string(code)).
		Str("conn", string(conn)).Bool("deleted", res.Deleted).Msg("left")
	return res, true
}

// SweepIdle deletes rooms older than maxAge with zero participants.
// Occupied rooms survive regardless of age.
func (t *RoomTable) SweepIdle(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for code, room := range t.rooms {
		if len(room.Participants) == 0 && room.CreatedAt.Before(cutoff) {
			delete(t.rooms, code)
			removed++
			log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("swept idle room")
		}
	}
	return removed
}

func snapshotRoom(room *domain.Room) domain.Room {
	cp := *room
	cp.Participants = append([]domain.RoomParticipant(nil), room.Participants...)
	return cp
}
