package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"callbridge/internal/domain"
)

// PresenceRegistry maps a participant to its current live connection.
// At most one connection per participant: a fresh authenticate for the
// same participant replaces the old entry (last writer wins) without
// touching any session the participant holds.
//
// byConn is the reverse index so disconnect cleanup never scans the
// forward map.
type PresenceRegistry struct {
	mu            sync.RWMutex
	byParticipant map[domain.ParticipantID]domain.ConnID
	byConn        map[domain.ConnID]domain.ParticipantID
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byParticipant: make(map[domain.ParticipantID]domain.ConnID),
		byConn:        make(map[domain.ConnID]domain.ParticipantID),
	}
}

// Register upserts the participant's connection. Replacing an entry
// drops the stale reverse mapping so a late disconnect of the old
// connection cannot evict the new one. The symmetric case holds too:
// a connection re-authenticating as a different participant releases
// the previous participant's forward entry, keeping both maps
// injective.
func (p *PresenceRegistry) Register(pid domain.ParticipantID, conn domain.ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if old, ok := p.byParticipant[pid]; ok && old != conn {
		delete(p.byConn, old)
	}
	if prev, ok := p.byConn[conn]; ok && prev != pid {
		if cur, ok := p.byParticipant[prev]; ok && cur == conn {
			delete(p.byParticipant, prev)
		}
	}
	p.byParticipant[pid] = conn
	p.byConn[conn] = pid
	log.Info().Str("module", "app.presence").Str("participant", string(pid)).Str("conn", string(conn)).Msg("registered")
}

func (p *PresenceRegistry) Lookup(pid domain.ParticipantID) (domain.ConnID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	conn, ok := p.byParticipant[pid]
	return conn, ok
}

// Unregister removes the entry only if the participant's recorded
// connection still equals conn. Returns the freed participant id so
// callers can cascade session cleanup.
func (p *PresenceRegistry) Unregister(conn domain.ConnID) (domain.ParticipantID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pid, ok := p.byConn[conn]
	if !ok {
		return "", false
	}
	delete(p.byConn, conn)
	// Guard against a stale handle still present in the reverse index.
	if cur, ok := p.byParticipant[pid]; !ok || cur != conn {
		return "", false
	}
	delete(p.byParticipant, pid)
	log.Info().Str("module", "app.presence").Str("participant", string(pid)).Str("conn", string(conn)).Msg("unregistered")
	return pid, true
}
