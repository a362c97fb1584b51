package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"callbridge/internal/core"
	"callbridge/internal/domain"
)

// Relay tracks live signaling connections and delivers events to them
// best-effort. A recipient with no live connection, or a connection
// whose send fails (closed, backpressured), means the event is dropped
// silently. Guaranteed delivery is a job for the push-notification
// collaborator, not this engine.
type Relay struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]core.SignalConnection
}

func NewRelay() *Relay {
	return &Relay{conns: make(map[domain.ConnID]core.SignalConnection)}
}

func (r *Relay) Attach(conn domain.ConnID, sc core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = sc
}

func (r *Relay) Detach(conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn)
}

// Send marshals v and fires it at the connection.
func (r *Relay) Send(conn domain.ConnID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal event")
		return
	}
	r.Forward(conn, data)
}

// Forward delivers an already-encoded frame without inspecting it.
// Media chunks and WebRTC signaling pass through here verbatim.
func (r *Relay) Forward(conn domain.ConnID, frame core.Frame) {
	r.mu.RLock()
	sc, ok := r.conns[conn]
	r.mu.RUnlock()
	if !ok {
		log.Debug().Str("module", "app.relay").Str("conn", string(conn)).Msg("no live connection, dropping")
		return
	}
	if err := sc.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.relay").Str("conn", string(conn)).Msg("send failed, dropping")
	}
}

// Broadcast sends v to each connection, encoding once.
func (r *Relay) Broadcast(conns []domain.ConnID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("marshal broadcast")
		return
	}
	for _, conn := range conns {
		r.Forward(conn, data)
	}
}
