// Package orch wires the presence registry, session store, room table
// and relay into the operations the transport adapters call.
package orch

import (
	"callbridge/internal/app"
	"callbridge/internal/auth"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

type Orchestrator struct {
	Presence *app.PresenceRegistry
	Sessions *app.SessionStore
	Rooms    *app.RoomTable
	Relay    *app.Relay
	Creds    auth.CredentialIssuer
}

// Connect attaches a freshly upgraded connection to the relay so it
// can start receiving events.
func (o *Orchestrator) Connect(conn domain.ConnID, sc core.SignalConnection) {
	o.Relay.Attach(conn, sc)
}

// Authenticate binds the connection to a participant id. Re-auth for
// the same participant replaces the previous connection; any session
// that participant holds is untouched.
func (o *Orchestrator) Authenticate(conn domain.ConnID, pid domain.ParticipantID) {
	o.Presence.Register(pid, conn)
}

// sendTo resolves a participant to its live connection and fires the
// event at it. No connection, no delivery; that is the contract.
func (o *Orchestrator) sendTo(pid domain.ParticipantID, v any) {
	conn, ok := o.Presence.Lookup(pid)
	if !ok {
		return
	}
	o.Relay.Send(conn, v)
}

func (o *Orchestrator) roomConns(participants []domain.RoomParticipant) []domain.ConnID {
	conns := make([]domain.ConnID, 0, len(participants))
	for _, p := range participants {
		conns = append(conns, p.ConnID)
	}
	return conns
}
