package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"callbridge/internal/core"
	"callbridge/internal/domain"
)

// Disconnect is the single entry point for a dropped connection. It
// detaches the relay endpoint, frees presence (guarded against stale
// handles), ends every session the freed participant held with exactly
// one call_ended to the other side, and pulls the connection out of
// its room.
func (o *Orchestrator) Disconnect(conn domain.ConnID) {
	o.Relay.Detach(conn)

	if pid, ok := o.Presence.Unregister(conn); ok {
		for _, sess := range o.Sessions.FindFor(pid) {
			if _, err := o.Sessions.End(sess.ID, pid); err != nil {
				// Already terminated concurrently; the other side was
				// notified by whoever won.
				continue
			}
			o.sendTo(sess.Peer(pid), core.CallEnded{Type: core.EvCallEnded, SessionID: sess.ID})
			log.Info().Str("module", "orch").Str("session", sess.ID).
				Str("participant", string(pid)).Msg("ended orphaned session")
		}
	}

	o.LeaveRoom(conn)
}

// RunSweeper periodically discards rooms that have sat empty past
// maxAge. Rooms with participants are never swept, whatever their age.
func (o *Orchestrator) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := o.Rooms.SweepIdle(maxAge); n > 0 {
				log.Info().Str("module", "orch").Int("removed", n).Msg("swept idle rooms")
			}
		}
	}
}
