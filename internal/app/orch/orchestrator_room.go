package orch

import (
	"github.com/rs/zerolog/log"

	"callbridge/internal/app"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

// JoinRoom admits the connection and returns the join snapshot plus
// the joiner's media credential. It deliberately broadcasts nothing:
// the adapter acks the joiner first, then calls AnnounceJoin, so the
// joiner always learns its own connection handle before any
// call_ready carrying it arrives.
func (o *Orchestrator) JoinRoom(conn domain.ConnID, code, displayName string) (app.JoinResult, string, error) {
	res, err := o.Rooms.Join(code, conn, displayName)
	if err != nil {
		return app.JoinResult{}, "", err
	}

	cred, err := o.Creds.Issue(string(res.Room.Code), domain.ParticipantID(conn))
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(res.Room.Code)).Msg("issue room credential")
	}
	return res, cred, nil
}

// AnnounceJoin tells the earlier arrivals someone joined and fires
// call_ready at everyone exactly when the room fills up.
func (o *Orchestrator) AnnounceJoin(res app.JoinResult) {
	o.Relay.Broadcast(o.roomConns(res.Others), core.UserJoined{
		Type:             core.EvUserJoined,
		ConnID:           res.Joined.ConnID,
		DisplayName:      res.Joined.DisplayName,
		ParticipantCount: len(res.Room.Participants),
	})

	if res.Ready {
		o.Relay.Broadcast(o.roomConns(res.Room.Participants), core.CallReady{
			Type:         core.EvCallReady,
			RoomCode:     res.Room.Code,
			Participants: res.Room.Participants,
		})
	}
}

// LeaveRoom pulls the connection out of its room, if any, and tells
// whoever stayed. Leaving an active room also ends the call from the
// remaining side's point of view.
func (o *Orchestrator) LeaveRoom(conn domain.ConnID) {
	res, ok := o.Rooms.Leave(conn)
	if !ok || len(res.Remaining) == 0 {
		return
	}

	remaining := o.roomConns(res.Remaining)
	o.Relay.Broadcast(remaining, core.UserLeft{
		Type:             core.EvUserLeft,
		ConnID:           conn,
		ParticipantCount: len(res.Remaining),
	})
	if res.WasActive {
		o.Relay.Broadcast(remaining, core.CallEnded{Type: core.EvCallEnded})
	}
}
