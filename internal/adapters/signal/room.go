package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"callbridge/internal/app"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

func (ctl *SignalWSController) handleJoin(
	c *wsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type        string `json:"type"`
		RoomCode    string `json:"roomCode"`
		DisplayName string `json:"displayName"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.RoomCode == "" {
		ctl.sendError(c, "roomCode required")
		return
	}

	res, cred, err := ctl.Orch.JoinRoom(c.id, p.RoomCode, p.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrRoomNotFound):
			ctl.sendError(c, "room not found")
		case errors.Is(err, app.ErrRoomFull):
			ctl.sendError(c, "room full")
		default:
			ctl.sendError(c, "join failed")
		}
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(c.id)).
		Str("room", string(res.Room.Code)).Msg("join")

	resp := struct {
		Type             string                   `json:"type"`
		ConnID           domain.ConnID            `json:"connectionId"`
		RoomCode         domain.RoomCode          `json:"roomCode"`
		ParticipantCount int                      `json:"participantCount"`
		Participants     []domain.RoomParticipant `json:"participants"`
		MediaCredential  string                   `json:"mediaCredential,omitempty"`
	}{
		Type:             core.EvJoinSuccess,
		ConnID:           c.id,
		RoomCode:         res.Room.Code,
		ParticipantCount: len(res.Room.Participants),
		Participants:     res.Room.Participants,
		MediaCredential:  cred,
	}
	// Ack before the room broadcasts: the joiner must know its own
	// connection handle before call_ready names it.
	ctl.sendJSON(c, resp)
	ctl.Orch.AnnounceJoin(res)
}

// handleLeave exits the current room without dropping the connection.
func (ctl *SignalWSController) handleLeave(
	c *wsSignalConn,
) {
	log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("leave")
	ctl.Orch.LeaveRoom(c.id)
	ctl.sendJSON(c, map[string]any{
		"type": "left",
	})
}
