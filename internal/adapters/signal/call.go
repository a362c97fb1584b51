package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"callbridge/internal/app"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

func (ctl *SignalWSController) handleAuthenticate(
	c *wsSignalConn,
	data []byte,
) {
	type authPayload struct {
		Type          string `json:"type"`
		ParticipantID string `json:"participantId"`
	}
	var p authPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad authenticate payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.ParticipantID == "" {
		ctl.sendError(c, "participantId required")
		return
	}

	pid := domain.ParticipantID(p.ParticipantID)
	c.setParticipant(pid)
	ctl.Orch.Authenticate(c.id, pid)

	resp := struct {
		Type   string        `json:"type"`
		ConnID domain.ConnID `json:"connectionId"`
	}{
		Type:   core.EvAuthenticated,
		ConnID: c.id,
	}
	ctl.sendJSON(c, resp)
}

// handleSessionRelay covers call_status_update and media_chunk: both
// are opaque session-scoped frames forwarded to the other side of the
// sender's session. Only the envelope's sessionId is read here.
func (ctl *SignalWSController) handleSessionRelay(
	c *wsSignalConn,
	data []byte,
) {
	pid, ok := c.participant()
	if !ok {
		ctl.sendError(c, "not authenticated")
		return
	}

	type relayPayload struct {
		Type      string `json:"type"`
		SessionID string `json:"sessionId"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad relay payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.SessionID == "" {
		ctl.sendError(c, "sessionId required")
		return
	}

	if err := ctl.Orch.RelayToPeer(pid, p.SessionID, data); err != nil {
		switch {
		case errors.Is(err, app.ErrNotFound):
			ctl.sendError(c, "session not found")
		case errors.Is(err, app.ErrForbidden):
			ctl.sendError(c, "not a participant of this session")
		}
	}
}
