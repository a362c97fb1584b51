package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"callbridge/internal/domain"
)

// handleSignalForward relays offer/answer/ice_candidate frames to the
// explicitly named target connection. The SDP or candidate payload is
// never parsed; the sender already knows the peer's connection handle
// from the join/ready broadcast.
func (ctl *SignalWSController) handleSignalForward(
	c *wsSignalConn,
	data []byte,
) {
	type forwardPayload struct {
		Type             string `json:"type"`
		TargetConnection string `json:"targetConnection"`
	}
	var p forwardPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad forward payload")
		ctl.sendError(c, "bad_payload")
		return
	}
	if p.TargetConnection == "" {
		ctl.sendError(c, "targetConnection required")
		return
	}

	ctl.Orch.ForwardSignal(domain.ConnID(p.TargetConnection), data)
}
