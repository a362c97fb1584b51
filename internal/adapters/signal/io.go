package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"callbridge/internal/core"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn, cancel context.CancelFunc) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the connection's serial event loop. On any exit the
// disconnect cascade runs exactly once: presence freed, orphaned
// sessions ended, room membership released.
func (ctl *SignalWSController) readPump(ctx context.Context, c *wsSignalConn, cancel context.CancelFunc) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(c.id)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Orch.Disconnect(c.id)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				return
			}
			ctl.handleSignal(c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(c *wsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case core.EvAuthenticate:
		ctl.handleAuthenticate(c, data)
	case core.EvJoin:
		ctl.handleJoin(c, data)
	case core.EvLeave:
		ctl.handleLeave(c)
	case core.EvPing:
		ctl.handlePing(c)
	case core.EvCallStatus, core.EvMediaChunk:
		ctl.handleSessionRelay(c, data)
	case core.EvOffer, core.EvAnswer, core.EvICECandidate:
		ctl.handleSignalForward(c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendError(c, "unknown message type")
	}
}

func (ctl *SignalWSController) sendJSON(c *wsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *wsSignalConn, msg string) {
	ctl.sendJSON(c, core.CallError{Type: core.EvCallError, Message: msg})
}
