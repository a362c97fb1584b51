package signal

import "callbridge/internal/core"

func (ctl *SignalWSController) handlePing(
	conn *wsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: core.EvPong,
	}
	ctl.sendJSON(conn, resp)
}
