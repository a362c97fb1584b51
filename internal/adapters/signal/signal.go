package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"callbridge/internal/app/orch"
	"callbridge/internal/config"
	"callbridge/internal/core"
	"callbridge/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch *orch.Orchestrator
	Cfg  *config.Config
}

func NewSignalWSController(o *orch.Orchestrator, cfg *config.Config) *SignalWSController {
	return &SignalWSController{Orch: o, Cfg: cfg}
}

// wsSignalConn wraps one websocket with a buffered outbound channel.
// TrySend never blocks: a full buffer means the frame is dropped and
// the caller treats it like an unreachable recipient.
type wsSignalConn struct {
	id   domain.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool

	// pid is set once the connection authenticates.
	pid domain.ParticipantID
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *wsSignalConn) setParticipant(pid domain.ParticipantID) {
	c.mu.Lock()
	c.pid = pid
	c.mu.Unlock()
}

func (c *wsSignalConn) participant() (domain.ParticipantID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pid, c.pid != ""
}

// HandleSignal upgrades the request and starts the per-connection
// pumps. The connection handle is minted here; everything below the
// adapter treats it as opaque.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return ctl.Cfg.OriginAllowed(r.Header.Get("Origin"))
		},
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &wsSignalConn{
		id:   domain.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	log.Info().Str("module", "signal").Str("conn", string(conn.id)).Msg("new WS connection")

	ctl.Orch.Connect(conn.id, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn, cancel)
	go ctl.readPump(ctx, conn, cancel)
}
