package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"callbridge/internal/adapters/signal"
	"callbridge/internal/app/orch"
	"callbridge/internal/config"
)

// CORSMiddleware applies the configured allowed-origins policy to the
// REST surface.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && cfg.OriginAllowed(origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(cfg))

	h := &Handlers{Orch: o}

	api := r.Group("/api")

	api.GET("/health", h.Health)

	api.POST("/rooms", h.CreateRoom)
	api.GET("/rooms/:code", h.CheckRoom)

	api.POST("/calls", h.InitiateCall)
	api.POST("/calls/:callId/accept", h.AcceptCall)
	api.POST("/calls/:callId/reject", h.RejectCall)
	api.POST("/calls/:callId/end", h.EndCall)

	ctl := signal.NewSignalWSController(o, cfg)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
