// Package httpapi implements the optional, observational status API from
// SPEC_FULL.md's Supplemented Features section: current group/process
// state, recent buffered output, and a restart trigger that calls the
// same RequestRestart the core's cross-group propagation path uses.
//
// Grounded on cmd/zmux-server/main.go's router construction (gin.New,
// gin.Recovery first, CORS, a zap-backed request logger) and generalized
// from the teacher's channel CRUD routes to a small read-mostly surface
// over the supervision runtime.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/itexoft/procvd/internal/procmodel"
	"github.com/itexoft/procvd/internal/sink"
	"github.com/itexoft/procvd/internal/supervisor"
)

// Server exposes the read-only/restart-trigger status API over a
// resolved configuration and its running supervisors.
type Server struct {
	cfg    *procmodel.ResolvedProcessConfig
	buffer *sink.BufferSink
	top    *supervisor.TopLevelSupervisor
	log    *zap.Logger
}

// New builds a Server. buffer supplies last-event and recent-output data;
// top is used only for RequestRestart.
func New(cfg *procmodel.ResolvedProcessConfig, buffer *sink.BufferSink, top *supervisor.TopLevelSupervisor, log *zap.Logger) *Server {
	return &Server{cfg: cfg, buffer: buffer, top: top, log: log.Named("httpapi")}
}

// Router builds the gin.Engine for this server, applying the same
// middleware order the teacher uses: recovery first, CORS for local
// dev, baseline security headers, then request logging.
func (s *Server) Router(devCORS bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())

	if devCORS {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	}))

	r.Use(s.requestLogger())

	r.GET("/groups", s.listGroups)
	r.GET("/groups/:name", s.getGroup)
	r.GET("/groups/:name/output", s.getOutput)
	r.POST("/groups/:name/restart", s.postRestart)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Run starts an http.Server bound to addr and blocks until ctx is
// cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context, addr string, devCORS bool) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(devCORS)}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
