// Package server exposes the REST and websocket surface the NutriPlan
// client talks to.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nutriplan/backend/internal/ai"
	"github.com/nutriplan/backend/internal/auth"
	"github.com/nutriplan/backend/internal/bus"
	"github.com/nutriplan/backend/internal/mailbox"
	"github.com/nutriplan/backend/internal/plans"
	"github.com/nutriplan/backend/internal/tracker"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, this should be more restrictive
	},
}

// Deps are the collaborators the server wires together.
type Deps struct {
	Auth      *auth.Service
	Plans     *plans.Manager
	Tracker   *tracker.Service
	Mailbox   *mailbox.Service
	Gateway   ai.Gateway
	Bus       *bus.Bus
	JWTSecret []byte
	StaticDir string
	Debug     bool
}

type Server struct {
	deps   Deps
	hub    *Hub
	engine *gin.Engine
}

func New(deps Deps) *Server {
	if !deps.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		deps: deps,
		hub:  NewHub(),
	}
	s.engine = gin.Default()
	s.registerRoutes()
	go s.bridgeEvents()
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// bridgeEvents forwards bus notifications to each user's open event
// sockets.
func (s *Server) bridgeEvents() {
	events, _ := s.deps.Bus.Subscribe()
	for evt := range events {
		s.hub.Broadcast(evt.Email, gin.H{"type": string(evt.Topic)})
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start(port string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.engine,
	}

	go func() {
		slog.Info("starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-sigChan
	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
