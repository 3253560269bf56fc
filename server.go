package journeyplanner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Server exposes the planner over HTTP.
type Server struct {
	app  *App
	http *http.Server
}

// NewServer builds the HTTP server for an application. It does not
// start listening.
func NewServer(app *App) *Server {
	s := &Server{app: app}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/journeys", s.handleJourneys)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.Config.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.app.Logger.Fatal("server error", zap.Error(err))
		}
	}()
	s.app.Logger.Info("server listening", zap.String("addr", s.http.Addr))
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then drains
// in-flight requests for up to ten seconds.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	s.app.Logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.app.Logger.Error("server shutdown error", zap.Error(err))
	} else {
		s.app.Logger.Info("server shut down successfully")
	}
}
