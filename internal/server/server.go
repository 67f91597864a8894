// Package server exposes the message dispatcher over HTTP for the browser extension.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/messages"
)

const (
	DefaultAddr          = "127.0.0.1:8787"
	DefaultAllowedOrigin = "chrome-extension://*"

	maxBodyBytes = 8 << 20
)

// Dispatcher handles a decoded envelope.
type Dispatcher interface {
	Dispatch(ctx context.Context, env messages.Envelope) messages.Response
}

// Config holds listener settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// WriteTimeout must cover a full batch screening run.
	WriteTimeout time.Duration
}

// Server serves the message endpoint.
type Server struct {
	httpServer *http.Server
	dispatcher Dispatcher
	logger     *zap.Logger
}

// New builds the router and the HTTP server.
func New(cfg Config, dispatcher Dispatcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{DefaultAllowedOrigin}
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Minute
	}

	s := &Server{dispatcher: dispatcher, logger: log}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.withLogging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/messages", func(r chi.Router) {
		r.Post("/", s.handleEnvelope)
		r.Post("/{action}", s.handleAction)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnvelope accepts a full {action, payload} envelope.
func (s *Server) handleEnvelope(w http.ResponseWriter, r *http.Request) {
	var env messages.Envelope
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&env); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if env.Action == "" {
		s.errorResponse(w, http.StatusBadRequest, "action is required")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), env))
}

// handleAction takes the action from the path and the raw body as payload.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	env := messages.Envelope{Action: messages.Action(chi.URLParam(r, "action"))}
	if len(body) > 0 {
		if !json.Valid(body) {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: payload is not JSON")
			return
		}
		env.Payload = body
	}

	s.jsonResponse(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), env))
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, messages.Response{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
