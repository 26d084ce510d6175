// Package ops serves health, readiness and stats endpoints next to the bot.
package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/fridgebot/core/logger"
)

const component = "ops"

// Options configures a Server.
type Options struct {
	Listen string
	// Stats returns the JSON document served at /stats.
	Stats func(ctx context.Context) any
}

// Server is the operational HTTP endpoint.
type Server struct {
	opts  Options
	ready atomic.Bool
	srv   *http.Server
	ln    net.Listener
}

// New builds a server; it does not listen until Start.
func New(opts Options) *Server {
	s := &Server{opts: opts}
	s.srv = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routed handler, usable with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !s.ready.Load() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
		if s.opts.Stats == nil {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, http.StatusOK, s.opts.Stats(req.Context()))
	})
	return r
}

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("ops: listen %s: %w", s.opts.Listen, err)
	}
	s.ln = ln
	logger.Info(ctx, component, "ops.listen", slog.String("listen", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, component, "ops.serve", slog.String("err", err.Error()))
		}
	}()
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)
	if s.ln == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug(r.Context(), component, "http.request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("http_code", ww.Status()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
