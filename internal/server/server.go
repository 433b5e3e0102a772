// Package server exposes running matches over HTTP: a health check,
// Prometheus metrics, a websocket spectator feed and a small JSON API for
// launching bot matches.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front of a MatchManager.
type Server struct {
	addr     string
	router   *chi.Mux
	upgrader websocket.Upgrader
	hub      *Hub
	matches  *MatchManager
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

// NewServer wires the routes. The hub should also be attached to the
// manager as a monitor so spectators see match events.
func NewServer(addr string, matches *MatchManager, hub *Hub, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			// Spectating is read-only, so any origin may watch
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		hub:      hub,
		matches:  matches,
		gatherer: gatherer,
		logger:   logger.With().Str("component", "server").Logger(),
		router:   chi.NewRouter(),
	}

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(chimw.Recoverer)
	s.router.Use(s.requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	s.router.Get("/ws", s.handleWebSocket)

	s.router.Route("/matches", func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Get("/", s.handleListMatches)
		r.Post("/", s.handleLaunchMatch)
		r.Get("/{id}", s.handleGetMatch)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	return s
}

// Router exposes the router, e.g. for httptest.
func (s *Server) Router() chi.Router { return s.router }

// Serve listens on the configured address until ctx is cancelled, then
// stops accepting requests, cancels running matches and disconnects
// spectators.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Starting server")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.hub.CloseAll()
		err := httpServer.Shutdown(shutdownCtx)
		if merr := s.matches.Shutdown(shutdownCtx); err == nil {
			err = merr
		}
		return err
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"running":    len(s.matches.Running()),
		"spectators": s.hub.Count(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	client := NewConnection(conn, s.hub, r.URL.Query().Get("match"), s.logger)
	s.hub.Add(client)
	client.Start()
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.matches.List())
}

func (s *Server) handleLaunchMatch(w http.ResponseWriter, r *http.Request) {
	var req LaunchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
	}

	summary, err := s.matches.Launch(req)
	switch {
	case errors.Is(err, ErrInvalidLaunch):
		writeError(w, http.StatusBadRequest, "invalid_launch", err.Error())
	case errors.Is(err, ErrTooManyMatches), errors.Is(err, ErrShuttingDown):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	default:
		w.Header().Set("Location", "/matches/"+summary.ID)
		writeJSON(w, http.StatusCreated, summary)
	}
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	summary, ok := s.matches.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "match_not_found", "unknown match "+id)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorData{Code: code, Message: message})
}
