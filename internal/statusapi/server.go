// Package statusapi exposes the running daemon's scheduler status over a
// small local HTTP API, so a separate `focust status` invocation has a
// concrete "local command channel" to reach the daemon through.
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pilgrimlyieu/focust/internal/log"
	"github.com/pilgrimlyieu/focust/internal/model"
	"github.com/pilgrimlyieu/focust/internal/pubsub"
)

// statusWaitTimeout bounds how long a /status request waits for the
// scheduler-status broadcast triggered by its own RequestStatus command.
const statusWaitTimeout = 2 * time.Second

// Handler answers HTTP requests against a running daemon's command
// channel and broadcast event broker.
type Handler struct {
	commands chan<- model.Command
	events   *pubsub.BroadcastBroker
}

// NewHandler wraps commands and events for HTTP access.
func NewHandler(commands chan<- model.Command, events *pubsub.BroadcastBroker) *Handler {
	return &Handler{commands: commands, events: events}
}

// Routes returns an http.Handler with every endpoint registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", h.Status)
	mux.HandleFunc("GET /health", h.Health)
	return mux
}

// StatusResponse is the JSON rendering of a scheduler-status broadcast.
type StatusResponse struct {
	Paused           bool       `json:"paused"`
	NextEventKind    string     `json:"next_event_kind,omitempty"`
	NextEventTime    *time.Time `json:"next_event_time,omitempty"`
	SecondsUntil     int32      `json:"seconds_until,omitempty"`
	MiniBreakCounter uint8      `json:"mini_break_counter"`
}

// ErrorResponse is the JSON rendering of a handler error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Status submits Command.RequestStatus to the daemon and waits for the
// resulting scheduler-status broadcast, rendering it as JSON.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), statusWaitTimeout)
	defer cancel()

	sub := h.events.Subscribe(ctx)

	select {
	case h.commands <- model.RequestStatus():
	case <-ctx.Done():
		h.writeError(w, http.StatusServiceUnavailable, "daemon did not accept RequestStatus")
		return
	}

	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				h.writeError(w, http.StatusServiceUnavailable, "event stream closed")
				return
			}
			if ev.Payload.Kind != model.BroadcastStatus {
				continue
			}
			h.writeJSON(w, http.StatusOK, toStatusResponse(ev.Payload.Status))
			return
		case <-ctx.Done():
			h.writeError(w, http.StatusGatewayTimeout, "timed out waiting for scheduler-status")
			return
		}
	}
}

// Health reports that the API is reachable. It does not reflect scheduler
// health; Status is the source of truth for that.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toStatusResponse(s model.StatusEvent) StatusResponse {
	resp := StatusResponse{
		Paused:           s.Paused,
		MiniBreakCounter: s.MiniBreakCounter,
	}
	if s.NextEvent != nil {
		resp.NextEventKind = s.NextEvent.Kind.String()
		t := s.NextEvent.Time
		resp.NextEventTime = &t
		resp.SecondsUntil = s.NextEvent.SecondsUntil
	}
	return resp
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

// Server wraps a Handler with an http.Server for lifecycle management.
type Server struct {
	handler  *Handler
	server   *http.Server
	listener net.Listener
	addr     string
	port     int
}

// ServerConfig configures the status API server.
type ServerConfig struct {
	// Addr is the address to listen on, e.g. "localhost:47663" or
	// "localhost:0" to let the OS assign a free port.
	Addr     string
	Commands chan<- model.Command
	Events   *pubsub.BroadcastBroker
}

// NewServer creates a status API server bound to cfg.Addr. Use Port()
// after construction to discover the actual port when Addr ends in :0.
func NewServer(cfg ServerConfig) (*Server, error) {
	handler := NewHandler(cfg.Commands, cfg.Events)

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
	}

	port := 0
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}

	return &Server{
		handler:  handler,
		addr:     cfg.Addr,
		port:     port,
		listener: listener,
		server: &http.Server{
			Handler:           handler.Routes(),
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start serves the status API. It blocks until the server is stopped or
// fails.
func (s *Server) Start() error {
	log.Info(log.CatDaemon, "starting status API server", "addr", s.listener.Addr().String())
	return s.server.Serve(s.listener)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Port returns the actual bound port, useful when Addr used port 0.
func (s *Server) Port() int {
	return s.port
}
