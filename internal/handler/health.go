package handler

import (
	"net/http"
)

// Pinger is implemented by the relational store; the csv-backed deployment
// has no external dependency and passes nil.
type Pinger interface {
	Ping() error
}

// WithPinger attaches the readiness dependency.
func (h *Handler) WithPinger(p Pinger) *Handler {
	h.pinger = p
	return h
}

// Health is a liveness probe endpoint.
// Returns 200 OK if the server is running.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready is a readiness probe endpoint.
// Returns 200 OK if the server can handle requests (DB is connected).
// Returns 503 Service Unavailable if dependencies are not ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
