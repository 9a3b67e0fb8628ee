// Package httpapi exposes the registry over the polling HTTP/JSON
// contract consumed by the client package. Wire shapes and status codes
// are fixed; clients depend on them byte for byte.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/maticef/huddle/go/internal/metrics"
	"github.com/maticef/huddle/go/internal/registry"
)

// Service translates HTTP requests into registry operations.
type Service struct {
	registry *registry.Registry
	metrics  *metrics.Metrics
}

// NewService creates the HTTP transport over a registry.
func NewService(reg *registry.Registry, m *metrics.Metrics) *Service {
	return &Service{registry: reg, metrics: m}
}

// Register mounts all endpoints on the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /groups/join", s.handleJoinGroup)
	mux.HandleFunc("GET /groups/{code}", s.handleGetGroup)
	mux.HandleFunc("POST /location", s.handleUpdateLocation)
	mux.HandleFunc("POST /chat", s.handleSendMessage)
	mux.HandleFunc("POST /bets", s.handleCastBet)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
