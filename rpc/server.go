package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stakemint/events"
	"stakemint/native/staking"
)

// Server exposes the staking engine over HTTP.
type Server struct {
	engine   *staking.Engine
	recorder *events.Recorder
	log      *slog.Logger
}

func NewServer(engine *staking.Engine, recorder *events.Recorder, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{engine: engine, recorder: recorder, log: log}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/staking", func(sr chi.Router) {
		sr.Post("/stake", s.handleStake)
		sr.Post("/claim", s.handleClaim)
		sr.Post("/unstake", s.handleUnstake)
		sr.Get("/price", s.handlePrice)
		sr.Get("/accounts/{address}", s.handleAccount)
		sr.Get("/events", s.handleEvents)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
