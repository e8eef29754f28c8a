package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/dtnitsch/cp-hints/models"
)

// HeaderMessageID carries the sender's message id; the server generates one
// when it is absent.
const HeaderMessageID = "X-Message-ID"

const maxRequestBytes = 1 << 20

// Server exposes a Relay over HTTP for browser-side callers.
type Server struct {
	relay  *Relay
	logger *slog.Logger
}

func NewServer(relay *Relay, logger *slog.Logger) *Server {
	return &Server{relay: relay, logger: logger}
}

// Routes returns the router: POST /hints and GET /healthz.
func (s *Server) Routes(allowedOrigins []string) http.Handler {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderMessageID},
		ExposedHeaders: []string{HeaderMessageID},
		MaxAge:         300,
	}))
	router.Use(middleware.RealIP, middleware.Recoverer)

	router.Get("/healthz", s.healthz)
	router.Post("/hints", s.hints)
	return router
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) hints(w http.ResponseWriter, r *http.Request) {
	messageID := r.Header.Get(HeaderMessageID)
	if messageID == "" {
		messageID = uuid.NewString()
	}
	w.Header().Set(HeaderMessageID, messageID)

	var req models.HintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.logger.Warn("invalid hint request body", "message_id", messageID, "error", err)
		writeJSON(w, http.StatusBadRequest, models.NewHintFailure("Invalid request body: "+err.Error()))
		return
	}

	// Relay failures are part of the message protocol, not HTTP errors.
	writeJSON(w, http.StatusOK, s.relay.HandleMessage(r.Context(), messageID, req))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
