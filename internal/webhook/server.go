package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Meta is the service identity reported by the status endpoint.
type Meta struct {
	Login        string
	Provider     string
	Model        string
	EmailEnabled bool
}

// Server exposes the webhook receiver plus status endpoints.
type Server struct {
	router  *Router
	secret  string
	meta    Meta
	logger  *slog.Logger
	timeout time.Duration
	started time.Time
}

func NewServer(router *Router, secret string, timeout time.Duration, meta Meta, logger *slog.Logger) *Server {
	return &Server{
		router:  router,
		secret:  secret,
		meta:    meta,
		logger:  logger,
		timeout: timeout,
		started: time.Now(),
	}
}

// Handler returns the HTTP handler serving /webhook, /, and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /{$}", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Could not read request body"})
		return
	}

	if !VerifySignature(body, r.Header.Get("X-Hub-Signature-256"), s.secret) {
		s.logger.Warn("rejecting delivery with invalid signature",
			"delivery", r.Header.Get("X-GitHub-Delivery"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing X-GitHub-Event header"})
		return
	}

	deliveryID := r.Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		deliveryID = uuid.New().String()
	}
	logger := s.logger.With("delivery", deliveryID, "event", eventType)

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	outcome, err := s.router.Dispatch(ctx, eventType, body)
	if err != nil {
		logger.Error("delivery failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	switch outcome {
	case OutcomeProcessed:
		logger.Info("delivery processed")
		writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
	default:
		logger.Debug("delivery ignored")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":       "steward",
		"status":        "running",
		"uptime":        time.Since(s.started).Round(time.Second).String(),
		"login":         s.meta.Login,
		"provider":      s.meta.Provider,
		"model":         s.meta.Model,
		"email_enabled": s.meta.EmailEnabled,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out; nothing left to do for this response.
		return
	}
}
