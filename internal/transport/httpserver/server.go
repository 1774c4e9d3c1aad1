// Package httpserver exposes the bot over HTTP: the Twilio webhook, a
// status probe and the operator broadcast endpoint.
package httpserver

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swasthya-bot/server/internal/agent/bot"
	"github.com/swasthya-bot/server/internal/agent/broadcast"
	errx "github.com/swasthya-bot/server/internal/core/error"
	"github.com/swasthya-bot/server/internal/transport/twilio"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

const maxBodyBytes = 64 << 10

type Replier interface {
	Reply(ctx context.Context, in bot.Inbound) string
}

type Broadcaster interface {
	Send(ctx context.Context, message string) (broadcast.Report, error)
}

type Config struct {
	Addr           string
	BroadcastToken string
	// Validator is nil when signature checks are disabled.
	Validator *twilio.Validator
}

type handler struct {
	config      Config
	replier     Replier
	broadcaster Broadcaster
}

// NewRouter wires the routes. broadcaster may be nil, in which case
// /broadcast is not mounted.
func NewRouter(config Config, replier Replier, broadcaster Broadcaster) http.Handler {
	h := &handler{config: config, replier: replier, broadcaster: broadcaster}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/status", h.status)
	r.Post("/webhook", h.webhook)
	if broadcaster != nil {
		r.Post("/broadcast", h.broadcast)
	}
	return r
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *handler) webhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	if h.config.Validator != nil && !h.config.Validator.Valid(r) {
		logx.Warn().Str("request_id", middleware.GetReqID(r.Context())).Msg("rejected unsigned webhook")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	from := strings.TrimSpace(r.PostForm.Get("From"))
	if from == "" {
		logx.Warn().Str("request_id", middleware.GetReqID(r.Context())).Msg("webhook without sender, replying anonymously")
	}

	reply := h.replier.Reply(r.Context(), bot.Inbound{
		Sender:   from,
		Body:     r.PostForm.Get("Body"),
		Language: r.PostForm.Get("Language"),
	})

	doc, err := twilio.MessagingResponse(reply)
	if err != nil {
		logx.Error().Err(err).Msg("failed to render twiml")
		http.Error(w, errx.SystemErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", twilio.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

type broadcastRequest struct {
	Message string `json:"message"`
}

func (h *handler) broadcast(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, errx.New(errors.New("bad broadcast token"), http.StatusUnauthorized, "unauthorized"))
		return
	}

	var req broadcastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, errx.Invalid("invalid JSON body"))
		return
	}

	report, err := h.broadcaster.Send(r.Context(), req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) authorized(r *http.Request) bool {
	if h.config.BroadcastToken == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(token), []byte(h.config.BroadcastToken)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logx.Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": errx.MessageOf(err)})
}

// Server runs the router until its context is cancelled.
type Server struct {
	srv *http.Server
}

func New(config Config, replier Replier, broadcaster Broadcaster) *Server {
	return &Server{srv: &http.Server{
		Addr:              config.Addr,
		Handler:           NewRouter(config, replier, broadcaster),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logx.Info().Msg("http server shutting down")
		return s.srv.Shutdown(shutdownCtx)
	}
}
