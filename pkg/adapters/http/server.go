package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/pkg/adapters/file"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/walkthrough"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the walkthrough surface served over HTTP. *labtour.Engine implements it.
type Engine interface {
	Catalog() *domain.Catalog
	Start(ctx context.Context, sessionID, startParam string) (labtour.Result, error)
	View(ctx context.Context, sessionID string) (walkthrough.View, error)
	Advance(ctx context.Context, sessionID string) (labtour.Result, error)
	Retreat(ctx context.Context, sessionID string) (labtour.Result, error)
	JumpTo(ctx context.Context, sessionID string, index int) (labtour.Result, error)
	UpdateState(ctx context.Context, sessionID, key string, value any) (labtour.Result, error)
	Reset(ctx context.Context, sessionID string) (labtour.Result, error)
	End(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

var _ Engine = (*labtour.Engine)(nil)

// Server serves the walkthrough API.
type Server struct {
	Engine   Engine
	Streams  *StreamManager
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	name     string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithStreams shares a StreamManager, e.g. with another transport.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithName sets the catalog name reported by /info.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(0, server.logger)
	}

	router, err := newRouter()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.validateRequests(router))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(Spec())
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/scenes", server.ListScenes)
	r.Get("/events", server.SubscribeEvents)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", server.ListSessions)
		r.Post("/", server.StartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", server.GetSession)
			r.Delete("/", server.DeleteSession)
			r.Post("/advance", server.Advance)
			r.Post("/retreat", server.Retreat)
			r.Post("/jump", server.Jump)
			r.Post("/reset", server.Reset)
			r.Put("/state/{key}", server.UpdateState)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := LoadSpec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":         "labtour-http",
		"version":     strings.TrimSpace(labtour.Version),
		"api_version": apiVersion,
		"catalog":     s.name,
		"scenes":      s.Engine.Catalog().Len(),
	})
}

// ListScenes handles the GET /scenes request.
func (s *Server) ListScenes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Catalog().Scenes())
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

type startRequest struct {
	SessionID string `json:"session_id"`
}

// StartSession handles the POST /sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	var startIndex *string
	if err := runtime.BindQueryParameter("form", true, false, "start_index", r.URL.Query(), &startIndex); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	param := ""
	if startIndex != nil {
		param = *startIndex
	}

	sessionID := body.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	res, err := s.Engine.Start(r.Context(), sessionID, param)
	if err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	s.broadcast(sessionID, res.Diff)

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, res)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	view, err := s.Engine.View(r.Context(), id)
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.Engine.End(r.Context(), id); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Advance handles the POST /sessions/{id}/advance request.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "Advance", func(ctx context.Context, id string) (labtour.Result, error) {
		return s.Engine.Advance(ctx, id)
	})
}

// Retreat handles the POST /sessions/{id}/retreat request.
func (s *Server) Retreat(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "Retreat", func(ctx context.Context, id string) (labtour.Result, error) {
		return s.Engine.Retreat(ctx, id)
	})
}

// Reset handles the POST /sessions/{id}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "Reset", func(ctx context.Context, id string) (labtour.Result, error) {
		return s.Engine.Reset(ctx, id)
	})
}

type jumpRequest struct {
	Index int `json:"index"`
}

// Jump handles the POST /sessions/{id}/jump request.
func (s *Server) Jump(w http.ResponseWriter, r *http.Request) {
	var body jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(w, r, "Jump", func(ctx context.Context, id string) (labtour.Result, error) {
		return s.Engine.JumpTo(ctx, id, body.Index)
	})
}

type updateRequest struct {
	Value any `json:"value"`
}

// UpdateState handles the PUT /sessions/{id}/state/{key} request.
func (s *Server) UpdateState(w http.ResponseWriter, r *http.Request) {
	var key string
	if err := runtime.BindStyledParameterWithOptions("simple", "key", chi.URLParam(r, "key"), &key, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var body updateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	s.mutate(w, r, "UpdateState", func(ctx context.Context, id string) (labtour.Result, error) {
		return s.Engine.UpdateState(ctx, id, key, body.Value)
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (labtour.Result, error)) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	res, err := fn(r.Context(), id)
	if err != nil {
		s.fail(w, op, err)
		return
	}
	s.broadcast(id, res.Diff)
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return "", false
	}
	return id, true
}

func (s *Server) broadcast(sessionID string, diff *domain.StateDiff) {
	if diff == nil {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("failed to encode diff", "session_id", sessionID, "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(payload))
}

// fail maps domain errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidChoice):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, file.ErrInvalidSessionID):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "err", err)
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
