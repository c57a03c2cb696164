package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/labtour"
	"github.com/aretw0/labtour/internal/logging"
	"github.com/aretw0/labtour/pkg/domain"
	"github.com/aretw0/labtour/pkg/walkthrough"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource exposing the scene catalog.
const CatalogURI = "labtour://catalog"

// Engine defines what the MCP server needs from the walkthrough engine.
type Engine interface {
	Catalog() *domain.Catalog
	Start(ctx context.Context, sessionID, startParam string) (labtour.Result, error)
	View(ctx context.Context, sessionID string) (walkthrough.View, error)
	Advance(ctx context.Context, sessionID string) (labtour.Result, error)
	Retreat(ctx context.Context, sessionID string) (labtour.Result, error)
	JumpTo(ctx context.Context, sessionID string, index int) (labtour.Result, error)
	UpdateState(ctx context.Context, sessionID, key string, value any) (labtour.Result, error)
	Reset(ctx context.Context, sessionID string) (labtour.Result, error)
}

var _ Engine = (*labtour.Engine)(nil)

// SessionArgs identifies the session a tool operates on.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// StartArgs are the arguments of start_session.
type StartArgs struct {
	SessionID  string `json:"session_id,omitempty"`
	StartIndex string `json:"start_index,omitempty"`
}

// JumpArgs are the arguments of jump.
type JumpArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

// UpdateArgs are the arguments of update_state.
type UpdateArgs struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
}

// Response is the structured result of every session tool.
type Response struct {
	View     walkthrough.View `json:"view" jsonschema_description:"The scene, progress and accumulated choices after the call"`
	Moved    bool             `json:"moved" jsonschema_description:"Whether the current scene changed"`
	Complete bool             `json:"complete" jsonschema_description:"Set when advance was called on the last scene"`
	Created  bool             `json:"created,omitempty" jsonschema_description:"Set by start_session when the session is new"`
}

// Server exposes the walkthrough engine as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
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

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("labtour-mcp", strings.TrimSpace(labtour.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on the given port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription("List the scenes of the lab in walkthrough order."),
	), s.handleListScenes)

	sessionParam := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier returned by start_session"))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a walkthrough session, or resume it if it already exists."),
		mcp.WithString("session_id", mcp.Description("Session identifier (generated when omitted)")),
		mcp.WithString("start_index", mcp.Description("Deep link to a scene index. Invalid values are ignored.")),
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("view",
		mcp.WithDescription("Show the current scene, progress and accumulated choices."),
		sessionParam,
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("advance",
		mcp.WithDescription("Move to the next scene. On the last scene the walkthrough completes instead."),
		sessionParam,
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.session(s.engine.Advance)))

	s.mcpServer.AddTool(mcp.NewTool("retreat",
		mcp.WithDescription("Move to the previous scene. Does nothing on the first scene."),
		sessionParam,
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.session(s.engine.Retreat)))

	s.mcpServer.AddTool(mcp.NewTool("jump",
		mcp.WithDescription("Jump to a scene by index. Out of range indices are ignored."),
		sessionParam,
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Zero-based scene index")),
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.handleJump))

	s.mcpServer.AddTool(mcp.NewTool("update_state",
		mcp.WithDescription("Record a choice in the session. applicationMethod accepts Foliar Spray, Soil Amendment or Seed Coating."),
		sessionParam,
		mcp.WithString("key", mcp.Required(), mcp.Description("State key")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to store")),
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.handleUpdate))

	s.mcpServer.AddTool(mcp.NewTool("reset",
		mcp.WithDescription("Return to the first scene and clear every recorded choice."),
		sessionParam,
		mcp.WithOutputSchema[Response](),
	), mcp.NewStructuredToolHandler(s.session(s.engine.Reset)))
}

func (s *Server) handleListScenes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(s.engine.Catalog().Scenes())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode catalog: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (Response, error) {
	id := strings.TrimSpace(args.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	res, err := s.engine.Start(ctx, id, args.StartIndex)
	if err != nil {
		return Response{}, fmt.Errorf("start failed: %w", err)
	}
	return toResponse(res), nil
}

func (s *Server) handleView(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (Response, error) {
	if err := requireSession(args.SessionID); err != nil {
		return Response{}, err
	}
	view, err := s.engine.View(ctx, args.SessionID)
	if err != nil {
		return Response{}, fmt.Errorf("view failed: %w", err)
	}
	return Response{View: view}, nil
}

func (s *Server) handleJump(ctx context.Context, request mcp.CallToolRequest, args JumpArgs) (Response, error) {
	if err := requireSession(args.SessionID); err != nil {
		return Response{}, err
	}
	res, err := s.engine.JumpTo(ctx, args.SessionID, args.Index)
	if err != nil {
		return Response{}, fmt.Errorf("jump failed: %w", err)
	}
	return toResponse(res), nil
}

func (s *Server) handleUpdate(ctx context.Context, request mcp.CallToolRequest, args UpdateArgs) (Response, error) {
	if err := requireSession(args.SessionID); err != nil {
		return Response{}, err
	}
	if strings.TrimSpace(args.Key) == "" {
		return Response{}, errors.New("key is required")
	}
	res, err := s.engine.UpdateState(ctx, args.SessionID, args.Key, args.Value)
	if err != nil {
		s.logger.Warn("MCP update_state rejected", "session_id", args.SessionID, "key", args.Key, "err", err)
		return Response{}, fmt.Errorf("update_state failed: %w", err)
	}
	return toResponse(res), nil
}

// session adapts a session-scoped engine operation to a structured tool handler.
func (s *Server) session(op func(context.Context, string) (labtour.Result, error)) func(context.Context, mcp.CallToolRequest, SessionArgs) (Response, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (Response, error) {
		if err := requireSession(args.SessionID); err != nil {
			return Response{}, err
		}
		res, err := op(ctx, args.SessionID)
		if err != nil {
			return Response{}, err
		}
		return toResponse(res), nil
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Lab scene catalog",
		mcp.WithResourceDescription("Ordered scenes of the virtual lab"),
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.engine.Catalog().Scenes())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func requireSession(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("session_id is required")
	}
	return nil
}

func toResponse(res labtour.Result) Response {
	return Response{View: res.View, Moved: res.Moved, Complete: res.Complete, Created: res.Created}
}
