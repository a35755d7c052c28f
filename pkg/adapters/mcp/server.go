package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ModulesURI is the resource listing the names the host can resolve.
const ModulesURI = "graft://modules"

// ResolveResponse is the structured output of the resolve tool.
type ResolveResponse struct {
	Value any `json:"value" jsonschema_description:"The fully resolved configuration"`
}

// Server wraps a resolver and exposes it as an MCP Server.
type Server struct {
	resolver  ports.Resolver
	lister    ports.Lister
	convert   ports.Converter
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLister exposes the host's module names as a tool and a resource.
func WithLister(l ports.Lister) Option {
	return func(s *Server) { s.lister = l }
}

// WithConverter sets the leaf converter used by the resolve tool.
func WithConverter(c ports.Converter) Option {
	return func(s *Server) { s.convert = c }
}

// NewServer creates a new MCP Server instance.
func NewServer(resolver ports.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver:  resolver,
		mcpServer: server.NewMCPServer("graft-mcp", strings.TrimSpace(graft.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
// It returns when ctx is done or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	resolveTool := mcp.NewTool("resolve",
		mcp.WithDescription("Resolve a configuration tree: every node with a 'require' key is replaced by the referenced module, invoked with its 'options' when it is a function."),
		mcp.WithString("config", mcp.Required(), mcp.Description("JSON document to resolve")),
		mcp.WithString("parent", mcp.Description("Path of the file the document is declared in, used to resolve relative references (optional)")),
		mcp.WithOutputSchema[ResolveResponse](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolve))

	if s.lister == nil {
		return
	}
	s.mcpServer.AddTool(mcp.NewTool("list_modules",
		mcp.WithDescription("List the module names the host can resolve."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.modulesJSON(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ResolveResponse, error) {
	raw, _ := args["config"].(string)
	if raw == "" {
		return ResolveResponse{}, fmt.Errorf("config is required")
	}
	parent, _ := args["parent"].(string)

	config, err := codec.Decode("config.json", []byte(raw))
	if err != nil {
		return ResolveResponse{}, err
	}

	value, err := s.resolver.Resolve(ctx, config, parent, s.convert)
	if err != nil {
		return ResolveResponse{}, fmt.Errorf("resolve failed: %w", err)
	}
	return ResolveResponse{Value: value}, nil
}

func (s *Server) modulesJSON(ctx context.Context) (string, error) {
	names, err := s.lister.List(ctx)
	if err != nil {
		return "", err
	}
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Server) registerResources() {
	if s.lister == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(ModulesURI, "Available Modules",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.modulesJSON(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list modules: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ModulesURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}
