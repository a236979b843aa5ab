// Package mcp exposes the advisor's read-only tools over the Model Context
// Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/campus-advisor/internal/tools"
)

const (
	serverName    = "campus-advisor"
	serverVersion = "1.0.0"
)

// Invoker runs registry tools by name.
type Invoker interface {
	Definitions() []tools.Definition
	InvokeJSON(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Server wraps an MCPServer with the tool dispatcher.
type Server struct {
	mcp     *mcpserver.MCPServer
	invoker Invoker
	tools   []string
	logger  *slog.Logger
}

// NewServer creates an MCP server offering every read-only tool of the
// registry. Tools that write outside the process are not exposed.
func NewServer(invoker Invoker, logger *slog.Logger) (*Server, error) {
	s := &Server{
		invoker: invoker,
		logger:  logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
	)

	for _, def := range invoker.Definitions() {
		if !def.ReadOnly {
			continue
		}
		tool, err := buildTool(def)
		if err != nil {
			return nil, err
		}
		mcpSrv.AddTool(tool, s.handleTool)
		s.tools = append(s.tools, def.Name)
	}

	s.mcp = mcpSrv
	return s, nil
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// ToolNames lists the exposed tools in registration order.
func (s *Server) ToolNames() []string {
	return append([]string(nil), s.tools...)
}

// HTTPHandler returns a stateless streamable-HTTP transport for the server.
func (s *Server) HTTPHandler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithStateLess(true))
}

// HandleTool is the exported handler shared by every tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleTool(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleTool(ctx, req)
}

func (s *Server) handleTool(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	name := req.Params.Name
	args, err := json.Marshal(req.GetArguments())
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("encoding arguments: %v", err)), nil
	}

	result, err := s.invoker.InvokeJSON(ctx, name, args)
	if err != nil {
		if errors.Is(err, tools.ErrToolNotFound) {
			return mcpgo.NewToolResultError(err.Error()), nil
		}
		s.logger.Error("mcp tool call failed", "tool", name, "error", err)
		return mcpgo.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
	}
	s.logger.Debug("mcp tool call", "tool", name)
	return mcpgo.NewToolResultText(result), nil
}

// --- tool definitions ---

func buildTool(def tools.Definition) (mcpgo.Tool, error) {
	schema, err := json.Marshal(def.Parameters)
	if err != nil {
		return mcpgo.Tool{}, fmt.Errorf("mcp: encoding schema for %s: %w", def.Name, err)
	}
	tool := mcpgo.NewToolWithRawSchema(def.Name, def.Description, schema)
	tool.Annotations.ReadOnlyHint = mcpgo.ToBoolPtr(def.ReadOnly)
	return tool, nil
}
