// Package server exposes the tool registry as an MCP server. The
// wire format is the Model Context Protocol over stdio; tests connect
// through in-memory transports instead.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/filepatch/filepatch/internal/tools"
	"github.com/filepatch/filepatch/internal/version"
)

// Server adapts a ToolRouter to MCP.
type Server struct {
	router *tools.ToolRouter
	log    *slog.Logger
}

// New creates a Server over the given router. A nil logger discards.
func New(router *tools.ToolRouter, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{router: router, log: logger}
}

// Build constructs the underlying MCP server with every routed tool
// registered. Exposed for tests that drive it over in-memory
// transports.
func (s *Server) Build() *gomcp.Server {
	srv := gomcp.NewServer(&gomcp.Implementation{
		Name:    "filepatch",
		Version: version.Version,
	}, nil)

	for _, spec := range s.router.GetToolSpecs() {
		srv.AddTool(&gomcp.Tool{
			Name:        spec.Name,
			Description: spec.Description,
			InputSchema: spec.InputSchema(),
		}, s.toolHandler(spec.Name))
	}
	return srv
}

// Run serves MCP over stdio until ctx is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	srv := s.Build()
	s.log.Info("serving MCP over stdio", "tools", len(s.router.GetToolSpecs()))
	return srv.Run(ctx, &gomcp.StdioTransport{})
}

// toolHandler bridges one MCP tool call into the registry. Validation
// errors and tool-level failures both surface as IsError results so
// the client sees the message; only transport-level problems become
// protocol errors.
func (s *Server) toolHandler(name string) gomcp.ToolHandler {
	return func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		args, err := decodeArguments(req)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out, err := s.router.DispatchToolCall(ctx, &tools.ToolInvocation{
			ToolName:  name,
			Arguments: args,
		})
		if err != nil {
			s.log.Debug("tool call rejected", "tool", name, "error", err)
			return errorResult(err.Error()), nil
		}

		isError := out.Success != nil && !*out.Success
		if isError {
			s.log.Debug("tool call failed", "tool", name)
		}
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: out.Content}},
			IsError: isError,
		}, nil
	}
}

// decodeArguments normalizes the request arguments to a generic map
// via a JSON round trip, which handles both raw and pre-decoded
// argument payloads.
func decodeArguments(req *gomcp.CallToolRequest) (map[string]interface{}, error) {
	raw, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return map[string]interface{}{}, nil
	}
	var args map[string]interface{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func errorResult(message string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: message}},
		IsError: true,
	}
}
