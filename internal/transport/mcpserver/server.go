package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/log"
)

const sessionID = "mcp-stdio"

// Server exposes the tool registry to MCP clients, so an assistant in
// another app can record leads and questions the same way the persona does.
type Server struct {
	mcp   *server.MCPServer
	tools core.ToolRegistry
}

func New(tools core.ToolRegistry) *Server {
	s := &Server{
		mcp:   server.NewMCPServer(core.AppName, core.AppVersion, server.WithToolCapabilities(false)),
		tools: tools,
	}

	for _, def := range tools.Definitions() {
		tool := mcp.NewToolWithRawSchema(def.Function.Name, def.Function.Description, def.Function.Parameters)
		s.mcp.AddTool(tool, s.handler(def.Function.Name))
	}
	return s
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := log.FromCtx(ctx)

		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		res, err := s.tools.Call(core.WithSessionID(ctx, sessionID), name, args)
		if err != nil {
			logger.Warn().Err(err).Str("tool", name).Msg("mcp tool call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		logger.Info().Str("tool", name).Msg("mcp tool call")
		return mcp.NewToolResultText(res), nil
	}
}

// MCP returns the underlying server, for in-process clients.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
// Nothing else may write to out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer, errOut io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(errOut, "mcp: ", 0))

	log.FromCtx(ctx).Info().Int("tools", len(s.tools.Definitions())).Msg("serving mcp over stdio")

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio server failed: %w", err)
	}
	return nil
}
