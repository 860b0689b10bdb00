// Package mcp implements the RPC surface of the gateway: every registered
// tool exposed as an MCP-callable method over a stdio or streamable-HTTP
// transport, plus the static prompt catalog capability.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/opsgate/internal/common"
	"github.com/bobmcallan/opsgate/internal/config"
	"github.com/bobmcallan/opsgate/internal/registry"
)

// serverName is the MCP server identity advertised during initialization.
const serverName = "opsgate"

// Gateway wraps mcp-go's MCPServer with transport selection, session mode,
// and lifecycle management. Transport and session mode are fixed at
// construction; there is no hot transport switch.
type Gateway struct {
	mcpServer   *mcpserver.MCPServer
	streamable  *mcpserver.StreamableHTTPServer
	stdioCancel context.CancelFunc
	logger      *common.Logger

	transport   string
	sessionMode string
	toolCount   int
	promptCount int

	ready atomic.Bool
}

// NewGateway builds the MCP surface over the given registry and prompt
// catalog. Every tool definition is registered as an RPC-callable method
// with its cached translated schema; invocation delegates to the same
// handler the REST router calls, so behavior is identical across protocols
// by construction.
func NewGateway(cfg *config.Config, reg *registry.Registry, prompts []PromptDescriptor, logger *common.Logger, deps any) (*Gateway, error) {
	g := &Gateway{
		logger:      logger,
		transport:   cfg.Gateway.Transport,
		sessionMode: cfg.Gateway.SessionMode,
	}

	g.mcpServer = mcpserver.NewMCPServer(
		serverName,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
	)

	if err := g.registerTools(reg, deps); err != nil {
		return nil, err
	}
	g.registerPrompts(prompts)

	if g.transport == config.TransportHTTP {
		g.streamable = mcpserver.NewStreamableHTTPServer(g.mcpServer,
			mcpserver.WithStateLess(g.sessionMode == config.SessionStateless),
		)
	}

	logger.Info().
		Str("transport", g.transport).
		Str("session_mode", g.sessionMode).
		Int("tools", g.toolCount).
		Int("prompts", g.promptCount).
		Msg("MCP gateway initialized")

	return g, nil
}

// registerTools exposes every registry definition as an MCP tool.
func (g *Gateway) registerTools(reg *registry.Registry, deps any) error {
	for _, name := range reg.Names() {
		def, ok := reg.Get(name)
		if !ok {
			continue
		}
		wire, ok := reg.WireSchema(name)
		if !ok {
			continue
		}

		raw, err := json.Marshal(wire)
		if err != nil {
			return fmt.Errorf("failed to encode schema for tool %q: %w", name, err)
		}

		tool := mcp.NewToolWithRawSchema(def.Name, def.Description, raw)
		g.mcpServer.AddTool(tool, toolHandler(def, g.logger, deps))
		g.toolCount++
	}
	return nil
}

// registerPrompts exposes the static catalog through the prompt capability.
func (g *Gateway) registerPrompts(prompts []PromptDescriptor) {
	for _, p := range prompts {
		prompt := mcp.NewPrompt(p.Name,
			mcp.WithPromptDescription(p.Description),
		)
		g.mcpServer.AddPrompt(prompt, promptHandler(p))
		g.promptCount++
	}
}

// toolHandler adapts a registry definition to the MCP calling convention.
// Handler failures become tool error results, never protocol errors, to
// mirror the REST router's envelope semantics.
func toolHandler(def *registry.Definition, logger *common.Logger, deps any) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rc := registry.NewRequestContext(logger, deps)

		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := invoke(ctx, def, args, rc)
		if err != nil {
			rc.Logger.Warn().
				Str("tool", def.Name).
				Str("error", err.Error()).
				Msg("tool execution failed")
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode tool result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}

// invoke runs the tool handler, converting a panic into an error so one
// misbehaving tool cannot take down the transport.
func invoke(ctx context.Context, def *registry.Definition, args map[string]any, rc *registry.RequestContext) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool panicked: %v", rec)
		}
	}()
	return def.Handler(ctx, args, rc)
}

// promptHandler serves one static prompt body.
func promptHandler(p PromptDescriptor) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return mcp.NewGetPromptResult(p.Description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(p.Content)),
		}), nil
	}
}

// Start brings up the selected transport. On stdio the serve loop runs in
// its own goroutine (stdout carries the protocol); on http the streamable
// handler becomes live and the multiplexer owns the listener. Ready is
// flipped synchronously so callers can query it immediately.
func (g *Gateway) Start() error {
	if g.ready.Load() {
		return fmt.Errorf("gateway already started")
	}

	switch g.transport {
	case config.TransportStdio:
		ctx, cancel := context.WithCancel(context.Background())
		g.stdioCancel = cancel
		stdio := mcpserver.NewStdioServer(g.mcpServer)
		go func() {
			err := stdio.Listen(ctx, os.Stdin, os.Stdout)
			if err != nil && ctx.Err() == nil {
				g.logger.Error().Str("error", err.Error()).Msg("stdio transport stopped")
				g.ready.Store(false)
			}
		}()
	case config.TransportHTTP:
		// Listener is owned by the protocol multiplexer; nothing to bind here.
	default:
		return fmt.Errorf("unknown transport %q", g.transport)
	}

	g.ready.Store(true)
	return nil
}

// Stop tears down the transport, proactively ending any open sessions
// rather than waiting for them to drain.
func (g *Gateway) Stop(ctx context.Context) error {
	g.ready.Store(false)

	if g.stdioCancel != nil {
		g.stdioCancel()
		g.stdioCancel = nil
	}

	if g.streamable != nil {
		if err := g.streamable.Shutdown(ctx); err != nil {
			return fmt.Errorf("streamable shutdown failed: %w", err)
		}
	}
	return nil
}

// IsReady reports transport liveness.
func (g *Gateway) IsReady() bool {
	return g.ready.Load()
}

// HTTPHandler returns the streamable HTTP handler for the multiplexer, or
// nil when the gateway runs on stdio.
func (g *Gateway) HTTPHandler() http.Handler {
	if g.streamable == nil {
		return nil
	}
	return g.streamable
}

// Transport returns the selected transport kind.
func (g *Gateway) Transport() string {
	return g.transport
}

// SessionMode returns the selected session mode.
func (g *Gateway) SessionMode() string {
	return g.sessionMode
}

// ToolCount returns the number of tools exposed over this surface.
func (g *Gateway) ToolCount() int {
	return g.toolCount
}

// PromptCount returns the number of prompts exposed over this surface.
func (g *Gateway) PromptCount() int {
	return g.promptCount
}
