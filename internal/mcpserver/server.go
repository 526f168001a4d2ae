// Package mcpserver exposes a tool catalog as a Model Context Protocol server.
//
// Each tool call runs with an event sink in its context. When the client asks
// for progress, status events are forwarded as progress notifications:
// "crawling" is reported as progress 0 and the terminal event as progress 1,
// with the event description as message. A call whose terminal status is
// "error" returns its text with IsError set.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leofalp/webcrawl/providers/tool"
	"github.com/leofalp/webcrawl/providers/tool/webcrawl"
)

const (
	DefaultName    = "webcrawl"
	DefaultVersion = "0.1.0"
)

// Server wraps an MCP server built from a tool catalog.
type Server struct {
	mcp    *mcpsdk.Server
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*options)

type options struct {
	version string
	logger  *slog.Logger
}

// WithVersion sets the version reported to clients.
func WithVersion(version string) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithLogger sets the logger. Logs must not go to stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New registers every tool of catalog on a new MCP server.
func New(catalog *tool.Catalog, opts ...Option) (*Server, error) {
	o := &options{version: DefaultVersion, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	s := &Server{
		mcp:    mcpsdk.NewServer(&mcpsdk.Implementation{Name: DefaultName, Version: o.version}, nil),
		logger: o.logger,
	}

	tools := catalog.Tools()
	for _, name := range catalog.Names() {
		t := tools[name]
		mcpTool, err := toMCPTool(t.ToolInfo())
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", name, err)
		}
		s.mcp.AddTool(mcpTool, s.handler(t))
		s.logger.Debug("mcp tool registered", "tool", mcpTool.Name)
	}
	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcpsdk.Server {
	return s.mcp
}

// Run serves over stdin/stdout until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcpsdk.StdioTransport{})
}

// toMCPTool converts tool metadata to an MCP tool. The parameter schema must
// describe an object.
func toMCPTool(info tool.Info) (*mcpsdk.Tool, error) {
	inputSchema := map[string]any{"type": "object"}
	if info.Parameters != nil {
		raw, err := json.Marshal(info.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal input schema: %w", err)
		}
		inputSchema = map[string]any{}
		if err := json.Unmarshal(raw, &inputSchema); err != nil {
			return nil, fmt.Errorf("unmarshal input schema: %w", err)
		}
		if inputSchema["type"] != "object" {
			return nil, fmt.Errorf("input schema type is %v, want object", inputSchema["type"])
		}
	}

	return &mcpsdk.Tool{
		Name:        info.Name,
		Description: info.Description,
		InputSchema: inputSchema,
	}, nil
}

func (s *Server) handler(t tool.GenericTool) mcpsdk.ToolHandler {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var notify notifyFunc
		if token := req.Params.Meta["progressToken"]; token != nil && req.Session != nil {
			session := req.Session
			notify = func(ctx context.Context, params *mcpsdk.ProgressNotificationParams) error {
				params.ProgressToken = token
				return session.NotifyProgress(ctx, params)
			}
		}
		return s.invoke(ctx, t, req.Params.Arguments, notify), nil
	}
}

type notifyFunc func(ctx context.Context, params *mcpsdk.ProgressNotificationParams) error

// invoke calls t with a status sink installed and builds the MCP result.
func (s *Server) invoke(ctx context.Context, t tool.GenericTool, arguments json.RawMessage, notify notifyFunc) *mcpsdk.CallToolResult {
	sink := &progressSink{notify: notify}
	ctx = webcrawl.ContextWithEventSink(ctx, sink)

	input := string(arguments)
	if input == "" {
		input = "{}"
	}

	name := t.ToolInfo().Name
	text, err := t.Call(ctx, input)
	if err != nil {
		s.logger.Debug("mcp tool error", "tool", name, "error", err)
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		}
	}

	return &mcpsdk.CallToolResult{
		IsError: sink.failed(),
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

// progressSink turns status events into progress notifications and remembers
// the terminal status.
type progressSink struct {
	notify notifyFunc

	mu       sync.Mutex
	terminal webcrawl.Status
}

func (p *progressSink) Emit(ctx context.Context, event webcrawl.StatusEvent) error {
	if event.Done {
		p.mu.Lock()
		p.terminal = event.Status
		p.mu.Unlock()
	}
	if p.notify == nil {
		return nil
	}

	progress := 0.0
	if event.Done {
		progress = 1
	}
	return p.notify(ctx, &mcpsdk.ProgressNotificationParams{
		Message:  event.Description,
		Progress: progress,
		Total:    1,
	})
}

func (p *progressSink) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminal == webcrawl.StatusError
}
