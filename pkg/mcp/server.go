// Package mcp implements a Model Context Protocol server exposing the Swift to
// TypeScript translator as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
	"github.com/Sumatoshi-tech/tswift/pkg/version"
)

const (
	serverName = "tswift"
	toolCount  = 2
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional recorder. Nil disables per-tool metrics.
	Metrics *metrics.Recorder

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Parser parses Swift sources. Nil uses the tree-sitter parser.
	Parser transpile.SourceParser

	// Options are the translation tables. Nil uses transpile.DefaultOptions.
	Options *transpile.Options
}

// Server wraps the MCP SDK server with the tswift tool registrations.
type Server struct {
	inner      *mcpsdk.Server
	parser     transpile.SourceParser
	transpiler *transpile.Transpiler
	metrics    *metrics.Recorder
	tracer     trace.Tracer
	mu         sync.RWMutex
	tools      []string
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: version.Version,
		},
		opts,
	)

	parser := deps.Parser
	if parser == nil {
		parser = cst.NewParser()
	}

	tOpts := []transpile.Option{}
	if deps.Options != nil {
		tOpts = append(tOpts, transpile.WithOptions(*deps.Options))
	}

	if deps.Logger != nil {
		tOpts = append(tOpts, transpile.WithLogger(deps.Logger))
	}

	if deps.Tracer != nil {
		tOpts = append(tOpts, transpile.WithTracer(deps.Tracer))
	}

	srv := &Server{
		inner:      inner,
		parser:     parser,
		transpiler: transpile.New(parser, tOpts...),
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		tools:      make([]string, 0, toolCount),
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameTranspile,
		Description: transpileToolDescription,
	}, withMetrics(s.metrics, ToolNameTranspile, withTracing(s.tracer, ToolNameTranspile, s.handleTranspile)))

	s.trackTool(ToolNameTranspile)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameParse,
		Description: parseToolDescription,
	}, withMetrics(s.metrics, ToolNameParse, withTracing(s.tracer, ToolNameParse, s.handleParse)))

	s.trackTool(ToolNameParse)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps a tool handler in a server span and appends trace_id to
// the response content when the span is sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)
		if err != nil || (result != nil && result.IsError) {
			span.SetStatus(codes.Error, "tool failed")
		}

		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps a tool handler to count invocations by status.
func withMetrics[Input any](
	rec *metrics.Recorder,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if rec == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		result, output, err := handler(ctx, req, input)

		status := metrics.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = metrics.StatusError
		}

		rec.ObserveToolCall(toolName, status)

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

const (
	transpileToolDescription = "Translate Swift source code into TypeScript. " +
		"Returns the output path and the TypeScript text."

	parseToolDescription = "Parse Swift source code and return its concrete syntax tree " +
		"as JSON or as an indented tree."
)
