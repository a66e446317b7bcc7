package mcp_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/mcp"
	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
)

var errNoTree = errors.New("no tree for input")

// fixedParser returns a prepared tree for "let x = 1" and fails otherwise.
type fixedParser struct{}

func (fixedParser) Parse(_ context.Context, content []byte) (*cst.Node, error) {
	if strings.TrimSpace(string(content)) != "let x = 1" {
		return nil, errNoTree
	}

	return cst.New("source_file", "",
		cst.New("property_declaration", "",
			cst.Leaf("let"),
			cst.New("pattern", "", cst.Leaf("simple_identifier", "x")),
			cst.Leaf("="),
			cst.Leaf("integer_literal", "1"),
		),
	), nil
}

func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callText(t *testing.T, session *mcpsdk.ClientSession, tool string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: tool, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestServer_ListsTools(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{Parser: fixedParser{}})
	assert.Equal(t, []string{mcp.ToolNameParse, mcp.ToolNameTranspile}, srv.ListToolNames())

	session := connect(t, srv)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 2)

	for _, tool := range tools.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

func TestServer_TranspileReturnsTypeScript(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Parser: fixedParser{}}))

	text, isErr := callText(t, session, mcp.ToolNameTranspile, map[string]any{
		"code":      "let x = 1",
		"file_name": "Sources/App.swift",
	})

	require.False(t, isErr, text)
	assert.Contains(t, text, `"path": "Sources/App.ts"`)
	assert.Contains(t, text, "const x = 1;")
}

func TestServer_TranspileReportsTranslationErrors(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Parser: fixedParser{}}))

	text, isErr := callText(t, session, mcp.ToolNameTranspile, map[string]any{"code": "struct S {}"})

	assert.True(t, isErr)
	assert.Contains(t, text, errNoTree.Error())
}

func TestServer_RejectsEmptyAndOversizedCode(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Parser: fixedParser{}}))

	text, isErr := callText(t, session, mcp.ToolNameTranspile, map[string]any{"code": ""})
	assert.True(t, isErr)
	assert.Contains(t, text, "code parameter is required")

	text, isErr = callText(t, session, mcp.ToolNameParse, map[string]any{
		"code": strings.Repeat("a", mcp.MaxCodeInputBytes+1),
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "exceeds maximum size")
}

func TestServer_ParseFormats(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{Parser: fixedParser{}}))

	text, isErr := callText(t, session, mcp.ToolNameParse, map[string]any{"code": "let x = 1"})
	require.False(t, isErr, text)
	assert.Contains(t, text, `"type": "source_file"`)
	assert.Contains(t, text, `"text": "1"`)

	text, isErr = callText(t, session, mcp.ToolNameParse, map[string]any{"code": "let x = 1", "format": "tree"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "source_file\n  property_declaration\n")

	text, isErr = callText(t, session, mcp.ToolNameParse, map[string]any{"code": "let x = 1", "format": "xml"})
	assert.True(t, isErr)
	assert.Contains(t, text, "format must be json or tree")
}

func TestServer_TracingAndMetrics(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	rec := metrics.NewRecorder()

	session := connect(t, mcp.NewServer(mcp.ServerDeps{
		Parser:  fixedParser{},
		Tracer:  tp.Tracer("test"),
		Metrics: rec,
	}))

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameTranspile,
		Arguments: map[string]any{"code": "let x = 1"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(last.Text, "trace_id="))

	names := map[string]bool{}
	for _, span := range exporter.GetSpans() {
		names[span.Name] = true
	}

	assert.True(t, names["mcp.swift_transpile"])
	assert.True(t, names["tswift.transpile"])

	_, _ = callText(t, session, mcp.ToolNameTranspile, map[string]any{"code": ""})

	count, err := testutil.GatherAndCount(rec.Gatherer(), "tswift_mcp_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
