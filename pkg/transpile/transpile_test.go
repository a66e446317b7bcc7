package transpile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
)

func newTracedTranspiler(parser transpile.SourceParser) (*transpile.Transpiler, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return transpile.New(parser, transpile.WithTracer(tp.Tracer("test"))), exporter
}

func TestTranspile_RecordsSpanPerFile(t *testing.T) {
	t.Parallel()

	content := "let x = 1"
	parser := stubParser{trees: map[string]*cst.Node{
		content: source(property("let", "x", nil, integer("1"))),
	}}

	tr, exporter := newTracedTranspiler(parser)

	file, err := tr.Transpile(context.Background(), "src/Main.swift", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, "src/Main.ts", file.Path())
	assert.Contains(t, file.Text(), "const x = 1;")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "tswift.transpile", spans[0].Name)
	assert.NotEqual(t, codes.Error, spans[0].Status.Code)
}

func TestTranspile_ParseErrorIsWrapped(t *testing.T) {
	t.Parallel()

	tr, exporter := newTracedTranspiler(stubParser{})

	_, err := tr.Transpile(context.Background(), "bad.swift", []byte("???"))
	require.ErrorIs(t, err, errUnparsable)
	assert.Contains(t, err.Error(), "parse bad.swift")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestTranspile_TranslationErrorMarksSpan(t *testing.T) {
	t.Parallel()

	content := "???"
	parser := stubParser{trees: map[string]*cst.Node{content: source(node("ERROR", ident("x")))}}

	tr, exporter := newTracedTranspiler(parser)

	file, err := tr.Transpile(context.Background(), "bad.swift", []byte(content))
	require.ErrorIs(t, err, transpile.ErrUnknownNodeKind)
	assert.Nil(t, file)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
}

func TestTranspile_RootMustBeSourceFile(t *testing.T) {
	t.Parallel()

	err := translateErr(t, stmts(ident("x")))

	require.ErrorIs(t, err, transpile.ErrStructuralViolation)
}

func TestTranspile_ErrorMessageNamesNode(t *testing.T) {
	t.Parallel()

	bad := node("mystery", ident("x")).WithLine(7)

	err := translateErr(t, source(bad))

	assert.Equal(t, `unknown node kind [mystery "x" in expression at line 7]`, err.Error())
}

func TestTranspile_UnresolvedTypeName(t *testing.T) {
	t.Parallel()

	err := translateErr(t, source(property("let", "x", userType("not a type"), integer("1"))))

	require.ErrorIs(t, err, transpile.ErrUnresolvedType)
}

func TestTranspile_OutDirPrefixesOutputPath(t *testing.T) {
	t.Parallel()

	opts := transpile.DefaultOptions()
	opts.OutDir = "out"

	tr := transpile.New(stubParser{}, transpile.WithOptions(opts))

	file, err := tr.TranspileTree(context.Background(), "App.swift", source())
	require.NoError(t, err)
	assert.Equal(t, "out/App.ts", file.Path())
}

func TestTranspile_OptionsAreCopied(t *testing.T) {
	t.Parallel()

	opts := transpile.DefaultOptions()
	tr := transpile.New(stubParser{}, transpile.WithOptions(opts))

	opts.BuiltInTypes["Int"] = "bigint"

	assert.Equal(t, "number", tr.Options().BuiltInTypes["Int"])
}

func TestTranspile_MappedImportBecomesDefaultModule(t *testing.T) {
	t.Parallel()

	out := translate(t, source(
		node("import_declaration", tok("import"), node("identifier", ident("SwiftUI"))),
		property("let", "label", nil, call(ident("Text"), arg(str("hi")))),
		property("let", "r", nil, binary("range_expression", integer("0"), "..<", integer("2"))),
	))

	assert.Contains(t, out, `import { Text } from "@tswift/ui";`)
	assert.Contains(t, out, `import { range } from "@tswift/util";`)
	assert.Contains(t, out, `const label = Text("hi");`)
}

func TestTranspile_CustomBuiltinTable(t *testing.T) {
	t.Parallel()

	opts := transpile.DefaultOptions()
	opts.BuiltInTypes["UUID"] = "string"

	file, err := transpile.New(stubParser{}, transpile.WithOptions(opts)).TranspileTree(context.Background(), "a.swift",
		source(property("var", "id", userType("UUID"), str("x"))))
	require.NoError(t, err)

	assert.Contains(t, file.Text(), `let id: string = "x";`)
	assert.False(t, file.HasImport("UUID"))
}

func TestTranspile_TopLevelOverloadsMerge(t *testing.T) {
	t.Parallel()

	out := translate(t, source(
		function("area", []*cst.Node{param("", "side", userType("Double"))}, userType("Double"),
			binary("multiplicative_expression", ident("side"), "*", ident("side"))),
		function("area", []*cst.Node{param("", "width", userType("Double")), param("", "height", userType("Double"))},
			userType("Double"), binary("multiplicative_expression", ident("width"), "*", ident("height"))),
		property("let", "a", nil, call(ident("area"), labeled("side", integer("2")))),
	))

	assert.Contains(t, out, "export function area(...$args: any[]): number {")
	assert.Contains(t, out, `if ($named ? "width" in $named && "height" in $named : $args.length === 2) {`)
	assert.Contains(t, out, `throw new Error("no overload of area matches the given arguments");`)
	assert.Contains(t, out, "const a = area({side: 2});")
}

func TestTranspile_DefaultParameterWidensArity(t *testing.T) {
	t.Parallel()

	withDefault := node("parameter", ident("times"), tok(":"), userType("Int"), tok("="), integer("1"))

	out := translate(t, source(
		function("repeatIt", []*cst.Node{param("_", "s", userType("String")), withDefault}, nil),
		function("repeatIt", nil, nil),
	))

	assert.Contains(t, out, "if ($args.length >= 1 && $args.length <= 2) {")
	assert.Contains(t, out, "const times: number = $args[1] ?? 1;")
	assert.Contains(t, out, "if ($args.length === 0) {")
	assert.NotContains(t, out, "$named")
}

func TestTranspile_TypeAliasBindsName(t *testing.T) {
	t.Parallel()

	alias := node("typealias_declaration", tok("typealias"), cst.Leaf("type_identifier", "Score"), tok("="), userType("Int"))

	out := translate(t, source(
		alias,
		property("var", "s", userType("Score"), integer("0")),
	))

	assert.Contains(t, out, "export type Score = number;")
	assert.Contains(t, out, "let s: Score = 0;")
	assert.NotContains(t, out, "import { Score }")
}

func TestTranspile_LocalFunctionKeepsPlainParameters(t *testing.T) {
	t.Parallel()

	out := translate(t, source(
		function("outer", nil, nil,
			function("inner", []*cst.Node{param("_", "v", userType("Int"))}, userType("Int"), ident("v")),
			call(ident("inner"), arg(integer("3"))),
		),
	))

	assert.Contains(t, out, "function inner(v: number): number {\nreturn v;\n}")
	assert.Contains(t, out, "inner(3);")
}
