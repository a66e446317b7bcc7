// Package transpile translates a Swift concrete syntax tree into a TypeScript
// program model.
//
// Translation is a recursive descent over cst nodes dispatched by node kind.
// Each file is translated against its own persistent Scope chain and writes
// into a tsmodel.FileBuilder. Any unknown node kind or broken structural
// precondition aborts the whole file with an *Error; partial output is never
// returned.
package transpile

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// SourceParser parses Swift source into a concrete syntax tree.
type SourceParser interface {
	Parse(ctx context.Context, content []byte) (*cst.Node, error)
}

// Transpiler converts Swift sources to TypeScript files. It holds no per-file
// state and is safe for concurrent use when its parser is.
type Transpiler struct {
	parser SourceParser
	logger *slog.Logger
	tracer trace.Tracer
	opts   Options
}

// Option configures a Transpiler.
type Option func(*Transpiler)

// WithOptions replaces the type table, import map and output directory.
func WithOptions(opts Options) Option {
	return func(t *Transpiler) { t.opts = opts.clone() }
}

// WithLogger sets the logger used for warnings and debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transpiler) { t.logger = logger }
}

// WithTracer sets the tracer used for per-file spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Transpiler) { t.tracer = tracer }
}

// New creates a Transpiler that parses sources (including interpolated
// string segments) with parser.
func New(parser SourceParser, opts ...Option) *Transpiler {
	t := &Transpiler{
		parser: parser,
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer(""),
		opts:   DefaultOptions(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Options returns the options in effect.
func (t *Transpiler) Options() Options { return t.opts.clone() }

// Transpile parses content and translates it. name is the source path used to
// derive the output path.
func (t *Transpiler) Transpile(ctx context.Context, name string, content []byte) (*tsmodel.SourceFile, error) {
	ctx, span := t.tracer.Start(ctx, "tswift.transpile",
		trace.WithAttributes(attribute.String("tswift.file", name), attribute.Int("tswift.bytes", len(content))))
	defer span.End()

	root, err := t.parser.Parse(ctx, content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")

		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	file, err := t.TranspileTree(ctx, name, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "translation failed")

		return nil, err
	}

	return file, nil
}

// TranspileTree translates an already parsed tree.
func (t *Transpiler) TranspileTree(ctx context.Context, name string, root *cst.Node) (file *tsmodel.SourceFile, err error) {
	out := tsmodel.NewSourceFile(t.opts.OutputPath(name))
	tr := &translator{
		ctx:    ctx,
		opts:   t.opts,
		parser: t.parser,
		logger: t.logger.With("file", name),
		file: &fileState{
			out:           out,
			known:         make(map[string]bool),
			defaultModule: t.opts.RuntimeModule,
			extensions:    make(map[string]int),
		},
	}

	defer catch(&err)

	tr.sourceFile(root)
	tr.logger.DebugContext(ctx, "translated", "classes", len(out.ClassNames()))

	return out, nil
}

// translator holds the state of one file translation.
type translator struct {
	ctx      context.Context
	parser   SourceParser
	logger   *slog.Logger
	file     *fileState
	topLevel *overloadSets
	opts     Options
}

func (tr *translator) sourceFile(root *cst.Node) {
	if root.Type() != "source_file" {
		fail(ErrStructuralViolation, root, "root", "expected source_file")
	}

	tr.prescanClasses(root, "")

	sc := newScope(tr.file)
	sc = sc.Add(topLevelFunctionNames(root)...)
	tr.topLevel = newOverloadSets()

	for _, child := range root.Children() {
		sc = tr.topLevelNode(child, sc)
	}

	tr.topLevel.flushFunctions(tr)
}

func (tr *translator) topLevelNode(n *cst.Node, sc *Scope) *Scope {
	switch n.Type() {
	case "import_declaration":
		tr.importDecl(n)
	case "comment", "multiline_comment":
		tr.file.out.AddStatements(n.Text())
	case "class_declaration":
		tr.classDecl(n, sc)
	case "function_declaration":
		tr.topLevelFunction(n, sc)
	case "typealias_declaration":
		stmt, name := tr.typeAlias(n, sc)
		tr.file.out.AddStatements(stmt)

		return sc.Add(Binding{Name: name, Type: "type"})
	case ";":
	default:
		stmt, next := tr.statement(n, sc)
		tr.file.out.AddStatements(terminate(stmt))

		return next
	}

	return sc
}

// importDecl records a mapped module as the file's default import source.
func (tr *translator) importDecl(n *cst.Node) {
	if n.ChildCount() < 2 {
		fail(ErrStructuralViolation, n, "import", "missing module name")
	}

	module := n.Child(-1).Text()

	mapped, ok := tr.opts.ImportMap[module]
	if !ok {
		tr.logger.Debug("unmapped import ignored", "module", module)

		return
	}

	if tr.file.defaultModule == tr.opts.RuntimeModule {
		tr.file.defaultModule = mapped
	}
}

// prescanClasses records every class-like declaration name so that forward
// references resolve as known classes.
func (tr *translator) prescanClasses(n *cst.Node, outer string) {
	for _, child := range n.Children() {
		if child.Type() != "class_declaration" {
			continue
		}

		kind, name := declarationHead(child)
		if kind == "extension" || name == "" {
			continue
		}

		if outer != "" {
			name = outer + "$" + name
		}

		tr.file.known[name] = true

		if body := child.Child(-1); body.Is("class_body", "enum_class_body") {
			tr.prescanClasses(body, name)
		}
	}
}

// declarationHead returns the declaration keyword and declared name of a
// class_declaration.
func declarationHead(n *cst.Node) (string, string) {
	var kind string

	for _, child := range n.Children() {
		switch child.Type() {
		case "class", "struct", "enum", "extension", "actor":
			if kind == "" {
				kind = child.Type()
			}
		case "type_identifier", "user_type":
			if kind != "" {
				return kind, child.Text()
			}
		}
	}

	return kind, ""
}

func topLevelFunctionNames(root *cst.Node) []Binding {
	var out []Binding

	for _, child := range root.Children() {
		if child.Type() != "function_declaration" {
			continue
		}

		if name := child.ChildOfType("simple_identifier"); name != nil {
			out = append(out, Binding{Name: name.Text(), Type: "function"})
		}
	}

	return out
}

// typeAlias renders `typealias A = B` and returns the alias name.
func (tr *translator) typeAlias(n *cst.Node, sc *Scope) (string, string) {
	name := n.ChildOfType("type_identifier")
	operands := typeOperands(n)

	if name == nil || len(operands) == 0 {
		fail(ErrStructuralViolation, n, "typealias", "expected name and type")
	}

	return "export type " + name.Text() + " = " + tr.typeNode(operands[len(operands)-1], sc) + ";", name.Text()
}
