package transpile_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
)

var errUnparsable = errors.New("no fixture for source")

// stubParser returns hand-built trees keyed by source text.
type stubParser struct {
	trees map[string]*cst.Node
}

func (p stubParser) Parse(_ context.Context, content []byte) (*cst.Node, error) {
	if tree, ok := p.trees[string(content)]; ok {
		return tree, nil
	}

	return nil, errUnparsable
}

func node(kind string, children ...*cst.Node) *cst.Node { return cst.New(kind, "", children...) }

func tok(kind string) *cst.Node { return cst.Leaf(kind) }

func ident(name string) *cst.Node { return cst.Leaf("simple_identifier", name) }

func integer(v string) *cst.Node { return cst.Leaf("integer_literal", v) }

func str(text string) *cst.Node { return cst.Leaf("line_string_literal", `"`+text+`"`) }

func source(children ...*cst.Node) *cst.Node { return node("source_file", children...) }

func stmts(children ...*cst.Node) *cst.Node { return node("statements", children...) }

func userType(name string) *cst.Node { return node("user_type", cst.Leaf("type_identifier", name)) }

func optional(typ *cst.Node) *cst.Node { return node("optional_type", typ, tok("?")) }

func annotation(typ *cst.Node) *cst.Node { return node("type_annotation", tok(":"), typ) }

func binary(kind string, lhs *cst.Node, op string, rhs *cst.Node) *cst.Node {
	return node(kind, lhs, tok(op), rhs)
}

func member(target *cst.Node, name string) *cst.Node {
	return node("navigation_expression", target, node("navigation_suffix", tok("."), ident(name)))
}

func implicitMember(name string) *cst.Node { return node("prefix_expression", tok("."), ident(name)) }

func ret(value *cst.Node) *cst.Node {
	if value == nil {
		return node("control_transfer_statement", tok("return"))
	}

	return node("control_transfer_statement", tok("return"), value)
}

// property builds `keyword name[: typ] [= value]`.
func property(keyword, name string, typ, value *cst.Node, extra ...*cst.Node) *cst.Node {
	children := []*cst.Node{tok(keyword), node("pattern", ident(name))}

	if typ != nil {
		children = append(children, annotation(typ))
	}

	if value != nil {
		children = append(children, tok("="), value)
	}

	children = append(children, extra...)

	return node("property_declaration", children...)
}

func withModifiers(decl *cst.Node, mods ...string) *cst.Node {
	leaves := make([]*cst.Node, 0, len(mods))
	for _, mod := range mods {
		leaves = append(leaves, cst.Leaf("member_modifier", mod))
	}

	children := append([]*cst.Node{node("modifiers", leaves...)}, decl.Children()...)

	return node(decl.Type(), children...)
}

func arg(value *cst.Node) *cst.Node { return node("value_argument", value) }

func labeled(label string, value *cst.Node) *cst.Node {
	return node("value_argument", node("value_argument_label", ident(label)), tok(":"), value)
}

func call(callee *cst.Node, args ...*cst.Node) *cst.Node {
	list := []*cst.Node{tok("(")}

	for idx, a := range args {
		if idx > 0 {
			list = append(list, tok(","))
		}

		list = append(list, a)
	}

	list = append(list, tok(")"))

	return node("call_expression", callee, node("call_suffix", node("value_arguments", list...)))
}

func closure(body ...*cst.Node) *cst.Node {
	return node("lambda_literal", tok("{"), stmts(body...), tok("}"))
}

func trailing(callee, lambda *cst.Node) *cst.Node {
	return node("call_expression", callee, node("call_suffix", lambda))
}

// param builds a parameter; an empty label means the label equals the name.
func param(label, name string, typ *cst.Node) *cst.Node {
	if label == "" {
		return node("parameter", ident(name), tok(":"), typ)
	}

	return node("parameter", ident(label), ident(name), tok(":"), typ)
}

func fnBody(body ...*cst.Node) *cst.Node {
	return node("function_body", tok("{"), stmts(body...), tok("}"))
}

func paramList(params []*cst.Node) []*cst.Node {
	out := []*cst.Node{tok("(")}

	for idx, p := range params {
		if idx > 0 {
			out = append(out, tok(","))
		}

		out = append(out, p)
	}

	return append(out, tok(")"))
}

func function(name string, params []*cst.Node, result *cst.Node, body ...*cst.Node) *cst.Node {
	children := append([]*cst.Node{tok("func"), ident(name)}, paramList(params)...)

	if result != nil {
		children = append(children, tok("->"), result)
	}

	children = append(children, fnBody(body...))

	return node("function_declaration", children...)
}

func initializer(params []*cst.Node, body ...*cst.Node) *cst.Node {
	children := append([]*cst.Node{tok("init")}, paramList(params)...)
	children = append(children, fnBody(body...))

	return node("init_declaration", children...)
}

func typeDecl(keyword, name string, members ...*cst.Node) *cst.Node {
	body := append([]*cst.Node{tok("{")}, members...)
	body = append(body, tok("}"))

	return node("class_declaration", tok(keyword), cst.Leaf("type_identifier", name), node("class_body", body...))
}

func enumDecl(name string, raw *cst.Node, entries ...*cst.Node) *cst.Node {
	body := append([]*cst.Node{tok("{")}, entries...)
	body = append(body, tok("}"))

	children := []*cst.Node{tok("enum"), cst.Leaf("type_identifier", name)}
	if raw != nil {
		children = append(children, tok(":"), node("inheritance_specifier", raw))
	}

	return node("class_declaration", append(children, node("enum_class_body", body...))...)
}

func extension(target string, members ...*cst.Node) *cst.Node {
	body := append([]*cst.Node{tok("{")}, members...)
	body = append(body, tok("}"))

	return node("class_declaration", tok("extension"), userType(target), node("class_body", body...))
}

func assign(target *cst.Node, op string, value *cst.Node) *cst.Node {
	return node("assignment", node("directly_assignable_expression", target), tok(op), value)
}

// translate runs a tree through a fresh transpiler and returns the flattened
// output text.
func translate(t *testing.T, root *cst.Node, trees ...map[string]*cst.Node) string {
	t.Helper()

	parser := stubParser{trees: map[string]*cst.Node{}}
	for _, set := range trees {
		for k, v := range set {
			parser.trees[k] = v
		}
	}

	file, err := transpile.New(parser).TranspileTree(context.Background(), "main.swift", root)
	require.NoError(t, err)

	return flatten(file.Text())
}

// translateErr runs a tree expected to fail.
func translateErr(t *testing.T, root *cst.Node) error {
	t.Helper()

	file, err := transpile.New(stubParser{}).TranspileTree(context.Background(), "main.swift", root)
	require.Error(t, err)
	require.Nil(t, file)

	return err
}

// flatten strips indentation and blank lines so assertions ignore layout.
func flatten(text string) string {
	var lines []string

	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
