package transpile

import (
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// statementKinds cannot be the implicit result of a single-expression body.
var statementKinds = map[string]bool{
	"property_declaration":       true,
	"guard_statement":            true,
	"if_statement":               true,
	"switch_statement":           true,
	"for_statement":              true,
	"while_statement":            true,
	"repeat_while_statement":     true,
	"do_statement":               true,
	"control_transfer_statement": true,
	"function_declaration":       true,
	"class_declaration":          true,
	"assignment":                 true,
	"comment":                    true,
	"multiline_comment":          true,
}

// block translates a statements node into terminated statements. Bindings
// introduced by a statement are visible to the statements after it.
func (tr *translator) block(n *cst.Node, sc *Scope) []string {
	if n == nil {
		return nil
	}

	nodes := []*cst.Node{n}
	if n.Type() == "statements" {
		nodes = n.Children()
	}

	out := make([]string, 0, len(nodes))

	for _, child := range nodes {
		if child.Type() == ";" {
			continue
		}

		stmt, next := tr.statement(child, sc)
		sc = next

		if stmt != "" {
			out = append(out, terminate(stmt))
		}
	}

	return out
}

// returningBlock is block with Swift's implicit return: a body made of one
// expression yields that expression.
func (tr *translator) returningBlock(n *cst.Node, sc *Scope) []string {
	if expr := singleExpression(n); expr != nil {
		return []string{"return " + terminate(tr.expr(expr, sc))}
	}

	return tr.block(n, sc)
}

// singleExpression returns the only statement of n if it is an expression.
func singleExpression(n *cst.Node) *cst.Node {
	if n == nil {
		return nil
	}

	if n.Type() != "statements" {
		if statementKinds[n.Type()] {
			return nil
		}

		return n
	}

	var only *cst.Node

	for _, child := range n.Children() {
		if child.Type() == ";" {
			continue
		}

		if only != nil {
			return nil
		}

		only = child
	}

	if only == nil || statementKinds[only.Type()] {
		return nil
	}

	return only
}

func (tr *translator) statement(n *cst.Node, sc *Scope) (string, *Scope) {
	switch n.Type() {
	case "property_declaration":
		return tr.localProperty(n, sc)
	case "guard_statement":
		return tr.guardStatement(n, sc)
	case "if_statement":
		return tr.ifStatement(n, sc)
	case "function_declaration":
		return tr.localFunction(n, sc)
	case "class_declaration":
		fail(ErrStructuralViolation, n, "statement", "type declarations inside code blocks are not supported")
	case "statements":
		return strings.Join(tr.block(n, sc), "\n"), sc
	}

	return tr.expr(n, sc), sc
}

// terminate appends a semicolon to statements that do not end in a block or
// a comment.
func terminate(stmt string) string {
	stmt = strings.TrimRight(stmt, " \t\n")

	switch {
	case stmt == "",
		strings.HasSuffix(stmt, "}"),
		strings.HasSuffix(stmt, ";"),
		strings.HasPrefix(stmt, "//"),
		strings.HasPrefix(stmt, "/*"):
		return stmt
	}

	return stmt + ";"
}

func writeStatements(sb *strings.Builder, stmts []string) {
	for _, stmt := range stmts {
		sb.WriteString(stmt)
		sb.WriteByte('\n')
	}
}

// declarator is one `pattern [: type] [= value]` entry of a declaration.
type declarator struct {
	pattern    *cst.Node
	annotation *cst.Node
	value      *cst.Node
	extra      *cst.Node
}

// declarators splits a property_declaration into its entries and reports
// whether it declares a constant.
func declarators(n *cst.Node) ([]declarator, bool) {
	var (
		out      []declarator
		cur      *declarator
		constant bool
		afterEq  bool
	)

	for _, child := range n.Children() {
		switch child.Type() {
		case "modifiers", "attribute":
		case "let":
			constant = true
		case "var":
		case "value_binding_pattern":
			constant = strings.TrimSpace(child.Child(0).Text()) == "let" || strings.TrimSpace(child.Text()) == "let"
		case "pattern", "simple_identifier":
			if afterEq && cur != nil {
				cur.value = child
				afterEq = false

				continue
			}

			if cur != nil {
				out = append(out, *cur)
			}

			cur = &declarator{pattern: child}
			afterEq = false
		case "type_annotation":
			if cur != nil {
				cur.annotation = child
			}
		case "=":
			afterEq = true
		case ",":
			afterEq = false
		case "computed_property", "willset_didset_block":
			if cur != nil {
				cur.extra = child
			}
		default:
			if cur == nil {
				unknownKind(child, "property declaration")
			}

			if afterEq {
				cur.value = child
				afterEq = false
			} else {
				cur.extra = child
			}
		}
	}

	if cur != nil {
		out = append(out, *cur)
	}

	if len(out) == 0 {
		fail(ErrStructuralViolation, n, "property declaration", "no declared name")
	}

	return out, constant
}

// localProperty translates a declaration in statement position.
func (tr *translator) localProperty(n *cst.Node, sc *Scope) (string, *Scope) {
	decls, constant := declarators(n)

	var (
		parts    []string
		bindings []Binding
	)

	keyword := "let"
	if constant {
		keyword = "const"
	}

	for _, decl := range decls {
		if decl.extra != nil {
			fail(ErrStructuralViolation, decl.extra, "local declaration", "computed or observed locals are not supported")
		}

		pattern, names := bindingPattern(n, []*cst.Node{decl.pattern})

		var typ string
		if decl.annotation != nil {
			typ = tr.typeNode(decl.annotation, sc)
		}

		part := pattern
		if typ != "" && len(names) == 1 && !strings.HasPrefix(pattern, "[") {
			part += ": " + typ
		}

		if decl.value == nil {
			keyword = "let"
		} else {
			part += " = " + tr.typedValue(decl.value, sc, typ)
		}

		parts = append(parts, part)

		for _, b := range names {
			if len(names) == 1 {
				b.Type = typ
				if b.Type == "" {
					b.Type = tr.inferType(decl.value, sc)
				}
			}

			bindings = append(bindings, b)
		}
	}

	return keyword + " " + strings.Join(parts, ", "), sc.Add(bindings...)
}
