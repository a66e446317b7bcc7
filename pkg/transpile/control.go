package transpile

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// condition is one clause of an if, guard or while header: either a plain
// expression or an optional binding (`let x = value`, optionally `as? T`).
type condition struct {
	expr    *cst.Node
	value   *cst.Node
	binding string
	keyword string
}

// parseConditions splits header nodes into conditions.
func parseConditions(nodes []*cst.Node) []condition {
	var (
		out []condition
		cur *condition
	)

	closeCurrent := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, child := range nodes {
		switch kind := child.Type(); kind {
		case "if_condition", "condition":
			closeCurrent()
			out = append(out, parseConditions(child.Children())...)
		case "let", "var", "value_binding_pattern":
			closeCurrent()

			cur = &condition{keyword: strings.TrimSpace(child.Child(0).Text())}
			if child.ChildCount() == 0 {
				cur.keyword = strings.TrimSpace(child.Text())
			}

			if child.ChildCount() > 1 {
				cur.binding = strings.TrimSpace(child.Child(-1).Text())
			}
		case ",":
			closeCurrent()
		case "=", "type_annotation", "(", ")":
		default:
			switch {
			case cur == nil:
				out = append(out, condition{expr: child})
			case cur.binding == "":
				cur.binding = strings.TrimSpace(child.Text())
			default:
				cur.value = child
			}
		}
	}

	closeCurrent()

	return out
}

// bindingValue unwraps `value as? T` into the value node and the mapped type.
func (tr *translator) bindingValue(c condition, sc *Scope) (*cst.Node, string) {
	value := c.value
	if value == nil || value.Type() != "as_expression" || value.ChildCount() < 3 ||
		strings.TrimSpace(value.Child(1).Text()) != "as?" {
		return value, ""
	}

	operands := typeOperands(value)
	if len(operands) == 0 {
		fail(ErrStructuralViolation, value, "conditional cast", "missing type")
	}

	return value.Child(0), tr.typeNode(operands[len(operands)-1], sc)
}

// conditionHeader renders a conjunction of conditions. Optional bindings are
// hoisted as declarations and tested with an inline assignment.
func (tr *translator) conditionHeader(conds []condition, sc *Scope) ([]string, string, []Binding) {
	var (
		hoist    []string
		parts    []string
		bindings []Binding
	)

	for _, c := range conds {
		if c.binding == "" {
			parts = append(parts, tr.expr(c.expr, sc))

			continue
		}

		name := c.binding
		valueNode, castType := tr.bindingValue(c, sc)

		value := name
		if valueNode != nil {
			value = tr.expr(valueNode, sc)
		}

		if value == name {
			parts = append(parts, name+" != null")
		} else {
			if !sc.DeclaredInBlock(name) && !slices.ContainsFunc(bindings, func(b Binding) bool { return b.Name == name }) {
				hoist = append(hoist, "let "+name+";")
			}

			parts = append(parts, "("+name+" = "+value+") != null")
		}

		if castType != "" {
			parts = append(parts, typeCheck(name, castType))
		}

		bindings = append(bindings, Binding{Name: name, Type: castType})
	}

	if len(parts) == 0 {
		parts = append(parts, "true")
	}

	return hoist, strings.Join(parts, " && "), bindings
}

// blockAt returns the statements between the brace at open and its closing
// brace, and the index of the closing brace.
func blockAt(n *cst.Node, children []*cst.Node, open int) (*cst.Node, int) {
	if open < 0 || open >= len(children) || children[open].Type() != "{" {
		fail(ErrStructuralViolation, n, n.Type(), "expected block")
	}

	if open+1 < len(children) && children[open+1].Type() == "statements" {
		return children[open+1], open + 2
	}

	return nil, open + 1
}

func indexOf(children []*cst.Node, kind string) int {
	return slices.IndexFunc(children, func(c *cst.Node) bool { return c.Type() == kind })
}

func (tr *translator) ifStatement(n *cst.Node, sc *Scope) (string, *Scope) {
	hoist, text, bindings := tr.ifParts(n, sc)

	if len(hoist) == 0 {
		return text, sc
	}

	return strings.Join(hoist, "\n") + "\n" + text, sc.Add(bindings...)
}

func (tr *translator) ifParts(n *cst.Node, sc *Scope) ([]string, string, []Binding) {
	children := n.Children()
	open := indexOf(children, "{")

	if open < 1 {
		fail(ErrStructuralViolation, n, "if", "missing body")
	}

	hoist, cond, bindings := tr.conditionHeader(parseConditions(children[1:open]), sc)
	then, closeIdx := blockAt(n, children, open)

	var sb strings.Builder

	sb.WriteString("if (" + cond + ") {\n")
	writeStatements(&sb, tr.block(then, sc.Add(bindings...).EnterBlock()))
	sb.WriteString("}")

	if closeIdx+1 < len(children) && children[closeIdx+1].Type() == "else" {
		if closeIdx+2 >= len(children) {
			fail(ErrStructuralViolation, n, "if", "else without body")
		}

		alt := children[closeIdx+2]

		switch alt.Type() {
		case "if_statement":
			nestedHoist, nested, _ := tr.ifParts(alt, sc)
			if len(nestedHoist) > 0 {
				sb.WriteString(" else {\n" + strings.Join(nestedHoist, "\n") + "\n" + nested + "\n}")
			} else {
				sb.WriteString(" else " + nested)
			}
		case "{":
			stmts, _ := blockAt(n, children, closeIdx+2)
			sb.WriteString(" else {\n")
			writeStatements(&sb, tr.block(stmts, sc.EnterBlock()))
			sb.WriteString("}")
		default:
			unknownKind(alt, "else branch")
		}
	}

	var hoisted []Binding

	for _, b := range bindings {
		if !sc.DeclaredInBlock(b.Name) {
			hoisted = append(hoisted, b)
		}
	}

	return hoist, sb.String(), hoisted
}

// guardStatement emits one early exit per condition. Bound names are declared
// in the enclosing scope so the continuation can use them.
func (tr *translator) guardStatement(n *cst.Node, sc *Scope) (string, *Scope) {
	children := n.Children()
	elseIdx := indexOf(children, "else")

	if elseIdx < 1 {
		fail(ErrStructuralViolation, n, "guard", "missing else")
	}

	elseBody, _ := blockAt(n, children, elseIdx+1)
	exit := tr.block(elseBody, sc.EnterBlock())

	if len(exit) == 0 {
		fail(ErrStructuralViolation, n, "guard", "else body must exit the scope")
	}

	var lines []string

	for _, c := range parseConditions(children[1:elseIdx]) {
		if c.binding == "" {
			lines = append(lines, exitIf("!("+tr.expr(c.expr, sc)+")", exit))

			continue
		}

		name := c.binding
		valueNode, castType := tr.bindingValue(c, sc)

		if valueNode != nil {
			value := tr.expr(valueNode, sc)

			switch {
			case value == name:
			case sc.DeclaredInBlock(name):
				lines = append(lines, name+" = "+value+";")
			case c.keyword == "var":
				lines = append(lines, "let "+name+" = "+value+";")
			default:
				lines = append(lines, "const "+name+" = "+value+";")
			}
		}

		test := name + " == null"
		if castType != "" {
			test += " || !(" + typeCheck(name, castType) + ")"
		}

		lines = append(lines, exitIf(test, exit))
		sc = sc.Add(Binding{Name: name, Type: castType})
	}

	return strings.Join(lines, "\n"), sc
}

func exitIf(test string, body []string) string {
	var sb strings.Builder

	sb.WriteString("if (" + test + ") {\n")
	writeStatements(&sb, body)
	sb.WriteString("}")

	return sb.String()
}

// switchStatement maps each entry to its case labels sharing one block.
// Dotted patterns are qualified with the class of the subject.
func (tr *translator) switchStatement(n *cst.Node, sc *Scope) string {
	children := n.Children()
	open := indexOf(children, "{")

	if open < 2 {
		fail(ErrStructuralViolation, n, "switch", "missing subject")
	}

	subjectNode := children[1]

	var sb strings.Builder

	sb.WriteString("switch (" + tr.expr(subjectNode, sc) + ") {\n")

	for _, entry := range children[open+1:] {
		switch entry.Type() {
		case "}":
			continue
		case "switch_entry":
		case "comment", "multiline_comment":
			sb.WriteString(entry.Text() + "\n")

			continue
		default:
			unknownKind(entry, "switch")
		}

		tr.switchEntry(&sb, entry, subjectNode, sc)
	}

	sb.WriteString("}")

	return sb.String()
}

func (tr *translator) switchEntry(sb *strings.Builder, entry, subject *cst.Node, sc *Scope) {
	var (
		labels []string
		body   *cst.Node
	)

	for _, child := range entry.Children() {
		switch child.Type() {
		case "case", ",", ":":
		case "default_keyword", "default":
			labels = append(labels, "default:")
		case "switch_pattern":
			labels = append(labels, "case "+tr.casePattern(child, subject, sc)+":")
		case "statements":
			body = child
		case "where_keyword", "where_clause":
			fail(ErrStructuralViolation, child, "switch case", "where clauses are not supported")
		default:
			unknownKind(child, "switch entry")
		}
	}

	if len(labels) == 0 {
		fail(ErrStructuralViolation, entry, "switch case", "no case labels")
	}

	stmts := tr.block(body, sc.EnterBlock())

	sb.WriteString(strings.Join(labels, "\n"))
	sb.WriteString(" {\n")
	writeStatements(sb, stmts)

	if !fallsThrough(body) {
		sb.WriteString("break;\n")
	}

	sb.WriteString("}\n")
}

func fallsThrough(body *cst.Node) bool {
	last := body.Child(-1)

	return last.Type() == "control_transfer_statement" && strings.TrimSpace(last.Child(0).Text()) == "fallthrough"
}

func (tr *translator) casePattern(pattern, subject *cst.Node, sc *Scope) string {
	text := strings.TrimSpace(pattern.Text())

	if strings.HasPrefix(text, ".") {
		class := tr.subjectClass(subject, sc)
		if class == "" {
			fail(ErrStructuralViolation, pattern, "switch case", "cannot resolve the class of the switch subject")
		}

		return class + text
	}

	if strings.HasPrefix(text, "let ") || strings.HasPrefix(text, "var ") {
		fail(ErrStructuralViolation, pattern, "switch case", "binding patterns are not supported")
	}

	node := pattern
	for node.ChildCount() == 1 && node.Is("switch_pattern", "pattern") {
		node = node.Child(0)
	}

	if node.Is("switch_pattern", "pattern") {
		return text
	}

	return tr.expr(node, sc)
}

// subjectClass resolves the declared class of a switch subject.
func (tr *translator) subjectClass(subject *cst.Node, sc *Scope) string {
	switch subject.Type() {
	case "self_expression":
		return sc.ClassName()
	case "simple_identifier":
		name := subject.Text()

		if typ, ok := sc.Lookup(name); ok {
			return typ
		}

		if typ := memberType(sc, name); typ != "" {
			return typ
		}
	case "navigation_expression":
		if subject.Child(0).Type() == "self_expression" {
			if typ := memberType(sc, suffixName(subject.Child(1))); typ != "" {
				return typ
			}
		}
	}

	return sc.ClassName()
}

// memberType returns the declared type of an instance member of the
// enclosing class.
func memberType(sc *Scope, name string) string {
	if sc.class == nil || sc.class.builder == nil {
		return ""
	}

	if prop, ok := sc.class.builder.Property(name); ok {
		return prop.Type
	}

	for _, acc := range sc.class.builder.Accessors() {
		if acc.Name == name && acc.Kind == tsmodel.Getter {
			return acc.ReturnType
		}
	}

	return ""
}

func (tr *translator) forStatement(n *cst.Node, sc *Scope) string {
	children := n.Children()
	in := indexOf(children, "in")
	open := indexOf(children, "{")

	if in < 2 || open < in+2 {
		fail(ErrStructuralViolation, n, "for", "expected pattern, collection and body")
	}

	pattern, names := bindingPattern(n, children[1:in])
	subject := tr.expr(children[in+1], sc)

	body := sc.EnterBlock().Add(names...)
	stmts, _ := blockAt(n, children, open)

	var sb strings.Builder

	sb.WriteString("for (const " + pattern + " of " + subject + ") {\n")

	for _, child := range children[in+2 : open] {
		if child.Type() != "where_clause" {
			unknownKind(child, "for")
		}

		sb.WriteString("if (!(" + tr.expr(child.Child(-1), body) + ")) {\ncontinue;\n}\n")
	}

	writeStatements(&sb, tr.block(stmts, body))
	sb.WriteString("}")

	return sb.String()
}

// bindingPattern renders loop and declaration patterns. Tuple patterns
// destructure as arrays.
func bindingPattern(at *cst.Node, nodes []*cst.Node) (string, []Binding) {
	var (
		names []string
		tuple bool
	)

	var collect func(n *cst.Node)

	collect = func(n *cst.Node) {
		switch n.Type() {
		case "simple_identifier":
			names = append(names, n.Text())
		case "wildcard_pattern", "_":
			names = append(names, "")
		case "(":
			tuple = true
		case "type_annotation":
		default:
			for _, child := range n.Children() {
				collect(child)
			}
		}
	}

	for _, node := range nodes {
		if node.Is("case", "let", "var", "value_binding_pattern") {
			continue
		}

		collect(node)
	}

	if len(names) == 0 {
		fail(ErrStructuralViolation, at, "pattern", "no bound names")
	}

	var bindings []Binding

	for _, name := range names {
		if name != "" {
			bindings = append(bindings, Binding{Name: name})
		}
	}

	if !tuple && len(names) == 1 {
		if names[0] == "" {
			return "_", nil
		}

		return names[0], bindings
	}

	return "[" + strings.Join(names, ", ") + "]", bindings
}

func (tr *translator) whileStatement(n *cst.Node, sc *Scope) string {
	children := n.Children()
	open := indexOf(children, "{")

	if open < 2 {
		fail(ErrStructuralViolation, n, "while", "missing condition")
	}

	hoist, cond, bindings := tr.conditionHeader(parseConditions(children[1:open]), sc)
	stmts, _ := blockAt(n, children, open)

	var sb strings.Builder

	for _, line := range hoist {
		sb.WriteString(line + "\n")
	}

	sb.WriteString("while (" + cond + ") {\n")
	writeStatements(&sb, tr.block(stmts, sc.Add(bindings...).EnterBlock()))
	sb.WriteString("}")

	return sb.String()
}

func (tr *translator) repeatWhile(n *cst.Node, sc *Scope) string {
	children := n.Children()
	open := indexOf(children, "{")
	stmts, closeIdx := blockAt(n, children, open)

	if closeIdx+2 >= len(children) || children[closeIdx+1].Type() != "while" {
		fail(ErrStructuralViolation, n, "repeat", "missing while condition")
	}

	var sb strings.Builder

	sb.WriteString("do {\n")
	writeStatements(&sb, tr.block(stmts, sc.EnterBlock()))
	sb.WriteString("} while (" + tr.expr(children[closeIdx+2], sc) + ");")

	return sb.String()
}

// doStatement renders do/catch as try/catch. The caught value is bound as
// `error` unless the catch clause names it.
func (tr *translator) doStatement(n *cst.Node, sc *Scope) string {
	children := n.Children()
	stmts, closeIdx := blockAt(n, children, indexOf(children, "{"))

	var catches []*cst.Node

	for _, child := range children[closeIdx+1:] {
		if child.Type() != "catch_block" {
			unknownKind(child, "do")
		}

		catches = append(catches, child)
	}

	var sb strings.Builder

	if len(catches) == 0 {
		sb.WriteString("{\n")
		writeStatements(&sb, tr.block(stmts, sc.EnterBlock()))
		sb.WriteString("}")

		return sb.String()
	}

	if len(catches) > 1 {
		fail(ErrStructuralViolation, catches[1], "do", "multiple catch clauses are not supported")
	}

	sb.WriteString("try {\n")
	writeStatements(&sb, tr.block(stmts, sc.EnterBlock()))

	name := "error"
	catchChildren := catches[0].Children()

	for _, child := range catchChildren {
		if child.Type() == "pattern" || child.Type() == "simple_identifier" {
			if id := cst.Find(child, "simple_identifier"); id != nil {
				name = id.Text()
			}
		}
	}

	handler, _ := blockAt(catches[0], catchChildren, indexOf(catchChildren, "{"))

	sb.WriteString("} catch (" + name + ") {\n")
	writeStatements(&sb, tr.block(handler, sc.EnterBlock().Add(Binding{Name: name})))
	sb.WriteString("}")

	return sb.String()
}
