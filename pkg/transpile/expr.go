package transpile

import (
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// binaryKinds render as their children joined by single spaces.
var binaryKinds = map[string]bool{
	"additive_expression":       true,
	"multiplicative_expression": true,
	"comparison_expression":     true,
	"equality_expression":       true,
	"conjunction_expression":    true,
	"disjunction_expression":    true,
	"nil_coalescing_expression": true,
	"infix_expression":          true,
	"bitwise_operation":         true,
	"ternary_expression":        true,
}

// operatorTokens are leaf kinds emitted verbatim.
var operatorTokens = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"==": true, "!=": true, "===": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "!": true, "??": true,
	"&": true, "|": true, "^": true, "~": true, "<<": true, ">>": true,
	"?": true, ":": true, ".": true, ",": true,
}

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

// selfArithmetic are operators after which `self` needs a type escape.
var selfArithmetic = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"+=": true, "-=": true, "*=": true, "/=": true,
}

var rangeKinds = map[string]bool{
	"range_expression":            true,
	"open_end_range_expression":   true,
	"open_start_range_expression": true,
}

// expr translates an expression node.
func (tr *translator) expr(n *cst.Node, sc *Scope) string {
	kind := n.Type()

	switch {
	case binaryKinds[kind]:
		return tr.joined(n, sc, " ")
	case operatorTokens[kind], kind == "custom_operator":
		return n.Text()
	case rangeKinds[kind]:
		return tr.rangeCall(n, sc)
	}

	switch kind {
	case "integer_literal", "real_literal":
		return numberLiteral(n)
	case "hex_literal", "oct_literal", "bin_literal", "boolean_literal":
		return n.Text()
	case "nil":
		return "undefined"
	case "line_string_literal", "multi_line_string_literal", "raw_string_literal":
		return tr.stringLiteral(n, sc)
	case "array_literal":
		return tr.arrayLiteral(n, sc)
	case "dictionary_literal":
		return tr.dictionaryLiteral(n, sc)
	case "self_expression":
		return selfReference(n)
	case "super_expression":
		return "super"
	case "simple_identifier":
		return tr.identifier(n, sc)
	case "navigation_expression":
		text, _ := tr.navigation(n, sc)

		return text
	case "navigation_suffix":
		return navigationSuffix(n)
	case "call_expression":
		return tr.call(n, sc)
	case "assignment":
		return tr.assignment(n, sc)
	case "directly_assignable_expression":
		return tr.joined(n, sc, "")
	case "tuple_expression":
		return tr.tuple(n, sc)
	case "prefix_expression":
		return tr.prefix(n, sc, "")
	case "postfix_expression":
		return tr.joined(n, sc, "")
	case "as_expression":
		return tr.asExpression(n, sc)
	case "check_expression":
		return tr.checkExpression(n, sc)
	case "try_expression":
		return tr.tryExpression(n, sc)
	case "await_expression":
		return "await " + tr.expr(n.Child(-1), sc)
	case "lambda_literal":
		return tr.lambda(n, sc)
	case "control_transfer_statement":
		return tr.controlTransfer(n, sc)
	case "switch_statement":
		return tr.switchStatement(n, sc)
	case "for_statement":
		return tr.forStatement(n, sc)
	case "while_statement":
		return tr.whileStatement(n, sc)
	case "repeat_while_statement":
		return tr.repeatWhile(n, sc)
	case "do_statement":
		return tr.doStatement(n, sc)
	case "if_statement":
		stmt, _ := tr.ifStatement(n, sc)

		return stmt
	case "comment", "multiline_comment":
		return n.Text()
	case "value_arguments":
		fail(ErrStructuralViolation, n, "expression", "argument list outside a call")
	case "ERROR":
		fail(ErrUnknownNodeKind, n, "expression", "syntax error")
	default:
		unknownKind(n, "expression")
	}

	return ""
}

// joined translates every child and joins the results.
func (tr *translator) joined(n *cst.Node, sc *Scope, sep string) string {
	parts := make([]string, 0, n.ChildCount())

	for _, child := range n.Children() {
		if part := tr.expr(child, sc); part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, sep)
}

// numberLiteral appends a decimal point to an integer literal that is the
// target of a member access, so `25.mm` becomes `25..mm`.
func numberLiteral(n *cst.Node) string {
	text := n.Text()

	if next := n.NextSibling(); next.Type() == "navigation_suffix" &&
		!strings.ContainsAny(text, ".eE") {
		return text + "."
	}

	return text
}

func selfReference(n *cst.Node) string {
	if next := n.NextSibling(); next != nil && selfArithmetic[next.Text()] {
		return "(this as any)"
	}

	return "this"
}

func (tr *translator) identifier(n *cst.Node, sc *Scope) string {
	res := sc.Resolve(n.Text())

	switch res.Kind {
	case ResolveInstanceMember:
		return "this." + res.Target
	case ResolveLocal, ResolveStaticMember, ResolveKnownClass, ResolveFree:
	}

	return res.Target
}

// navigation translates a member access chain. The flag reports whether the
// chain names a nested class, e.g. `Outer.Inner`.
func (tr *translator) navigation(n *cst.Node, sc *Scope) (string, bool) {
	children := n.Children()
	if len(children) < 2 {
		fail(ErrStructuralViolation, n, "navigation", "expected target and suffix")
	}

	target := children[0]

	if target.Type() == "simple_identifier" && len(children) == 2 {
		member := suffixName(children[1])

		if member != "" && sc.Resolve(target.Text()).Kind != ResolveLocal {
			if nested := sc.ClassNameFor(target.Text() + "$" + member); nested != "" {
				return nested, true
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(tr.expr(target, sc))

	for _, suffix := range children[1:] {
		sb.WriteString(tr.expr(suffix, sc))
	}

	return sb.String(), false
}

func suffixName(suffix *cst.Node) string {
	if id := suffix.ChildOfType("simple_identifier"); id != nil {
		return id.Text()
	}

	return ""
}

// navigationSuffix renders `.name`, and `.0` tuple access as an index.
func navigationSuffix(n *cst.Node) string {
	if idx := n.ChildOfType("integer_literal"); idx != nil {
		return "[" + idx.Text() + "]"
	}

	return strings.ReplaceAll(n.Text(), " ", "")
}

// prefix translates unary operators and implicit member expressions. typeHint
// qualifies `.member` when the expected type is known.
func (tr *translator) prefix(n *cst.Node, sc *Scope, typeHint string) string {
	if n.ChildCount() != 2 {
		fail(ErrStructuralViolation, n, "prefix expression", "expected operator and operand")
	}

	op, operand := n.Child(0), n.Child(1)

	if op.Text() == "." {
		return tr.implicitMember(operand.Text(), sc, typeHint)
	}

	return op.Text() + tr.expr(operand, sc)
}

// implicitMember renders `.member` as `Type.member` when the type is a known
// class or imported type, and as the string ".member" otherwise.
func (tr *translator) implicitMember(member string, sc *Scope, typeHint string) string {
	if typeHint != "" && !tr.isBuiltinTarget(typeHint) && !globalTypes[typeHint] {
		return typeHint + "." + member
	}

	return `".` + member + `"`
}

// typedValue translates an initializer against its declared type.
func (tr *translator) typedValue(n *cst.Node, sc *Scope, typeHint string) string {
	if n.Type() == "prefix_expression" && n.Child(0).Text() == "." {
		return tr.prefix(n, sc, typeHint)
	}

	return tr.expr(n, sc)
}

func (tr *translator) assignment(n *cst.Node, sc *Scope) string {
	if n.ChildCount() != 3 {
		fail(ErrStructuralViolation, n, "assignment", "expected target, operator and value")
	}

	target, op, value := n.Child(0), n.Child(1), n.Child(2)

	if !assignmentOperators[op.Text()] {
		unknownKind(op, "assignment operator")
	}

	if target.Text() == "self" {
		if !sc.mutating {
			fail(ErrStructuralViolation, n, "assignment", "self reassigned outside a mutating method")
		}

		return "Object.assign(this, " + tr.expr(value, sc) + ")"
	}

	return tr.expr(target, sc) + " " + op.Text() + " " + tr.expr(value, sc)
}

func (tr *translator) asExpression(n *cst.Node, sc *Scope) string {
	operands := typeOperands(n)
	if n.ChildCount() < 3 || len(operands) == 0 {
		fail(ErrStructuralViolation, n, "cast", "expected value, operator and type")
	}

	value := tr.expr(n.Child(0), sc)
	typ := tr.typeNode(operands[len(operands)-1], sc)

	if strings.TrimSpace(n.Child(1).Text()) == "as?" {
		return "(" + typeCheck(value, typ) + " ? " + value + " : undefined)"
	}

	return "(" + value + " as " + typ + ")"
}

func (tr *translator) checkExpression(n *cst.Node, sc *Scope) string {
	operands := typeOperands(n)
	if len(operands) == 0 {
		fail(ErrStructuralViolation, n, "type check", "missing type")
	}

	return typeCheck(tr.expr(n.Child(0), sc), tr.typeNode(operands[len(operands)-1], sc))
}

// typeCheck renders a runtime type test.
func typeCheck(value, typ string) string {
	if _, primitive := wrapperTypes[typ]; primitive {
		return "typeof " + value + ` === "` + typ + `"`
	}

	return value + " instanceof " + typ
}

// tryExpression drops `try` and `try!`; `try?` yields undefined on error.
func (tr *translator) tryExpression(n *cst.Node, sc *Scope) string {
	if n.ChildCount() < 2 {
		fail(ErrStructuralViolation, n, "try", "missing expression")
	}

	value := tr.expr(n.Child(-1), sc)

	if strings.HasPrefix(strings.ReplaceAll(n.Child(0).Text(), " ", ""), "try?") {
		return "(() => {\ntry {\nreturn " + value + ";\n} catch {\nreturn undefined;\n}\n})()"
	}

	return value
}

func (tr *translator) controlTransfer(n *cst.Node, sc *Scope) string {
	if n.ChildCount() == 0 {
		fail(ErrStructuralViolation, n, "control transfer", "empty statement")
	}

	keyword := strings.TrimSpace(n.Child(0).Text())

	switch keyword {
	case "return", "throw":
		if n.ChildCount() == 1 {
			return keyword
		}

		return keyword + " " + tr.expr(n.Child(1), sc)
	case "break", "continue":
		if n.ChildCount() > 1 {
			return keyword + " " + n.Child(1).Text()
		}

		return keyword
	case "fallthrough":
		return ""
	default:
		unknownKind(n.Child(0), "control transfer")
	}

	return ""
}

func (tr *translator) arrayLiteral(n *cst.Node, sc *Scope) string {
	var items []string

	for _, child := range n.Children() {
		switch child.Type() {
		case "[", "]", ",":
		default:
			items = append(items, tr.expr(child, sc))
		}
	}

	return "[" + strings.Join(items, ", ") + "]"
}

// dictionaryLiteral renders `[k: v]` as an object literal. Literal keys are
// used verbatim; any other key expression becomes a computed key.
func (tr *translator) dictionaryLiteral(n *cst.Node, sc *Scope) string {
	var (
		entries []string
		key     string
		haveKey bool
	)

	for _, child := range n.Children() {
		switch child.Type() {
		case "[", "]", ",", ":":
			continue
		}

		value := tr.expr(child, sc)

		if !haveKey {
			key, haveKey = value, true

			if !isLiteralKind(child.Type()) {
				key = "[" + key + "]"
			}

			continue
		}

		entries = append(entries, key+": "+value)
		haveKey = false
	}

	if haveKey {
		fail(ErrStructuralViolation, n, "dictionary literal", "key without value")
	}

	if len(entries) == 0 {
		return "{}"
	}

	return "{\n" + strings.Join(entries, ",\n") + "\n}"
}

func isLiteralKind(kind string) bool {
	switch kind {
	case "line_string_literal", "integer_literal", "real_literal", "hex_literal", "oct_literal", "bin_literal":
		return true
	}

	return false
}

// inferType derives a binding type from an initializer: literal kinds and
// constructor calls of known classes.
func (tr *translator) inferType(n *cst.Node, sc *Scope) string {
	if n == nil {
		return ""
	}

	switch n.Type() {
	case "integer_literal", "real_literal", "hex_literal", "oct_literal", "bin_literal":
		return "number"
	case "line_string_literal", "multi_line_string_literal", "raw_string_literal":
		return "string"
	case "boolean_literal":
		return "boolean"
	case "call_expression":
		if callee := n.Child(0); callee.Type() == "simple_identifier" {
			return sc.ClassNameFor(callee.Text())
		}
	}

	return ""
}
