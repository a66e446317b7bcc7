package transpile

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// argument is one call argument; Name is empty for positional arguments.
type argument struct {
	Name  string
	Value string
}

// call translates a call expression. Calls of known classes become `new`
// expressions, calls of builtin type names become conversions, and free
// function names are imported from the file default module.
func (tr *translator) call(n *cst.Node, sc *Scope) string {
	if n.ChildCount() < 2 {
		fail(ErrStructuralViolation, n, "call", "expected callee and arguments")
	}

	callee := n.Child(0)
	suffix := n.Child(-1)

	if suffix.Type() != "call_suffix" {
		unknownKind(suffix, "call suffix")
	}

	args := tr.callSuffix(suffix, sc)

	return tr.callee(callee, sc) + args
}

func (tr *translator) callee(n *cst.Node, sc *Scope) string {
	switch n.Type() {
	case "simple_identifier":
		name := n.Text()

		if mapped, ok := tr.opts.BuiltInTypes[name]; ok {
			if wrapper, ok := wrapperTypes[mapped]; ok {
				return wrapper
			}
		}

		res := sc.Resolve(name)

		switch res.Kind {
		case ResolveKnownClass:
			return "new " + res.Target
		case ResolveInstanceMember:
			return "this." + res.Target
		case ResolveFree:
			return tr.mapType(sc, name, "")
		case ResolveLocal, ResolveStaticMember:
		}

		return res.Target
	case "navigation_expression":
		if isSuperInit(n) {
			return "super"
		}

		text, isClass := tr.navigation(n, sc)
		if isClass {
			return "new " + text
		}

		return text
	case "prefix_expression":
		if n.Child(0).Text() == "." {
			return "." + n.Child(1).Text()
		}
	}

	return tr.expr(n, sc)
}

func isSuperInit(n *cst.Node) bool {
	return n.ChildCount() == 2 && n.Child(0).Type() == "super_expression" && suffixName(n.Child(1)) == "init"
}

// callSuffix renders the argument list, including trailing closures and
// subscripts.
func (tr *translator) callSuffix(n *cst.Node, sc *Scope) string {
	var (
		args      []argument
		subscript bool
	)

	for _, child := range n.Children() {
		switch child.Type() {
		case "value_arguments":
			if child.Child(0).Type() == "[" {
				subscript = true
			}

			args = append(args, tr.valueArguments(child, sc)...)
		case "lambda_literal":
			args = append(args, argument{Value: tr.lambda(child, sc)})
		case "annotated_lambda":
			args = append(args, argument{Value: tr.lambda(child.ChildOfType("lambda_literal"), sc)})
		default:
			unknownKind(child, "call suffix")
		}
	}

	if subscript {
		values := make([]string, 0, len(args))
		for _, arg := range args {
			values = append(values, arg.Value)
		}

		return "[" + strings.Join(values, ", ") + "]"
	}

	return "(" + tr.renderArguments(n, args) + ")"
}

// renderArguments emits positional arguments as a list and fully labeled
// arguments as a single object literal. Mixing the two is rejected.
func (tr *translator) renderArguments(at *cst.Node, args []argument) string {
	if len(args) == 0 {
		return ""
	}

	named := 0

	for _, arg := range args {
		if arg.Name != "" {
			named++
		}
	}

	switch named {
	case 0:
		values := make([]string, 0, len(args))
		for _, arg := range args {
			values = append(values, arg.Value)
		}

		return strings.Join(values, ", ")
	case len(args):
		fields := make([]string, 0, len(args))
		for _, arg := range args {
			fields = append(fields, arg.Name+": "+arg.Value)
		}

		return "{" + strings.Join(fields, ", ") + "}"
	default:
		fail(ErrStructuralViolation, at, "call arguments", "labeled and unlabeled arguments mixed")
	}

	return ""
}

func (tr *translator) valueArguments(n *cst.Node, sc *Scope) []argument {
	var args []argument

	for _, child := range n.Children() {
		switch child.Type() {
		case "(", ")", "[", "]", ",":
		case "value_argument":
			args = append(args, tr.valueArgument(child, sc))
		default:
			unknownKind(child, "value arguments")
		}
	}

	return args
}

func (tr *translator) valueArgument(n *cst.Node, sc *Scope) argument {
	var (
		arg     argument
		pending *cst.Node
	)

	for _, child := range n.Children() {
		switch {
		case child.Type() == "value_argument_label":
			arg.Name = strings.TrimSpace(child.Text())
		case child.Type() == ":" && pending == nil && arg.Name != "":
		case child.Type() == ":":
			if pending == nil {
				fail(ErrStructuralViolation, n, "argument", "label separator without label")
			}

			arg.Name = pending.Text()
			pending = nil
			arg.Value = ""
		case rangeKinds[child.Type()]:
			fail(ErrStructuralViolation, child, "argument", "range used as an argument")
		case child.Type() == "simple_identifier" && arg.Name == "" && arg.Value == "":
			pending = child
			arg.Value = tr.expr(child, sc)
		case operatorTokens[child.Type()] || child.Type() == "custom_operator":
			arg.Value = tr.runtime("operator") + "(" + strconv.Quote(child.Text()) + ")"
		default:
			arg.Value = tr.expr(child, sc)
		}
	}

	return arg
}

// tuple translates a tuple expression. A single unlabeled element is a
// parenthesized expression; tuples in assignment position destructure as an
// array; anything else becomes a runtime tuple of [label, value] pairs.
func (tr *translator) tuple(n *cst.Node, sc *Scope) string {
	type element struct {
		name  string
		value string
	}

	var (
		elements []element
		current  element
		pending  *cst.Node
		started  bool
	)

	flush := func() {
		if started {
			elements = append(elements, current)
		}

		current, pending, started = element{}, nil, false
	}

	for _, child := range n.Children() {
		switch child.Type() {
		case "(", ")":
		case ",":
			flush()
		case ":":
			if pending == nil {
				fail(ErrStructuralViolation, n, "tuple", "label separator without label")
			}

			current.name = pending.Text()
			current.value = ""
		case "simple_identifier":
			started = true

			if current.name == "" && current.value == "" {
				pending = child
			}

			current.value = tr.expr(child, sc)
		default:
			started = true
			current.value = tr.expr(child, sc)
		}
	}

	flush()

	if len(elements) == 1 && elements[0].name == "" {
		return "(" + elements[0].value + ")"
	}

	if destructuring(n) {
		values := make([]string, 0, len(elements))
		for _, el := range elements {
			values = append(values, el.value)
		}

		return "[" + strings.Join(values, ", ") + "]"
	}

	pairs := make([]string, 0, len(elements))

	for _, el := range elements {
		name := "undefined"
		if el.name != "" {
			name = strconv.Quote(el.name)
		}

		pairs = append(pairs, "["+name+", "+el.value+"]")
	}

	return tr.runtime("tuple") + "(" + strings.Join(pairs, ", ") + ")"
}

// destructuring reports whether a tuple sits in an assignment or operator
// context where it is rendered as a bracketed group.
func destructuring(n *cst.Node) bool {
	parent := n.Parent()

	switch parent.Type() {
	case "directly_assignable_expression", "assignment":
		return true
	case "property_declaration":
		pattern := parent.ChildOfType("pattern")

		return pattern != nil && strings.HasPrefix(strings.TrimSpace(pattern.Text()), "(")
	}

	return binaryKinds[parent.Type()]
}

// rangeCall renders a closed or half-open range as a runtime range
// descriptor.
func (tr *translator) rangeCall(n *cst.Node, sc *Scope) string {
	if n.ChildCount() != 3 {
		fail(ErrStructuralViolation, n, "range", "open ranges are not supported")
	}

	var inclusive bool

	switch op := n.Child(1).Text(); op {
	case "...":
		inclusive = true
	case "..<":
	default:
		unknownKind(n.Child(1), "range operator")
	}

	from := tr.expr(n.Child(0), sc)
	to := tr.expr(n.Child(2), sc)

	return tr.runtime("range") + "({from: " + from + ", to: " + to + ", inclusive: " + strconv.FormatBool(inclusive) + "})"
}
