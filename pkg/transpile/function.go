package transpile

import (
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// param is a Swift parameter: external label ("_" when unlabeled), internal
// name, mapped type and default value.
type param struct {
	label       string
	name        string
	typ         string
	initializer string
	optional    bool
}

func (p param) labeled() bool { return p.label != "_" }

// funcDecl is a parsed function or initializer declaration.
type funcDecl struct {
	node       *cst.Node
	body       *cst.Node
	name       string
	ret        string
	scope      tsmodel.Scope
	params     []param
	typeParams []string
	docs       []string
	static     bool
	mutating   bool
	override   bool
	isInit     bool
}

// signature parses everything but the body. Generic parameters are bound in
// the returned scope.
func (tr *translator) signature(n *cst.Node, sc *Scope) (funcDecl, *Scope) {
	decl := funcDecl{node: n}

	if n.Type() == "init_declaration" {
		decl.isInit = true
		decl.name = "constructor"
	}

	if tp := n.ChildOfType("type_parameters"); tp != nil {
		var bindings []Binding

		decl.typeParams, bindings = tr.typeParameters(tp, sc)
		sc = sc.Add(bindings...)
	}

	var arrow, afterEq bool

	for _, child := range n.Children() {
		switch kind := child.Type(); {
		case afterEq:
			// Default values follow their parameter as siblings.
			decl.params[len(decl.params)-1].initializer = tr.expr(child, sc)
			afterEq = false
		case kind == "=" && len(decl.params) > 0 && !arrow:
			afterEq = true
		case kind == "modifiers":
			tr.functionModifiers(child, &decl)
		case kind == "init":
			decl.isInit = true
			decl.name = "constructor"
		case kind == "simple_identifier" && decl.name == "":
			decl.name = child.Text()
		case kind == "parameter":
			decl.params = append(decl.params, tr.parameter(child, sc))
		case kind == "->":
			arrow = true
		case typeKinds[kind] && arrow:
			decl.ret = tr.typeNode(child, sc)
			arrow = false
		case kind == "function_body":
			decl.body = child.ChildOfType("statements")
		case kind == "func", kind == "(", kind == ")", kind == ",", kind == "type_parameters", kind == "attribute",
			kind == "throws", kind == "rethrows", kind == "async", kind == "?", kind == "!",
			kind == "type_constraints":
		default:
			unknownKind(child, "function")
		}
	}

	if decl.name == "" {
		fail(ErrStructuralViolation, n, "function", "missing name")
	}

	return decl, sc
}

func (tr *translator) functionModifiers(n *cst.Node, decl *funcDecl) {
	for _, mod := range n.Children() {
		switch text := strings.TrimSpace(mod.Text()); text {
		case "mutating":
			decl.mutating = true
		case "static", "class":
			decl.static = true
		case "override":
			decl.override = true
		case "private", "fileprivate":
			decl.scope = tsmodel.ScopePrivate
		case "public", "open":
			decl.scope = tsmodel.ScopePublic
		case "internal", "final", "nonmutating", "convenience", "required", "@discardableResult", "@objc", "@MainActor", "dynamic":
		default:
			if !strings.HasPrefix(text, "@") {
				unknownKind(mod, "function modifiers")
			}
		}
	}
}

// parameter parses `[label] name: Type [= default]`.
func (tr *translator) parameter(n *cst.Node, sc *Scope) param {
	var (
		p       param
		names   []string
		afterEq bool
	)

	for _, child := range n.Children() {
		switch kind := child.Type(); {
		case kind == ":", kind == "inout", kind == "parameter_modifiers", kind == "...":
		case kind == "=":
			afterEq = true
		case afterEq:
			p.initializer = tr.expr(child, sc)
		case kind == "simple_identifier":
			names = append(names, child.Text())
		case kind == "optional_type":
			p.optional = true
			p.typ = tr.typeNode(child, sc)
		case typeKinds[kind]:
			p.typ = tr.typeNode(child, sc)
		default:
			unknownKind(child, "parameter")
		}
	}

	switch len(names) {
	case 1:
		p.label, p.name = names[0], names[0]
	case 2:
		p.label, p.name = names[0], names[1]
	default:
		fail(ErrStructuralViolation, n, "parameter", "expected one or two names")
	}

	if p.name == "_" {
		fail(ErrStructuralViolation, n, "parameter", "unnamed parameters are not supported")
	}

	return p
}

// typeParameters renders `<T: P>` as `T extends P` and binds the names.
func (tr *translator) typeParameters(n *cst.Node, sc *Scope) ([]string, []Binding) {
	var (
		out      []string
		bindings []Binding
	)

	for _, tp := range n.Children() {
		if tp.Type() != "type_parameter" {
			continue
		}

		name := tp.ChildOfType("type_identifier")
		if name == nil {
			fail(ErrStructuralViolation, tp, "type parameter", "missing name")
		}

		bindings = append(bindings, Binding{Name: name.Text(), Type: "type"})
	}

	inner := sc.Add(bindings...)

	for _, tp := range n.Children() {
		if tp.Type() != "type_parameter" {
			continue
		}

		operands := typeOperands(tp)
		rendered := operands[0].Text()

		if len(operands) > 1 {
			rendered += " extends " + tr.typeNode(operands[1], inner)
		}

		out = append(out, rendered)
	}

	return out, bindings
}

// functionBody translates a declaration body with its parameters in scope.
func (tr *translator) functionBody(decl funcDecl, sc *Scope) []string {
	bindings := make([]Binding, 0, len(decl.params))
	for _, p := range decl.params {
		bindings = append(bindings, Binding{Name: p.name, Type: p.typ})
	}

	inner := sc.EnterBlock().Add(bindings...)
	if decl.mutating {
		inner = inner.EnterMutating()
	}

	if decl.static {
		inner = inner.EnterStatic()
	}

	if decl.ret != "" && decl.ret != "void" {
		return tr.returningBlock(decl.body, inner)
	}

	return tr.block(decl.body, inner)
}

// topLevelFunction collects a free function into its overload set.
func (tr *translator) topLevelFunction(n *cst.Node, sc *Scope) {
	decl, inner := tr.signature(n, sc)
	variant := overloadVariant{decl: decl, body: tr.functionBody(decl, inner)}

	fn, isNew := tr.topLevel.add(decl.name, false, variant)
	if isNew {
		fn.function = &tsmodel.Function{Name: decl.name, Exported: true}
		tr.file.out.AddFunction(fn.function)
	}
}

// localFunction translates a nested function declaration.
func (tr *translator) localFunction(n *cst.Node, sc *Scope) (string, *Scope) {
	sc = sc.Add(Binding{Name: n.ChildOfType("simple_identifier").Text(), Type: "function"})
	decl, inner := tr.signature(n, sc)

	set := &overloadSet{name: decl.name, variants: []overloadVariant{{decl: decl, body: tr.functionBody(decl, inner)}}}
	params, stmts, ret := tr.mergeOverloads(set)

	var sb strings.Builder

	sb.WriteString("function " + decl.name)

	if len(decl.typeParams) > 0 {
		sb.WriteString("<" + strings.Join(decl.typeParams, ", ") + ">")
	}

	sb.WriteString("(" + renderParams(params) + ")")

	if ret != "" {
		sb.WriteString(": " + ret)
	}

	sb.WriteString(" {\n")
	writeStatements(&sb, stmts)
	sb.WriteString("}")

	return sb.String(), sc
}

func renderParams(params []tsmodel.Parameter) string {
	parts := make([]string, 0, len(params))

	for _, p := range params {
		part := p.Name
		if p.Rest {
			part = "..." + part
		}

		if p.Type != "" {
			part += ": " + p.Type
		}

		if p.Initializer != "" {
			part += " = " + p.Initializer
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, ", ")
}
