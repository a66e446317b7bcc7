package transpile

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// immediateKinds are initializers translated as soon as their property is
// declared; everything else waits until every member of the class is known.
var immediateKinds = map[string]bool{
	"integer_literal":     true,
	"real_literal":        true,
	"boolean_literal":     true,
	"line_string_literal": true,
	"nil":                 true,
	"prefix_expression":   true,
}

// computedProperty is a class property whose translation is deferred to the
// second pass: a computed body, observers, or a non-literal initializer.
type computedProperty struct {
	node *cst.Node
	prop *tsmodel.Property
}

type propertyModifiers struct {
	decorators []*tsmodel.Decorator
	scope      tsmodel.Scope
	static     bool
	override   bool
}

// classProperty declares the stored properties of a class-level declaration
// and returns the parts that need the second pass.
func (tr *translator) classProperty(n *cst.Node, sc *Scope, frame *classFrame, docs []string) []computedProperty {
	mods := tr.propertyModifiers(n, sc)
	decls, constant := declarators(n)

	var deferred []computedProperty

	for idx, d := range decls {
		if d.pattern.Type() != "simple_identifier" && d.pattern.ChildCount() > 1 {
			fail(ErrStructuralViolation, d.pattern, "property", "destructuring class properties is not supported")
		}

		prop := &tsmodel.Property{
			Name:       strings.TrimSpace(d.pattern.Text()),
			Scope:      mods.scope,
			Static:     mods.static,
			Override:   mods.override,
			Decorators: slices.Clone(mods.decorators),
			Readonly:   constant,
		}

		if idx == 0 {
			prop.Docs = docs
		}

		if d.annotation != nil {
			prop.Type, prop.Optional = tr.annotation(d.annotation, sc)
		}

		frame.builder.AddProperty(prop)

		switch {
		case d.extra != nil:
			if d.value != nil {
				prop.Initializer = tr.typedValue(d.value, sc, prop.Type)
			}

			deferred = append(deferred, computedProperty{node: d.extra, prop: prop})
		case d.value != nil && immediateKinds[d.value.Type()]:
			prop.Initializer = tr.typedValue(d.value, sc, prop.Type)
			if prop.Type == "" {
				prop.Type = tr.inferType(d.value, sc)
			}
		case d.value != nil:
			deferred = append(deferred, computedProperty{node: d.value, prop: prop})
		case !prop.Optional:
			prop.Definite = true
		}
	}

	return deferred
}

// propertyModifiers reads visibility, static-ness and attributes. Attributes
// become decorators imported from the file's default module.
func (tr *translator) propertyModifiers(n *cst.Node, sc *Scope) propertyModifiers {
	var mods propertyModifiers

	var visit func(c *cst.Node)

	visit = func(c *cst.Node) {
		if c.Type() == "attribute" {
			mods.decorators = append(mods.decorators, tr.decorator(c, sc))

			return
		}

		switch text := strings.TrimSpace(c.Text()); text {
		case "static", "class":
			mods.static = true
		case "override":
			mods.override = true
		case "private", "fileprivate":
			mods.scope = tsmodel.ScopePrivate
		case "public", "open":
			mods.scope = tsmodel.ScopePublic
		case "internal", "lazy", "weak", "unowned", "final", "dynamic", "nonisolated", "private(set)", "fileprivate(set)":
		default:
			if c.ChildCount() == 0 {
				unknownKind(c, "property modifiers")
			}

			for _, child := range c.Children() {
				visit(child)
			}
		}
	}

	for _, child := range n.Children() {
		switch child.Type() {
		case "modifiers":
			for _, mod := range child.Children() {
				visit(mod)
			}
		case "attribute":
			visit(child)
		}
	}

	return mods
}

// decorator translates `@Name` or `@Name(args)`.
func (tr *translator) decorator(n *cst.Node, sc *Scope) *tsmodel.Decorator {
	var name string

	for _, child := range n.Children() {
		if child.Type() == "user_type" || child.Type() == "type_identifier" || child.Type() == "simple_identifier" {
			name = strings.TrimSpace(child.Text())

			break
		}
	}

	if name == "" {
		name = strings.TrimPrefix(strings.TrimSpace(n.Text()), "@")
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = name[:idx]
		}
	}

	dec := &tsmodel.Decorator{Name: tr.mapType(sc, name, "")}

	if args := n.ChildOfType("value_arguments"); args != nil {
		if rendered := tr.renderArguments(args, tr.valueArguments(args, sc)); rendered != "" {
			dec.AddArgument(rendered)
		}
	}

	return dec
}

// computedProperties runs the second pass over deferred properties.
func (tr *translator) computedProperties(list []computedProperty, sc *Scope, frame *classFrame) {
	for _, c := range list {
		psc := sc
		if c.prop.Static {
			psc = sc.EnterStatic()
		}

		switch c.node.Type() {
		case "computed_property":
			tr.computedAccessors(c, psc, frame)
		case "willset_didset_block":
			tr.blockObservers(c, psc, frame)
		case "call_expression":
			if observers := trailingObservers(c.node); observers != nil {
				c.prop.Initializer = tr.typedValue(c.node.Child(0), psc, c.prop.Type)
				tr.callObservers(c, observers, psc, frame)

				continue
			}

			fallthrough
		default:
			c.prop.Initializer = tr.typedValue(c.node, psc, c.prop.Type)
			if c.prop.Type == "" {
				c.prop.Type = tr.inferType(c.node, psc)
			}
		}
	}
}

// computedAccessors replaces a stored property with a getter and, when a
// setter is declared, a setter taking `newValue` unless renamed.
func (tr *translator) computedAccessors(c computedProperty, sc *Scope, frame *classFrame) {
	prop := c.prop

	if !frame.builder.RemoveProperty(prop.Name) {
		fail(ErrStructuralViolation, c.node, "computed property", "no stored property named "+prop.Name)
	}

	var (
		getter     *cst.Node
		setter     *cst.Node
		setterName = "newValue"
		hasSetter  bool
	)

	for _, child := range c.node.Children() {
		switch child.Type() {
		case "{", "}":
		case "statements":
			getter = child
		case "computed_getter":
			getter = child.ChildOfType("statements")
		case "computed_setter":
			hasSetter = true
			setter = child.ChildOfType("statements")

			if id := child.ChildOfType("simple_identifier"); id != nil {
				setterName = id.Text()
			}
		default:
			unknownKind(child, "computed property")
		}
	}

	typ := prop.Type
	if prop.Optional {
		typ += " | undefined"
	}

	frame.builder.AddGetAccessor(&tsmodel.Accessor{
		Name:       prop.Name,
		ReturnType: typ,
		Scope:      prop.Scope,
		Docs:       prop.Docs,
		Static:     prop.Static,
		Override:   prop.Override,
		Statements: tr.returningBlock(getter, sc.EnterBlock()),
	})

	if !hasSetter {
		return
	}

	frame.builder.AddSetAccessor(&tsmodel.Accessor{
		Name:       prop.Name,
		Scope:      prop.Scope,
		Static:     prop.Static,
		Override:   prop.Override,
		Params:     []tsmodel.Parameter{{Name: setterName, Type: typ}},
		Statements: tr.block(setter, sc.EnterBlock().Add(Binding{Name: setterName, Type: typ})),
	})
}

// observer is one willSet or didSet clause.
type observer struct {
	name  string
	param string
	body  *cst.Node
}

func (tr *translator) blockObservers(c computedProperty, sc *Scope, frame *classFrame) {
	var observers []observer

	for _, clause := range c.node.Children() {
		switch clause.Type() {
		case "{", "}":
		case "willset_clause", "didset_clause":
			ob := observer{name: "didSet", param: "oldValue", body: clause.ChildOfType("statements")}
			if clause.Type() == "willset_clause" {
				ob.name, ob.param = "willSet", "newValue"
			}

			if id := clause.ChildOfType("simple_identifier"); id != nil {
				ob.param = id.Text()
			}

			observers = append(observers, ob)
		default:
			unknownKind(clause, "property observers")
		}
	}

	tr.attachObservers(c.prop, observers, sc, frame)
}

// trailingObservers recognizes `value { didSet { ... } }` parsed as a call with
// a trailing closure made only of willSet/didSet calls.
func trailingObservers(call *cst.Node) []*cst.Node {
	suffix := call.ChildOfType("call_suffix")
	if suffix == nil {
		return nil
	}

	closure := suffix.ChildOfType("lambda_literal")
	if closure == nil {
		if annotated := suffix.ChildOfType("annotated_lambda"); annotated != nil {
			closure = annotated.ChildOfType("lambda_literal")
		}
	}

	if closure == nil {
		return nil
	}

	stmts := closure.ChildOfType("statements")
	if stmts == nil {
		return nil
	}

	var out []*cst.Node

	for _, stmt := range stmts.Children() {
		if stmt.Type() != "call_expression" {
			return nil
		}

		if name := stmt.Child(0).Text(); name != "willSet" && name != "didSet" {
			return nil
		}

		out = append(out, stmt)
	}

	return out
}

func (tr *translator) callObservers(c computedProperty, calls []*cst.Node, sc *Scope, frame *classFrame) {
	observers := make([]observer, 0, len(calls))

	for _, call := range calls {
		ob := observer{name: call.Child(0).Text(), param: "oldValue"}
		if ob.name == "willSet" {
			ob.param = "newValue"
		}

		cst.Walk(call.Child(1), func(n *cst.Node) bool {
			switch n.Type() {
			case "value_argument":
				ob.param = strings.TrimSpace(n.Text())

				return false
			case "lambda_literal":
				ob.body = n.ChildOfType("statements")

				return false
			}

			return true
		})

		observers = append(observers, ob)
	}

	tr.attachObservers(c.prop, observers, sc, frame)
}

// attachObservers renders each observer as a decorator taking a function
// bound to the instance.
func (tr *translator) attachObservers(prop *tsmodel.Property, observers []observer, sc *Scope, frame *classFrame) {
	typ := prop.Type
	if typ == "" {
		typ = "any"
	}

	if prop.Optional {
		typ += " | undefined"
	}

	for _, ob := range observers {
		inner := sc.EnterBlock().Add(Binding{Name: ob.param, Type: typ})

		var sb strings.Builder

		sb.WriteString("function(this: " + frame.name + ", " + ob.param + ": " + typ + ") {\n")
		writeStatements(&sb, tr.block(ob.body, inner))
		sb.WriteString("}")

		dec := prop.AddDecorator(tr.runtime(ob.name))
		dec.AddArgument(sb.String())
	}
}
