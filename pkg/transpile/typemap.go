package transpile

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

var typeNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// globalTypes are TypeScript ambient types that never need an import.
var globalTypes = map[string]bool{
	"Array":    true,
	"Record":   true,
	"Map":      true,
	"Set":      true,
	"Promise":  true,
	"Error":    true,
	"Date":     true,
	"Object":   true,
	"unknown":  true,
	"never":    true,
	"any":      true,
	"void":     true,
	"Function": true,
}

var typeKinds = map[string]bool{
	"type_identifier":  true,
	"user_type":        true,
	"optional_type":    true,
	"array_type":       true,
	"dictionary_type":  true,
	"tuple_type":       true,
	"tuple_type_item":  true,
	"function_type":    true,
	"opaque_type":      true,
	"existential_type": true,
	"metatype":         true,
}

// mapType resolves a type name: builtin table, namespaced then bare known
// class, scope binding, anonymous shape, builtin target, and finally an import
// from the module hint (or the file default module).
func (tr *translator) mapType(sc *Scope, name, hint string) string {
	if name == "" {
		return ""
	}

	if mapped, ok := tr.opts.BuiltInTypes[name]; ok {
		return mapped
	}

	if class := sc.ClassNameFor(name); class != "" {
		return class
	}

	if _, ok := sc.Lookup(name); ok || sc.IsMember(name) {
		return name
	}

	if strings.HasPrefix(strings.TrimSpace(name), "{") {
		return name
	}

	if tr.isBuiltinTarget(name) || globalTypes[name] {
		return name
	}

	return tr.addImport(name, hint)
}

func (tr *translator) isBuiltinTarget(name string) bool {
	for _, target := range tr.opts.BuiltInTypes {
		if target == name {
			return true
		}
	}

	return false
}

// addImport registers name as imported from the module the hint maps to.
func (tr *translator) addImport(name, hint string) string {
	return tr.file.out.AddImport(name, tr.moduleFor(hint))
}

// runtime registers a runtime helper import and returns its name.
func (tr *translator) runtime(name string) string {
	return tr.addImport(name, tr.opts.RuntimeModule)
}

func (tr *translator) moduleFor(hint string) string {
	if hint == "" {
		return tr.file.defaultModule
	}

	if module, ok := tr.opts.ImportMap[hint]; ok {
		return module
	}

	return hint
}

// typeOperands returns the children of n that are type nodes.
func typeOperands(n *cst.Node) []*cst.Node {
	var out []*cst.Node

	for _, child := range n.Children() {
		if typeKinds[child.Type()] {
			out = append(out, child)
		}
	}

	return out
}

// annotation splits a type_annotation into its mapped type and whether the
// annotated type is optional.
func (tr *translator) annotation(n *cst.Node, sc *Scope) (string, bool) {
	operands := typeOperands(n)
	if len(operands) == 0 {
		fail(ErrUnresolvedType, n, "type annotation", "no type found")
	}

	typ := operands[0]
	if typ.Type() == "optional_type" {
		inner := typeOperands(typ)
		if len(inner) == 0 {
			fail(ErrUnresolvedType, typ, "optional type", "no wrapped type")
		}

		return tr.typeNode(inner[0], sc), true
	}

	return tr.typeNode(typ, sc), false
}

// typeNode renders a Swift type node as a TypeScript type.
func (tr *translator) typeNode(n *cst.Node, sc *Scope) string {
	switch n.Type() {
	case "type_annotation":
		typ, optional := tr.annotation(n, sc)
		if optional {
			return typ + " | undefined"
		}

		return typ
	case "type_identifier", "simple_identifier":
		return tr.namedType(n, n.Text(), sc)
	case "user_type":
		return tr.userType(n, sc)
	case "optional_type":
		return tr.wrappedType(n, sc) + " | undefined"
	case "array_type":
		return "Array<" + tr.wrappedType(n, sc) + ">"
	case "dictionary_type":
		operands := typeOperands(n)
		if len(operands) != 2 {
			fail(ErrUnresolvedType, n, "dictionary type", "expected key and value types")
		}

		return "Record<" + tr.typeNode(operands[0], sc) + ", " + tr.typeNode(operands[1], sc) + ">"
	case "tuple_type":
		return tr.tupleType(n, sc)
	case "tuple_type_item":
		return tr.wrappedType(n, sc)
	case "function_type":
		return tr.functionType(n, sc)
	case "opaque_type", "existential_type":
		tr.logger.Warn("opaque type passed through", "type", n.Text(), "line", n.Line())

		return tr.wrappedType(n, sc)
	case "metatype":
		return "typeof " + tr.wrappedType(n, sc)
	default:
		fail(ErrUnresolvedType, n, "type", "")
	}

	return ""
}

func (tr *translator) wrappedType(n *cst.Node, sc *Scope) string {
	operands := typeOperands(n)
	if len(operands) == 0 {
		fail(ErrUnresolvedType, n, n.Type(), "no wrapped type")
	}

	return tr.typeNode(operands[0], sc)
}

func (tr *translator) namedType(n *cst.Node, name string, sc *Scope) string {
	if name == "Self" && sc.ClassName() != "" {
		return sc.ClassName()
	}

	if !typeNamePattern.MatchString(name) {
		fail(ErrUnresolvedType, n, "type", "not a type name")
	}

	return tr.mapType(sc, name, "")
}

func (tr *translator) userType(n *cst.Node, sc *Scope) string {
	var (
		parts []string
		args  []string
	)

	for _, child := range n.Children() {
		switch child.Type() {
		case "type_identifier", "simple_identifier":
			parts = append(parts, child.Text())
		case "type_arguments":
			for _, arg := range typeOperands(child) {
				args = append(args, tr.typeNode(arg, sc))
			}
		}
	}

	if len(parts) == 0 {
		fail(ErrUnresolvedType, n, "user type", "no type name")
	}

	var base string

	if len(parts) == 1 {
		base = tr.namedType(n, parts[0], sc)
	} else if nested := sc.ClassNameFor(strings.Join(parts, "$")); nested != "" {
		base = nested
	} else {
		tr.namedType(n, parts[0], sc)
		base = strings.Join(parts, ".")
	}

	if len(args) > 0 {
		base += "<" + strings.Join(args, ", ") + ">"
	}

	return base
}

func (tr *translator) tupleType(n *cst.Node, sc *Scope) string {
	operands := typeOperands(n)

	switch len(operands) {
	case 0:
		return "void"
	case 1:
		return tr.typeNode(operands[0], sc)
	}

	items := make([]string, 0, len(operands))
	for _, op := range operands {
		items = append(items, tr.typeNode(op, sc))
	}

	return "[" + strings.Join(items, ", ") + "]"
}

func (tr *translator) functionType(n *cst.Node, sc *Scope) string {
	children := n.Children()
	arrow := slices.IndexFunc(children, func(c *cst.Node) bool { return c.Type() == "->" })

	if arrow < 0 {
		fail(ErrUnresolvedType, n, "function type", "missing return type")
	}

	var params []*cst.Node

	for _, child := range children[:arrow] {
		switch {
		case child.Type() == "tuple_type":
			params = append(params, typeOperands(child)...)
		case typeKinds[child.Type()]:
			params = append(params, child)
		}
	}

	var ret string

	for _, child := range children[arrow+1:] {
		if typeKinds[child.Type()] {
			ret = tr.typeNode(child, sc)

			break
		}
	}

	rendered := make([]string, 0, len(params))
	for idx, param := range params {
		rendered = append(rendered, "_"+strconv.Itoa(idx)+": "+tr.typeNode(param, sc))
	}

	return "(" + strings.Join(rendered, ", ") + ") => " + ret
}
