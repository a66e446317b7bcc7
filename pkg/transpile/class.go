package transpile

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// classDecl translates class, struct, actor, enum and extension declarations.
func (tr *translator) classDecl(n *cst.Node, sc *Scope) {
	kind, name := declarationHead(n)

	switch kind {
	case "enum":
		tr.enumDecl(n, sc)

		return
	case "extension":
		tr.extensionDecl(n, sc)

		return
	case "class", "struct", "actor":
	default:
		unknownKind(n, "class declaration")
	}

	body := n.Child(-1)
	if !body.Is("class_body") {
		fail(ErrStructuralViolation, n, "class", "missing body")
	}

	frame := &classFrame{
		name:     qualifiedName(sc, name),
		isStruct: kind == "struct",
	}
	frame.members, frame.statics = memberNames(body)

	tr.nestedClasses(body, sc, frame)

	spec := tsmodel.ClassSpec{Name: frame.name, Exported: sc.class == nil}

	var bindings []Binding
	if tp := n.ChildOfType("type_parameters"); tp != nil {
		spec.TypeParameters, bindings = tr.typeParameters(tp, sc)
	}

	outer := sc.Add(bindings...)

	if parent := n.ChildOfType("inheritance_specifier"); parent != nil {
		spec.Extends = tr.inheritedType(parent, outer)

		if base, ok := tr.file.out.Class(spec.Extends); ok {
			for _, inherited := range instanceMemberNames(base) {
				frame.members[inherited] = true
			}
		}
	}

	frame.builder = tr.file.out.DeclareClass(spec)
	tr.logger.Debug("class declared", "class", frame.name, "kind", kind)

	tr.classBody(body, outer.enterClass(frame), frame)
}

func qualifiedName(sc *Scope, name string) string {
	if sc.class != nil {
		return sc.class.name + "$" + name
	}

	return name
}

func (tr *translator) inheritedType(n *cst.Node, sc *Scope) string {
	operands := typeOperands(n)
	if len(operands) == 0 {
		fail(ErrStructuralViolation, n, "inheritance", "missing type")
	}

	return tr.typeNode(operands[0], sc)
}

// nestedClasses translates nested type declarations before their outer class
// so they are defined first in the output.
func (tr *translator) nestedClasses(body *cst.Node, sc *Scope, frame *classFrame) {
	var nested []*cst.Node

	for _, child := range body.Children() {
		if child.Type() == "class_declaration" {
			nested = append(nested, child)
		}
	}

	if len(nested) == 0 {
		return
	}

	inner := sc.enterClass(frame)

	for _, child := range nested {
		tr.classDecl(child, inner)
	}
}

// memberNames pre-collects the member names declared in a body, split into
// instance and static members.
func memberNames(body *cst.Node) (instance, static map[string]bool) {
	instance = make(map[string]bool)
	static = make(map[string]bool)

	for _, child := range body.Children() {
		names := instance
		if isStatic(child) {
			names = static
		}

		switch child.Type() {
		case "property_declaration":
			decls, _ := declarators(child)
			for _, d := range decls {
				cst.Walk(d.pattern, func(c *cst.Node) bool {
					if c.Type() == "simple_identifier" {
						names[c.Text()] = true
					}

					return true
				})
			}
		case "function_declaration":
			if id := child.ChildOfType("simple_identifier"); id != nil {
				names[id.Text()] = true
			}
		}
	}

	return instance, static
}

func isStatic(n *cst.Node) bool {
	mods := n.ChildOfType("modifiers")
	if mods == nil {
		return false
	}

	for _, mod := range mods.Children() {
		if text := strings.TrimSpace(mod.Text()); text == "static" || text == "class" {
			return true
		}
	}

	return false
}

func instanceMemberNames(class tsmodel.ClassBuilder) []string {
	var names []string

	for _, prop := range class.Properties() {
		if !prop.Static {
			names = append(names, prop.Name)
		}
	}

	for _, acc := range class.Accessors() {
		if !acc.Static {
			names = append(names, acc.Name)
		}
	}

	for _, method := range class.Methods() {
		if !method.Static {
			names = append(names, method.Name)
		}
	}

	return names
}

// classBody translates members in two passes: stored properties, methods and
// initializers first, then computed properties and non-literal initializers
// once every member is known.
func (tr *translator) classBody(body *cst.Node, sc *Scope, frame *classFrame) {
	var (
		inits    []overloadVariant
		computed []computedProperty
		docs     []string
	)

	methods := newOverloadSets()

	for _, child := range body.Children() {
		switch child.Type() {
		case "{", "}", ";", "class_declaration":
		case "enum_entry":
			if !frame.isEnum {
				unknownKind(child, "class body")
			}
		case "comment", "multiline_comment":
			docs = append(docs, commentText(child.Text()))
		case "property_declaration":
			computed = append(computed, tr.classProperty(child, sc, frame, docs)...)
			docs = nil
		case "function_declaration", "init_declaration":
			decl, inner := tr.signature(child, sc)
			decl.docs, docs = docs, nil

			if decl.isInit && frame.extension {
				fail(ErrStructuralViolation, child, "extension", "initializers in extensions are not supported")
			}

			variant := overloadVariant{decl: decl, body: tr.functionBody(decl, inner)}

			if decl.isInit {
				inits = append(inits, variant)

				continue
			}

			methods.add(decl.name, decl.static, variant)
		case "deinit_declaration":
			tr.logger.Debug("deinit dropped", "class", frame.name, "line", child.Line())
		default:
			unknownKind(child, "class body")
		}
	}

	for _, doc := range docs {
		frame.builder.AddDoc(doc)
	}

	tr.computedProperties(computed, sc, frame)
	tr.constructor(inits, frame)
	methods.flushMethods(tr, frame.builder)
}

func commentText(text string) string {
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		text = strings.TrimPrefix(text, "*")
	default:
		text = strings.TrimLeft(text, "/")
	}

	return strings.TrimSpace(text)
}

// constructor merges initializers into one constructor. Structs without an
// initializer get a memberwise one over their uninitialized stored
// properties.
func (tr *translator) constructor(inits []overloadVariant, frame *classFrame) {
	if len(inits) == 0 && frame.isStruct {
		if v, ok := memberwise(frame); ok {
			inits = append(inits, v)
		}
	}

	if len(inits) == 0 {
		return
	}

	set := &overloadSet{name: frame.name, variants: inits}
	params, stmts, _ := tr.mergeOverloads(set)

	frame.builder.SetConstructor(&tsmodel.Constructor{Params: params, Statements: stmts})
}

func memberwise(frame *classFrame) (overloadVariant, bool) {
	var (
		params []param
		body   []string
	)

	for _, prop := range frame.builder.Properties() {
		if prop.Static || prop.HasInitializer() {
			continue
		}

		typ := prop.Type
		p := param{label: prop.Name, name: prop.Name, typ: typ}

		if prop.Optional {
			p.typ = typ + " | undefined"
			p.initializer = "undefined"
		}

		params = append(params, p)
		body = append(body, "this."+prop.Name+" = "+prop.Name+";")
	}

	if len(params) == 0 {
		return overloadVariant{}, false
	}

	return overloadVariant{decl: funcDecl{name: "constructor", isInit: true, params: params}, body: body}, true
}

// extensionDecl translates an extension into a synthetic class whose
// prototype is spliced into the extended type's prototype chain, plus an
// interface declaration merging the added members into the extended type.
func (tr *translator) extensionDecl(n *cst.Node, sc *Scope) {
	_, target := declarationHead(n)
	if target == "" {
		fail(ErrStructuralViolation, n, "extension", "missing extended type")
	}

	body := n.Child(-1)
	if !body.Is("class_body") {
		fail(ErrStructuralViolation, n, "extension", "missing body")
	}

	tr.file.extensions[target]++

	name := strings.ReplaceAll(target, ".", "$") + "$Ext"
	if count := tr.file.extensions[target]; count > 1 {
		name += strconv.Itoa(count)
	}

	tsTarget, global, module := tr.extensionTarget(target, sc)

	frame := &classFrame{
		name:      name,
		extension: true,
	}
	frame.members, frame.statics = memberNames(body)

	if base, ok := tr.file.out.Class(tsTarget); ok {
		for _, inherited := range instanceMemberNames(base) {
			frame.members[inherited] = true
		}
	}

	frame.builder = tr.file.out.DeclareClass(tsmodel.ClassSpec{Name: name, Exported: true})
	tr.classBody(body, sc.enterClass(frame), frame)

	iface := frame.builder.InterfaceShape(tsTarget)
	iface.Global = global
	iface.Module = module

	if len(iface.Members) > 0 {
		tr.file.out.AddInterface(iface)
	}

	tr.file.out.AddStatements(
		"Object.setPrototypeOf("+name+".prototype, Object.getPrototypeOf("+tsTarget+".prototype));",
		"Object.setPrototypeOf("+tsTarget+".prototype, "+name+".prototype);",
	)
}

// extensionTarget resolves the runtime name of an extended type and where its
// interface lives: the global scope for builtins, a module for imports, or
// this file for local classes.
func (tr *translator) extensionTarget(target string, sc *Scope) (string, bool, string) {
	if mapped, ok := tr.opts.BuiltInTypes[target]; ok {
		if wrapper, ok := wrapperTypes[mapped]; ok {
			return wrapper, true, ""
		}
	}

	if globalTypes[target] {
		return target, true, ""
	}

	if class := sc.ClassNameFor(strings.ReplaceAll(target, ".", "$")); class != "" {
		return class, false, ""
	}

	imported := tr.mapType(sc, target, "")

	return imported, false, tr.moduleFor("")
}
