package tsmodel

import (
	"strings"
)

func renderClass(sb *strings.Builder, class *Class) {
	renderDocs(sb, class.docs)

	if class.exported {
		sb.WriteString("export ")
	}

	sb.WriteString("class ")
	sb.WriteString(class.name)
	renderTypeParameters(sb, class.typeParameters)

	if class.extends != "" {
		sb.WriteString(" extends ")
		sb.WriteString(class.extends)
	}

	sb.WriteString(" {\n")

	for _, prop := range class.Properties() {
		renderProperty(sb, prop)
	}

	if class.ctor != nil {
		sb.WriteString("constructor(")
		sb.WriteString(renderParams(class.ctor.Params))
		sb.WriteString(")")
		renderBody(sb, class.ctor.Statements)
	}

	for _, m := range class.members {
		switch m.kind {
		case memberAccessor:
			renderAccessor(sb, m.accessor)
		case memberMethod:
			renderMethod(sb, m.method)
		case memberProperty:
		}
	}

	sb.WriteString("}\n")
}

func renderProperty(sb *strings.Builder, prop *Property) {
	renderDocs(sb, prop.Docs)
	renderDecorators(sb, prop.Decorators)
	renderModifiers(sb, prop.Scope, prop.Static, prop.Override)

	if prop.Abstract {
		sb.WriteString("abstract ")
	}

	if prop.Readonly {
		sb.WriteString("readonly ")
	}

	sb.WriteString(prop.Name)

	switch {
	case prop.Optional:
		sb.WriteByte('?')
	case prop.Definite && prop.Initializer == "":
		sb.WriteByte('!')
	}

	sb.WriteString(typeSuffix(prop.Type))

	if prop.Initializer != "" {
		sb.WriteString(" = ")
		sb.WriteString(prop.Initializer)
	}

	sb.WriteString(";\n")
}

func renderAccessor(sb *strings.Builder, acc *Accessor) {
	renderDocs(sb, acc.Docs)
	renderDecorators(sb, acc.Decorators)
	renderModifiers(sb, acc.Scope, acc.Static, acc.Override)

	if acc.Kind == Getter {
		sb.WriteString("get ")
		sb.WriteString(acc.Name)
		sb.WriteString("()")
		sb.WriteString(typeSuffix(acc.ReturnType))
	} else {
		sb.WriteString("set ")
		sb.WriteString(acc.Name)
		sb.WriteString("(")
		sb.WriteString(renderParams(acc.Params))
		sb.WriteString(")")
	}

	renderBody(sb, acc.Statements)
}

func renderMethod(sb *strings.Builder, method *Method) {
	renderDocs(sb, method.Docs)
	renderModifiers(sb, method.Scope, method.Static, method.Override)
	sb.WriteString(method.Name)
	renderTypeParameters(sb, method.TypeParameters)
	sb.WriteString("(")
	sb.WriteString(renderParams(method.Params))
	sb.WriteString(")")
	sb.WriteString(typeSuffix(method.ReturnType))
	renderBody(sb, method.Statements)
}

func renderFunction(sb *strings.Builder, fn *Function) {
	renderDocs(sb, fn.Docs)

	if fn.Exported {
		sb.WriteString("export ")
	}

	sb.WriteString("function ")
	sb.WriteString(fn.Name)
	renderTypeParameters(sb, fn.TypeParameters)
	sb.WriteString("(")
	sb.WriteString(renderParams(fn.Params))
	sb.WriteString(")")
	sb.WriteString(typeSuffix(fn.ReturnType))
	renderBody(sb, fn.Statements)
}

func renderInterface(sb *strings.Builder, iface *Interface) {
	wrapped := true

	switch {
	case iface.Global:
		sb.WriteString("declare global {\n")
	case iface.Module != "":
		sb.WriteString("declare module \"" + iface.Module + "\" {\n")
	default:
		wrapped = false
	}

	sb.WriteString("interface ")
	sb.WriteString(iface.Name)
	renderTypeParameters(sb, iface.TypeParameters)
	sb.WriteString(" {\n")

	for _, m := range iface.Members {
		sb.WriteString(m)
		sb.WriteByte('\n')
	}

	sb.WriteString("}\n")

	if wrapped {
		sb.WriteString("}\n")
	}
}

func renderBody(sb *strings.Builder, stmts []string) {
	sb.WriteString(" {\n")

	for _, stmt := range stmts {
		sb.WriteString(terminate(stmt))
	}

	sb.WriteString("}\n")
}

func renderDocs(sb *strings.Builder, docs []string) {
	switch len(docs) {
	case 0:
	case 1:
		sb.WriteString("/** ")
		sb.WriteString(strings.TrimSpace(docs[0]))
		sb.WriteString(" */\n")
	default:
		sb.WriteString("/**\n")

		for _, doc := range docs {
			sb.WriteString(" * ")
			sb.WriteString(strings.TrimSpace(doc))
			sb.WriteByte('\n')
		}

		sb.WriteString(" */\n")
	}
}

func renderDecorators(sb *strings.Builder, decs []*Decorator) {
	for _, dec := range decs {
		sb.WriteByte('@')
		sb.WriteString(dec.Name)

		if len(dec.Arguments) > 0 {
			sb.WriteByte('(')
			sb.WriteString(strings.Join(dec.Arguments, ", "))
			sb.WriteByte(')')
		}

		sb.WriteByte('\n')
	}
}

func renderModifiers(sb *strings.Builder, scope Scope, static, override bool) {
	if scope != ScopeNone {
		sb.WriteString(string(scope))
		sb.WriteByte(' ')
	}

	if static {
		sb.WriteString("static ")
	}

	if override {
		sb.WriteString("override ")
	}
}

func renderTypeParameters(sb *strings.Builder, params []string) {
	if len(params) == 0 {
		return
	}

	sb.WriteByte('<')
	sb.WriteString(strings.Join(params, ", "))
	sb.WriteByte('>')
}

func renderParams(params []Parameter) string {
	parts := make([]string, 0, len(params))

	for _, param := range params {
		var sb strings.Builder

		if param.Scope != ScopeNone {
			sb.WriteString(string(param.Scope))
			sb.WriteByte(' ')
		}

		if param.Readonly {
			sb.WriteString("readonly ")
		}

		if param.Rest {
			sb.WriteString("...")
		}

		sb.WriteString(param.Name)

		if param.Optional {
			sb.WriteByte('?')
		}

		sb.WriteString(typeSuffix(param.Type))

		if param.Initializer != "" {
			sb.WriteString(" = ")
			sb.WriteString(param.Initializer)
		}

		parts = append(parts, sb.String())
	}

	return strings.Join(parts, ", ")
}

func typeSuffix(typ string) string {
	if typ == "" {
		return ""
	}

	return ": " + typ
}

func terminate(stmt string) string {
	stmt = strings.TrimRight(stmt, " \t\n")
	if stmt == "" {
		return ""
	}

	return stmt + "\n"
}
