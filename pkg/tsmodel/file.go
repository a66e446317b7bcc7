package tsmodel

import (
	"slices"
	"strings"
)

type itemKind int

const (
	itemStatement itemKind = iota
	itemClass
	itemFunction
	itemInterface
)

type item struct {
	class     *Class
	function  *Function
	iface     *Interface
	statement string
	kind      itemKind
}

type importEntry struct {
	symbol string
	module string
}

// SourceFile is one TypeScript output file.
type SourceFile struct {
	path    string
	items   []item
	imports []importEntry
	classes map[string]*Class
}

// NewSourceFile creates an empty file with the given output path.
func NewSourceFile(path string) *SourceFile {
	return &SourceFile{
		path:    path,
		classes: make(map[string]*Class),
	}
}

// Path returns the output path.
func (f *SourceFile) Path() string { return f.path }

// AddStatements appends raw statements in order.
func (f *SourceFile) AddStatements(stmts ...string) {
	for _, stmt := range stmts {
		f.items = append(f.items, item{kind: itemStatement, statement: stmt})
	}
}

// DeclareClass declares a new class. Declaring an existing name replaces the
// previous declaration in place.
func (f *SourceFile) DeclareClass(spec ClassSpec) ClassBuilder {
	class := NewClass(spec)

	if _, exists := f.classes[spec.Name]; exists {
		for idx, it := range f.items {
			if it.kind == itemClass && it.class.name == spec.Name {
				f.items[idx].class = class
			}
		}
	} else {
		f.items = append(f.items, item{kind: itemClass, class: class})
	}

	f.classes[spec.Name] = class

	return class
}

// Class returns the declared class with the given name.
func (f *SourceFile) Class(name string) (ClassBuilder, bool) {
	class, ok := f.classes[name]
	if !ok {
		return nil, false
	}

	return class, true
}

// HasClass reports whether a class with the given name is declared.
func (f *SourceFile) HasClass(name string) bool {
	_, ok := f.classes[name]

	return ok
}

// ClassNames returns the declared class names in declaration order.
func (f *SourceFile) ClassNames() []string {
	var names []string

	for _, it := range f.items {
		if it.kind == itemClass {
			names = append(names, it.class.name)
		}
	}

	return names
}

// AddFunction appends a top-level function.
func (f *SourceFile) AddFunction(fn *Function) {
	f.items = append(f.items, item{kind: itemFunction, function: fn})
}

// AddInterface appends an interface declaration.
func (f *SourceFile) AddInterface(iface *Interface) {
	f.items = append(f.items, item{kind: itemInterface, iface: iface})
}

// AddImport registers symbol as imported from module.
func (f *SourceFile) AddImport(symbol, module string) string {
	if symbol == "" || f.HasImport(symbol) {
		return symbol
	}

	f.imports = append(f.imports, importEntry{symbol: symbol, module: module})

	return symbol
}

// HasImport reports whether symbol has been imported.
func (f *SourceFile) HasImport(symbol string) bool {
	return slices.ContainsFunc(f.imports, func(e importEntry) bool { return e.symbol == symbol })
}

// Imports returns module specifier → sorted symbols.
func (f *SourceFile) Imports() map[string][]string {
	out := make(map[string][]string)

	for _, entry := range f.imports {
		out[entry.module] = append(out[entry.module], entry.symbol)
	}

	for module := range out {
		slices.Sort(out[module])
	}

	return out
}

// Text renders and formats the whole file.
func (f *SourceFile) Text() string {
	var sb strings.Builder

	f.renderImports(&sb)

	for idx, it := range f.items {
		if idx > 0 || len(f.imports) > 0 {
			if it.kind != itemStatement || (idx > 0 && f.items[idx-1].kind != itemStatement) {
				sb.WriteByte('\n')
			}
		}

		switch it.kind {
		case itemStatement:
			sb.WriteString(terminate(it.statement))
		case itemClass:
			renderClass(&sb, it.class)
		case itemFunction:
			renderFunction(&sb, it.function)
		case itemInterface:
			renderInterface(&sb, it.iface)
		}
	}

	return Format(sb.String())
}

func (f *SourceFile) renderImports(sb *strings.Builder) {
	imports := f.Imports()
	modules := make([]string, 0, len(imports))

	for module := range imports {
		modules = append(modules, module)
	}

	slices.Sort(modules)

	for _, module := range modules {
		sb.WriteString("import { ")
		sb.WriteString(strings.Join(imports[module], ", "))
		sb.WriteString(" } from \"")
		sb.WriteString(module)
		sb.WriteString("\";\n")
	}
}
