package tsmodel

// FileBuilder is the narrow surface the translator drives to build one output file.
type FileBuilder interface {
	Path() string
	AddStatements(stmts ...string)
	DeclareClass(spec ClassSpec) ClassBuilder
	Class(name string) (ClassBuilder, bool)
	HasClass(name string) bool
	AddFunction(fn *Function)
	AddInterface(iface *Interface)
	// AddImport registers symbol from module and returns the symbol. The first
	// registration of a symbol wins; later ones are ignored.
	AddImport(symbol, module string) string
	HasImport(symbol string) bool
	Text() string
}

// ClassBuilder builds one class declaration.
type ClassBuilder interface {
	Name() string
	Extends() string
	SetExtends(name string)
	AddTypeParameter(name string)
	AddDoc(doc string)
	AddProperty(prop *Property) *Property
	Property(name string) (*Property, bool)
	Properties() []*Property
	RemoveProperty(name string) bool
	AddGetAccessor(acc *Accessor)
	AddSetAccessor(acc *Accessor)
	Accessors() []*Accessor
	AddMethod(method *Method)
	Methods() []*Method
	SetConstructor(ctor *Constructor)
	Constructor() *Constructor
	// InterfaceShape extracts the public instance member signatures as an
	// interface with the given name.
	InterfaceShape(name string) *Interface
}

var (
	_ FileBuilder  = (*SourceFile)(nil)
	_ ClassBuilder = (*Class)(nil)
)
