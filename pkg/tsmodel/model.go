// Package tsmodel is a small TypeScript program model: classes, properties,
// accessors, constructors, functions, interfaces and imports, rendered to
// formatted source text.
//
// The translator only talks to it through FileBuilder and ClassBuilder.
package tsmodel

// Scope is a TypeScript member visibility modifier.
type Scope string

// Member visibility values.
const (
	ScopeNone      Scope = ""
	ScopePublic    Scope = "public"
	ScopePrivate   Scope = "private"
	ScopeProtected Scope = "protected"
)

// Decorator is a member decorator. A decorator without arguments renders as
// `@Name`; with arguments as `@Name(arg, ...)`.
type Decorator struct {
	Name      string
	Arguments []string
}

// AddArgument appends a rendered argument expression.
func (d *Decorator) AddArgument(arg string) {
	d.Arguments = append(d.Arguments, arg)
}

// Parameter is a function, method or constructor parameter.
type Parameter struct {
	Name        string
	Type        string
	Initializer string
	Scope       Scope
	Optional    bool
	Readonly    bool
	Rest        bool
}

// Property is a class property declaration.
type Property struct {
	Name        string
	Type        string
	Initializer string
	Scope       Scope
	Docs        []string
	Decorators  []*Decorator
	Readonly    bool
	Static      bool
	Optional    bool
	Definite    bool
	Override    bool
	Abstract    bool
}

// Decorator returns the decorator with the given name, or nil.
func (p *Property) Decorator(name string) *Decorator {
	for _, dec := range p.Decorators {
		if dec.Name == name {
			return dec
		}
	}

	return nil
}

// AddDecorator attaches a decorator and returns it.
func (p *Property) AddDecorator(name string) *Decorator {
	dec := &Decorator{Name: name}
	p.Decorators = append(p.Decorators, dec)

	return dec
}

// AddDoc appends a JSDoc line.
func (p *Property) AddDoc(doc string) {
	p.Docs = append(p.Docs, doc)
}

// HasInitializer reports whether the property is initialized at declaration.
func (p *Property) HasInitializer() bool {
	return p.Initializer != ""
}

// AccessorKind distinguishes getters from setters.
type AccessorKind int

// Accessor kinds.
const (
	Getter AccessorKind = iota
	Setter
)

// Accessor is a get or set accessor.
type Accessor struct {
	Name       string
	ReturnType string
	Scope      Scope
	Params     []Parameter
	Statements []string
	Docs       []string
	Decorators []*Decorator
	Kind       AccessorKind
	Static     bool
	Override   bool
}

// Method is a class method.
type Method struct {
	Name           string
	ReturnType     string
	TypeParameters []string
	Scope          Scope
	Params         []Parameter
	Statements     []string
	Docs           []string
	Static         bool
	Override       bool
}

// Constructor is a class constructor.
type Constructor struct {
	Params     []Parameter
	Statements []string
}

// Function is a top-level function declaration.
type Function struct {
	Name           string
	ReturnType     string
	TypeParameters []string
	Params         []Parameter
	Statements     []string
	Docs           []string
	Exported       bool
}

// Interface is an interface declaration. Members are rendered verbatim, one
// signature per line. Global interfaces are wrapped in `declare global`;
// interfaces with a Module are wrapped in `declare module "<Module>"`.
type Interface struct {
	Name           string
	Module         string
	TypeParameters []string
	Members        []string
	Global         bool
}

// ClassSpec describes a class to declare.
type ClassSpec struct {
	Name           string
	Extends        string
	TypeParameters []string
	Exported       bool
}
