package tsmodel

import (
	"slices"
	"strings"
)

type memberKind int

const (
	memberProperty memberKind = iota
	memberAccessor
	memberMethod
)

type member struct {
	property *Property
	accessor *Accessor
	method   *Method
	kind     memberKind
}

// Class is a class declaration under construction.
type Class struct {
	name           string
	extends        string
	typeParameters []string
	docs           []string
	members        []member
	ctor           *Constructor
	exported       bool
}

// NewClass creates a class from spec.
func NewClass(spec ClassSpec) *Class {
	return &Class{
		name:           spec.Name,
		extends:        spec.Extends,
		typeParameters: slices.Clone(spec.TypeParameters),
		exported:       spec.Exported,
	}
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Extends returns the super type, if any.
func (c *Class) Extends() string { return c.extends }

// SetExtends sets the super type.
func (c *Class) SetExtends(name string) { c.extends = name }

// AddTypeParameter appends a generic type parameter.
func (c *Class) AddTypeParameter(name string) {
	c.typeParameters = append(c.typeParameters, name)
}

// AddDoc appends a JSDoc line to the class.
func (c *Class) AddDoc(doc string) { c.docs = append(c.docs, doc) }

// AddProperty appends prop and returns it.
func (c *Class) AddProperty(prop *Property) *Property {
	c.members = append(c.members, member{kind: memberProperty, property: prop})

	return prop
}

// Property returns the property with the given name.
func (c *Class) Property(name string) (*Property, bool) {
	for _, m := range c.members {
		if m.kind == memberProperty && m.property.Name == name {
			return m.property, true
		}
	}

	return nil, false
}

// Properties returns the properties in declaration order.
func (c *Class) Properties() []*Property {
	var props []*Property

	for _, m := range c.members {
		if m.kind == memberProperty {
			props = append(props, m.property)
		}
	}

	return props
}

// RemoveProperty removes the named property and reports whether it existed.
func (c *Class) RemoveProperty(name string) bool {
	for idx, m := range c.members {
		if m.kind == memberProperty && m.property.Name == name {
			c.members = slices.Delete(c.members, idx, idx+1)

			return true
		}
	}

	return false
}

// AddGetAccessor appends a getter.
func (c *Class) AddGetAccessor(acc *Accessor) {
	acc.Kind = Getter
	c.members = append(c.members, member{kind: memberAccessor, accessor: acc})
}

// AddSetAccessor appends a setter.
func (c *Class) AddSetAccessor(acc *Accessor) {
	acc.Kind = Setter
	c.members = append(c.members, member{kind: memberAccessor, accessor: acc})
}

// Accessors returns the accessors in declaration order.
func (c *Class) Accessors() []*Accessor {
	var accs []*Accessor

	for _, m := range c.members {
		if m.kind == memberAccessor {
			accs = append(accs, m.accessor)
		}
	}

	return accs
}

// AddMethod appends a method.
func (c *Class) AddMethod(method *Method) {
	c.members = append(c.members, member{kind: memberMethod, method: method})
}

// Methods returns the methods in declaration order.
func (c *Class) Methods() []*Method {
	var methods []*Method

	for _, m := range c.members {
		if m.kind == memberMethod {
			methods = append(methods, m.method)
		}
	}

	return methods
}

// SetConstructor replaces the constructor.
func (c *Class) SetConstructor(ctor *Constructor) { c.ctor = ctor }

// Constructor returns the constructor, or nil.
func (c *Class) Constructor() *Constructor { return c.ctor }

// InterfaceShape extracts the public instance members as an interface.
func (c *Class) InterfaceShape(name string) *Interface {
	iface := &Interface{Name: name}
	setters := make(map[string]bool)

	for _, acc := range c.Accessors() {
		if acc.Kind == Setter {
			setters[acc.Name] = true
		}
	}

	seen := make(map[string]bool)

	for _, m := range c.members {
		switch m.kind {
		case memberProperty:
			prop := m.property
			if prop.Static || prop.Scope == ScopePrivate || prop.Scope == ScopeProtected {
				continue
			}

			iface.Members = append(iface.Members, propertySignature(prop.Name, prop.Type, prop.Readonly, prop.Optional))
		case memberAccessor:
			acc := m.accessor
			if acc.Static || seen[acc.Name] {
				continue
			}

			seen[acc.Name] = true
			typ := acc.ReturnType

			if acc.Kind == Setter && len(acc.Params) > 0 {
				typ = acc.Params[0].Type
			}

			iface.Members = append(iface.Members, propertySignature(acc.Name, typ, !setters[acc.Name], false))
		case memberMethod:
			method := m.method
			if method.Static || method.Scope == ScopePrivate || method.Scope == ScopeProtected {
				continue
			}

			iface.Members = append(iface.Members,
				method.Name+"("+renderParams(method.Params)+")"+typeSuffix(method.ReturnType)+";")
		}
	}

	return iface
}

func propertySignature(name, typ string, readonly, optional bool) string {
	var sb strings.Builder

	if readonly {
		sb.WriteString("readonly ")
	}

	sb.WriteString(name)

	if optional {
		sb.WriteByte('?')
	}

	if typ == "" {
		typ = "any"
	}

	sb.WriteString(": ")
	sb.WriteString(typ)
	sb.WriteByte(';')

	return sb.String()
}
