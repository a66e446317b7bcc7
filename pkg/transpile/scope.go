package transpile

import (
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// ResolutionKind classifies what an identifier refers to.
type ResolutionKind int

// Resolution kinds, in lookup priority order.
const (
	ResolveLocal ResolutionKind = iota
	ResolveInstanceMember
	ResolveStaticMember
	ResolveKnownClass
	ResolveFree
)

// Resolution is the outcome of Scope.Resolve.
type Resolution struct {
	// Target is the emitted name: the binding itself, the member name, the
	// class-qualified static member or the (possibly namespaced) class name.
	Target string
	Kind   ResolutionKind
}

// Binding is a name introduced into a scope with an optional type.
type Binding struct {
	Name string
	Type string
}

// classFrame describes the class whose body is being translated.
type classFrame struct {
	builder   tsmodel.ClassBuilder
	outer     *classFrame
	members   map[string]bool
	statics   map[string]bool
	name      string
	isStruct  bool
	isEnum    bool
	extension bool
}

// fileState is shared by every scope of one translation run.
type fileState struct {
	out           tsmodel.FileBuilder
	known         map[string]bool
	defaultModule string
	extensions    map[string]int
}

func (f *fileState) isClass(name string) bool {
	return f.known[name] || f.out.HasClass(name)
}

// Scope is a persistent frame of name bindings. Extending a scope returns a
// new frame; the receiver is never modified, so sibling branches cannot see
// each other's bindings.
type Scope struct {
	parent     *Scope
	file       *fileState
	class      *classFrame
	bindings   map[string]string
	blockStart bool
	mutating   bool
	static     bool
}

func newScope(file *fileState) *Scope {
	return &Scope{file: file, blockStart: true}
}

func (s *Scope) child() *Scope {
	return &Scope{parent: s, file: s.file, class: s.class, mutating: s.mutating, static: s.static}
}

// Add returns a new frame binding the given names.
func (s *Scope) Add(bindings ...Binding) *Scope {
	next := s.child()
	next.bindings = make(map[string]string, len(bindings))

	for _, b := range bindings {
		next.bindings[b.Name] = b.Type
	}

	return next
}

// EnterBlock returns a frame that starts a new lexical block.
func (s *Scope) EnterBlock() *Scope {
	next := s.child()
	next.blockStart = true

	return next
}

// EnterMutating returns a frame in which `self` may be reassigned.
func (s *Scope) EnterMutating() *Scope {
	next := s.child()
	next.mutating = true

	return next
}

// EnterStatic returns a frame for the body of a static member, where the
// class's static members are visible unqualified and instance members are not.
func (s *Scope) EnterStatic() *Scope {
	next := s.child()
	next.static = true

	return next
}

func (s *Scope) enterClass(frame *classFrame) *Scope {
	next := s.EnterBlock()
	frame.outer = s.class
	next.class = frame
	next.mutating = false
	next.static = false

	return next
}

// Lookup returns the type recorded for a bound name.
func (s *Scope) Lookup(name string) (string, bool) {
	for frame := s; frame != nil; frame = frame.parent {
		if typ, ok := frame.bindings[name]; ok {
			return typ, true
		}
	}

	return "", false
}

// DeclaredInBlock reports whether name was bound in the innermost block.
func (s *Scope) DeclaredInBlock(name string) bool {
	for frame := s; frame != nil; frame = frame.parent {
		if _, ok := frame.bindings[name]; ok {
			return true
		}

		if frame.blockStart {
			return false
		}
	}

	return false
}

// IsMember reports whether name is an instance member of the enclosing class
// visible from this scope.
func (s *Scope) IsMember(name string) bool {
	return s.class != nil && !s.static && s.class.members[name]
}

// IsStaticMember reports whether name is a static member of the enclosing
// class visible unqualified from this scope.
func (s *Scope) IsStaticMember(name string) bool {
	return s.class != nil && s.static && s.class.statics[name]
}

// ClassName returns the enclosing class name, or "".
func (s *Scope) ClassName() string {
	if s.class == nil {
		return ""
	}

	return s.class.name
}

// ClassNameFor returns the declared class a type name refers to from this
// scope: nested candidates Outer$Name are tried innermost first, then the bare
// name. It returns "" when no such class is known.
func (s *Scope) ClassNameFor(name string) string {
	for frame := s.class; frame != nil; frame = frame.outer {
		if nested := frame.name + "$" + name; s.file.isClass(nested) {
			return nested
		}
	}

	if s.file.isClass(name) {
		return name
	}

	return ""
}

// Resolve classifies an identifier: local binding, instance member, static
// member (inside static bodies), known class, or free name.
func (s *Scope) Resolve(name string) Resolution {
	if _, ok := s.Lookup(name); ok {
		return Resolution{Kind: ResolveLocal, Target: name}
	}

	if s.IsMember(name) {
		return Resolution{Kind: ResolveInstanceMember, Target: name}
	}

	if s.IsStaticMember(name) {
		return Resolution{Kind: ResolveStaticMember, Target: s.class.name + "." + name}
	}

	if class := s.ClassNameFor(name); class != "" {
		return Resolution{Kind: ResolveKnownClass, Target: class}
	}

	return Resolution{Kind: ResolveFree, Target: name}
}
