package transpile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

func newTestScope() *Scope {
	return newScope(&fileState{
		out:        tsmodel.NewSourceFile("test.ts"),
		known:      map[string]bool{"Outer": true, "Outer$Inner": true, "Inner": true},
		extensions: map[string]int{},
	})
}

func TestScope_AddIsPersistent(t *testing.T) {
	t.Parallel()

	root := newTestScope()
	left := root.Add(Binding{Name: "a", Type: "number"})
	right := root.Add(Binding{Name: "b"})

	_, ok := root.Lookup("a")
	assert.False(t, ok)

	typ, ok := left.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "number", typ)

	_, ok = right.Lookup("a")
	assert.False(t, ok)
}

func TestScope_ResolutionOrder(t *testing.T) {
	t.Parallel()

	frame := &classFrame{name: "Outer", members: map[string]bool{"count": true, "Inner": true}}
	sc := newTestScope().enterClass(frame)

	assert.Equal(t, Resolution{Kind: ResolveInstanceMember, Target: "count"}, sc.Resolve("count"))
	assert.Equal(t, Resolution{Kind: ResolveFree, Target: "print"}, sc.Resolve("print"))

	shadowed := sc.Add(Binding{Name: "count"})
	assert.Equal(t, ResolveLocal, shadowed.Resolve("count").Kind)

	// Members win over classes of the same name.
	assert.Equal(t, ResolveInstanceMember, sc.Resolve("Inner").Kind)

	delete(frame.members, "Inner")
	assert.Equal(t, Resolution{Kind: ResolveKnownClass, Target: "Outer$Inner"}, sc.Resolve("Inner"))
}

func TestScope_ClassNameForPrefersNested(t *testing.T) {
	t.Parallel()

	top := newTestScope()
	assert.Equal(t, "Inner", top.ClassNameFor("Inner"))
	assert.Empty(t, top.ClassNameFor("Missing"))

	inner := top.enterClass(&classFrame{name: "Outer"})
	assert.Equal(t, "Outer$Inner", inner.ClassNameFor("Inner"))
	assert.Equal(t, "Outer", inner.ClassName())
}

func TestScope_DeclaredInBlockStopsAtBlockStart(t *testing.T) {
	t.Parallel()

	outer := newTestScope().Add(Binding{Name: "x"})
	assert.True(t, outer.DeclaredInBlock("x"))

	nested := outer.EnterBlock()
	assert.False(t, nested.DeclaredInBlock("x"))

	_, visible := nested.Lookup("x")
	assert.True(t, visible)
}

func TestScope_MutatingDoesNotLeakIntoClasses(t *testing.T) {
	t.Parallel()

	sc := newTestScope().EnterMutating()
	assert.True(t, sc.Add(Binding{Name: "a"}).mutating)
	assert.False(t, sc.enterClass(&classFrame{name: "Outer"}).mutating)
}

func TestScope_StaticContextQualifiesStatics(t *testing.T) {
	t.Parallel()

	frame := &classFrame{
		name:    "Counter",
		members: map[string]bool{"value": true},
		statics: map[string]bool{"count": true},
	}
	sc := newTestScope().enterClass(frame)

	assert.Equal(t, Resolution{Kind: ResolveInstanceMember, Target: "value"}, sc.Resolve("value"))
	assert.Equal(t, Resolution{Kind: ResolveStaticMember, Target: "Counter.count"}, sc.Resolve("count"))

	static := sc.EnterStatic()
	assert.Equal(t, ResolveFree, static.Resolve("value").Kind)
	assert.Equal(t, Resolution{Kind: ResolveStaticMember, Target: "Counter.count"}, static.Resolve("count"))
	assert.False(t, static.enterClass(&classFrame{name: "Inner"}).static)
}
