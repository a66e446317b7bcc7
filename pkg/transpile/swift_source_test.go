package transpile_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
)

// translateSource runs Swift text through the tree-sitter parser and the
// translator, so node shapes are the grammar's own.
func translateSource(t *testing.T, src string) string {
	t.Helper()

	file, err := transpile.New(cst.NewParser()).Transpile(context.Background(), "main.swift", []byte(src))
	require.NoError(t, err)

	return flatten(file.Text())
}

func TestSwiftSource_InitializerOverloadsMerge(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
class Point {
    var x: Int
    var y: Int

    init(x: Int) {
        self.x = x
        self.y = 0
    }

    init(x: Int, y: Int) {
        self.x = x
        self.y = y
    }
}
`)

	two := strings.Index(out, `if ($named ? "x" in $named && "y" in $named : $args.length === 2) {`)
	one := strings.Index(out, `if ($named ? "x" in $named : $args.length === 1) {`)

	require.GreaterOrEqual(t, two, 0, out)
	require.GreaterOrEqual(t, one, 0, out)
	assert.Less(t, two, one)
	assert.Contains(t, out, "constructor(...$args: any[]) {")
	assert.Contains(t, out, "this.x = x;\nthis.y = y;")
	assert.NotContains(t, out, "init(")
}

func TestSwiftSource_StoredAndComputedProperties(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
struct Box {
    var x: Int
    var doubled: Int {
        x * 2
    }
}
`)

	assert.Contains(t, out, "get doubled(): number {\nreturn this.x * 2;\n}")
	assert.Contains(t, out, "const x: number = $named ? $named.x : $args[0];")
}

func TestSwiftSource_EnumCasesAndAllCases(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
enum Direction {
    case north, south, west
}
`)

	assert.Contains(t, out, `public static readonly north = new Direction("north");`)
	assert.Contains(t, out, `public static readonly west = new Direction("west");`)
	assert.Contains(t, out, "public static readonly allCases = [Direction.north, Direction.south, Direction.west] as const;")
}

func TestSwiftSource_SwitchWithCommaSeparatedLabels(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
func size(_ x: Int) -> String {
    switch x {
    case 1, 2:
        return "small"
    default:
        return "large"
    }
}
`)

	assert.Contains(t, out, "export function size(x: number): string {")
	assert.Contains(t, out, "switch (x) {\ncase 1:\ncase 2: {")
	assert.Contains(t, out, `return "small";`)
	assert.Contains(t, out, "default: {")
}

func TestSwiftSource_GuardLetUnwraps(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
func greet(_ name: String?) -> String {
    guard let n = name else {
        return "nobody"
    }
    return n
}
`)

	assert.Contains(t, out, "const n = name;\nif (n == null) {\nreturn \"nobody\";\n}\nreturn n;")
}

func TestSwiftSource_ShorthandClosureArgument(t *testing.T) {
	t.Parallel()

	out := translateSource(t, `
let xs = [1, 2, 3]
let ys = xs.map { $0 * 2 }
`)

	assert.Contains(t, out, "xs.map($0 => $0 * 2)")
}
