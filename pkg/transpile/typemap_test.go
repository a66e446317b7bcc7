package transpile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

func TestTypes_CompositeAnnotations(t *testing.T) {
	t.Parallel()

	array := node("array_type", tok("["), userType("String"), tok("]"))
	dict := node("dictionary_type", tok("["), userType("String"), tok(":"), userType("Int"), tok("]"))
	fn := node("function_type",
		node("tuple_type", tok("("), node("tuple_type_item", userType("Int")), tok(")")), tok("->"), userType("Bool"))
	pair := node("tuple_type", tok("("), node("tuple_type_item", userType("Int")), tok(","),
		node("tuple_type_item", userType("String")), tok(")"))

	out := translate(t, source(
		property("var", "names", array, nil),
		property("var", "ages", dict, nil),
		property("var", "check", fn, nil),
		property("var", "entry", pair, nil),
		property("var", "maybe", optional(userType("Double")), nil),
	))

	assert.Contains(t, out, "let names: Array<string>;")
	assert.Contains(t, out, "let ages: Record<string, number>;")
	assert.Contains(t, out, "let check: (_0: number) => boolean;")
	assert.Contains(t, out, "let entry: [number, string];")
	assert.Contains(t, out, "let maybe: number | undefined;")
}

func TestTypes_UnknownNamesImportFromDefaultModule(t *testing.T) {
	t.Parallel()

	out := translate(t, source(property("var", "when", userType("Date"), nil), property("var", "c", userType("Color"), nil)))

	assert.Contains(t, out, `import { Color } from "@tswift/util";`)
	assert.NotContains(t, out, "import { Date")
}

func TestTypes_GenericArguments(t *testing.T) {
	t.Parallel()

	generic := node("user_type", cst.Leaf("type_identifier", "Box"), node("type_arguments", tok("<"), userType("Int"), tok(">")))

	out := translate(t, source(typeDecl("class", "Box"), property("var", "b", generic, nil)))

	assert.Contains(t, out, "let b: Box<number>;")
}
