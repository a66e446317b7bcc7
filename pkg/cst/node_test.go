package cst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

func TestNew_LinksParentAndSiblings(t *testing.T) {
	t.Parallel()

	left := cst.Leaf("simple_identifier", "a")
	op := cst.Leaf("+")
	right := cst.Leaf("integer_literal", "1")
	root := cst.New("additive_expression", "", left, op, right)

	assert.Same(t, root, left.Parent())
	assert.Same(t, op, left.NextSibling())
	assert.Same(t, left, op.PrevSibling())
	assert.Nil(t, left.PrevSibling())
	assert.Nil(t, right.NextSibling())
	assert.Equal(t, "a + 1", root.Text())
}

func TestNode_ChildIndexing(t *testing.T) {
	t.Parallel()

	root := cst.New("tuple_expression", "(a, b)",
		cst.Leaf("("), cst.Leaf("simple_identifier", "a"), cst.Leaf(","),
		cst.Leaf("simple_identifier", "b"), cst.Leaf(")"))

	assert.Equal(t, 5, root.ChildCount())
	assert.Equal(t, "(", root.Child(0).Type())
	assert.Equal(t, ")", root.Child(-1).Type())
	assert.Nil(t, root.Child(5))
	assert.Nil(t, root.Child(-6))
	assert.True(t, root.HasChild("simple_identifier"))
	assert.Equal(t, "a", root.ChildOfType("simple_identifier").Text())
}

func TestNode_NilSafe(t *testing.T) {
	t.Parallel()

	var n *cst.Node

	assert.True(t, n.IsNull())
	assert.Empty(t, n.Type())
	assert.Empty(t, n.Text())
	assert.Nil(t, n.Parent())
	assert.Nil(t, n.NextSibling())
	assert.Nil(t, n.Child(0))
	assert.Zero(t, n.ChildCount())
	assert.False(t, n.Is("x"))
}

func TestLeaf_KindDoublesAsText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "let", cst.Leaf("let").Text())
	assert.Equal(t, "42", cst.Leaf("integer_literal", "42").Text())
}

func TestNew_ExplicitTextWins(t *testing.T) {
	t.Parallel()

	root := cst.New("call_expression", "foo()", cst.Leaf("simple_identifier", "foo"))

	require.Equal(t, 1, root.ChildCount())
	assert.Equal(t, "foo()", root.Text())
}
