package cst_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

func TestParser_ParsesSwift(t *testing.T) {
	t.Parallel()

	parser := cst.NewParser()

	root, err := parser.Parse(context.Background(), []byte("let answer = 42\n"))
	require.NoError(t, err)

	assert.Equal(t, "source_file", root.Type())
	assert.False(t, cst.HasError(root))

	literal := cst.Find(root, "integer_literal")
	require.NotNil(t, literal)
	assert.Equal(t, "42", literal.Text())
	assert.Equal(t, 1, literal.Line())
	assert.NotNil(t, literal.Parent())
}

func TestParser_ReusableAcrossCalls(t *testing.T) {
	t.Parallel()

	parser := cst.NewParser()

	for range 3 {
		root, err := parser.Parse(context.Background(), []byte("var x = \"a\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "source_file", root.Type())
	}
}
