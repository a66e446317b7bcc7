package tsmodel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

func TestValidate_AcceptsValidSource(t *testing.T) {
	t.Parallel()

	file := tsmodel.NewSourceFile("a.ts")
	class := file.DeclareClass(tsmodel.ClassSpec{Name: "A", Exported: true})
	class.AddProperty(&tsmodel.Property{Name: "x", Type: "number", Initializer: "1"})

	require.NoError(t, tsmodel.Validate(context.Background(), file.Text()))
}

func TestValidate_RejectsBrokenSource(t *testing.T) {
	t.Parallel()

	err := tsmodel.Validate(context.Background(), "class {{{ = ;\n")

	require.Error(t, err)
	assert.ErrorIs(t, err, tsmodel.ErrSyntax)
}
