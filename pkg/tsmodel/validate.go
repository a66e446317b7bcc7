package tsmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/typescript"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// ErrSyntax reports emitted TypeScript that does not parse.
var ErrSyntax = errors.New("typescript syntax error")

// maxReported caps the number of error locations listed in one ErrSyntax.
const maxReported = 5

var (
	tsOnce sync.Once
	tsLang *sitter.Language
)

func typescriptLanguage() *sitter.Language {
	tsOnce.Do(func() {
		tsLang = sitter.NewLanguage(typescript.GetLanguage())
	})

	return tsLang
}

// Validate parses src with the tree-sitter TypeScript grammar and returns an
// ErrSyntax listing the lines of the first ERROR nodes, if any.
func Validate(ctx context.Context, src string) error {
	parser := sitter.NewParser()
	parser.SetLanguage(typescriptLanguage())

	tree, err := parser.ParseString(ctx, nil, []byte(src))
	if err != nil {
		return fmt.Errorf("parse typescript: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return fmt.Errorf("%w: empty tree", ErrSyntax)
	}

	var lines []string

	collectErrors(root, &lines)

	if len(lines) == 0 {
		return nil
	}

	return fmt.Errorf("%w at line %s", ErrSyntax, strings.Join(lines, ", "))
}

func collectErrors(n sitter.Node, lines *[]string) {
	if len(*lines) >= maxReported {
		return
	}

	if n.Type() == "ERROR" {
		*lines = append(*lines, fmt.Sprint(n.StartPoint().Row+1))

		return
	}

	for idx := range n.ChildCount() {
		collectErrors(n.Child(idx), lines)
	}
}
