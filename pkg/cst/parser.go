package cst

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexaandru/go-sitter-forest/swift"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/tswift/pkg/safeconv"
)

// Sentinel errors for parser operations.
var (
	ErrNoRootNode = errors.New("cst parser: no root node")
	errPoolType   = errors.New("cst parser: pool returned unexpected type")
)

var (
	swiftOnce sync.Once
	swiftLang *sitter.Language
)

// SwiftLanguage returns the tree-sitter Swift grammar.
func SwiftLanguage() *sitter.Language {
	swiftOnce.Do(func() {
		swiftLang = sitter.NewLanguage(swift.GetLanguage())
	})

	return swiftLang
}

// Parser turns Swift source into a Node tree using tree-sitter.
// It is safe for concurrent use; tree-sitter parsers are pooled.
type Parser struct {
	pool sync.Pool
}

// NewParser creates a Swift CST parser.
func NewParser() *Parser {
	lang := SwiftLanguage()

	return &Parser{
		pool: sync.Pool{
			New: func() any {
				tsParser := sitter.NewParser()
				tsParser.SetLanguage(lang)

				return tsParser
			},
		},
	}
}

// Parse parses content and converts the tree-sitter tree into a Node tree.
// Both named and anonymous nodes are kept; the translator relies on tokens
// such as "let", "{" and "," being present as children.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Node, error) {
	tsParser, ok := p.pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("cst parser: failed to parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, ErrNoRootNode
	}

	return convert(root, content), nil
}

func convert(tsNode sitter.Node, content []byte) *Node {
	children := make([]*Node, 0, tsNode.ChildCount())

	for idx := range tsNode.ChildCount() {
		child := tsNode.Child(idx)
		if child.IsNull() {
			continue
		}

		children = append(children, convert(child, content))
	}

	node := New(tsNode.Type(), nodeText(tsNode, content), children...)
	node.line = safeconv.MustUintToInt(uint(tsNode.StartPoint().Row)) + 1

	return node
}

func nodeText(tsNode sitter.Node, content []byte) string {
	start := safeconv.MustUintToInt(tsNode.StartByte())
	end := safeconv.MustUintToInt(tsNode.EndByte())

	if start > end || end > len(content) {
		return ""
	}

	return string(content[start:end])
}
