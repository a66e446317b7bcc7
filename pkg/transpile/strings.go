package transpile

import (
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// stringLiteral translates a Swift string literal. Literals without
// interpolation keep their escapes inside double quotes; interpolated and
// multi-line literals become template literals whose embedded expressions are
// re-parsed and translated.
func (tr *translator) stringLiteral(n *cst.Node, sc *Scope) string {
	text := n.Text()

	var (
		raw       string
		multiline bool
	)

	switch {
	case strings.HasPrefix(text, `"""`) && strings.HasSuffix(text, `"""`) && len(text) >= 6:
		multiline = true
		raw = strings.TrimSuffix(strings.TrimPrefix(text, `"""`), `"""`)
		raw = dedent(strings.TrimPrefix(raw, "\n"))
	case strings.HasPrefix(text, `#"`) && strings.HasSuffix(text, `"#`):
		return "`" + escapeTemplate(strings.TrimSuffix(strings.TrimPrefix(text, `#"`), `"#`)) + "`"
	case strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && len(text) >= 2:
		raw = text[1 : len(text)-1]
	default:
		fail(ErrStructuralViolation, n, "string literal", "unterminated literal")
	}

	literals, exprs, ok := splitInterpolation(raw)
	if !ok {
		fail(ErrStructuralViolation, n, "string literal", "unbalanced interpolation")
	}

	if len(exprs) == 0 && !multiline {
		return `"` + raw + `"`
	}

	var sb strings.Builder

	sb.WriteByte('`')

	for idx, lit := range literals {
		sb.WriteString(escapeTemplate(lit))

		if idx < len(exprs) {
			sb.WriteString("${")
			sb.WriteString(tr.interpolation(n, exprs[idx], sc))
			sb.WriteByte('}')
		}
	}

	sb.WriteByte('`')

	return sb.String()
}

// splitInterpolation splits raw string content at `\(...)` segments. It
// returns one more literal than expressions.
func splitInterpolation(raw string) ([]string, []string, bool) {
	var (
		literals []string
		exprs    []string
		current  strings.Builder
	)

	for idx := 0; idx < len(raw); idx++ {
		ch := raw[idx]

		if ch != '\\' || idx+1 >= len(raw) {
			current.WriteByte(ch)

			continue
		}

		if raw[idx+1] != '(' {
			current.WriteByte(ch)
			current.WriteByte(raw[idx+1])
			idx++

			continue
		}

		end, ok := matchParen(raw, idx+1)
		if !ok {
			return nil, nil, false
		}

		literals = append(literals, current.String())
		current.Reset()
		exprs = append(exprs, raw[idx+2:end])
		idx = end
	}

	literals = append(literals, current.String())

	return literals, exprs, true
}

// matchParen returns the index of the parenthesis closing the one at open,
// skipping string literals.
func matchParen(text string, open int) (int, bool) {
	depth := 0
	inString := false

	for idx := open; idx < len(text); idx++ {
		ch := text[idx]

		if inString {
			switch ch {
			case '\\':
				idx++
			case '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return idx, true
			}
		}
	}

	return 0, false
}

func escapeTemplate(lit string) string {
	lit = strings.ReplaceAll(lit, "`", "\\`")

	return strings.ReplaceAll(lit, "${", "\\${")
}

// dedent drops the closing delimiter line and strips its indentation, which
// Swift removes from every line of a multi-line literal.
func dedent(raw string) string {
	cut := strings.LastIndex(raw, "\n")
	if cut < 0 {
		if strings.TrimSpace(raw) == "" {
			return ""
		}

		return raw
	}

	indent := raw[cut+1:]
	if strings.TrimSpace(indent) != "" {
		return raw
	}

	lines := strings.Split(raw[:cut], "\n")
	for idx, line := range lines {
		lines[idx] = strings.TrimPrefix(line, indent)
	}

	return strings.Join(lines, "\n")
}

// interpolation parses an embedded expression as a standalone program and
// translates it in the scope of the enclosing literal.
func (tr *translator) interpolation(at *cst.Node, source string, sc *Scope) string {
	if tr.parser == nil {
		fail(ErrStructuralViolation, at, "interpolation", "no parser for embedded expression")
	}

	root, err := tr.parser.Parse(tr.ctx, []byte(source))
	if err != nil {
		fail(ErrStructuralViolation, at, "interpolation", err.Error())
	}

	if cst.HasError(root) {
		fail(ErrStructuralViolation, at, "interpolation", "embedded expression does not parse")
	}

	parts := make([]string, 0, root.ChildCount())

	for _, child := range root.Children() {
		if child.Type() == ";" {
			continue
		}

		parts = append(parts, tr.expr(child, sc))
	}

	return strings.Join(parts, "")
}
