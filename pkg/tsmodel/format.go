package tsmodel

import "strings"

// indentUnit matches the default TypeScript formatter settings.
const indentUnit = "    "

type lexState int

const (
	lexCode lexState = iota
	lexSingle
	lexDouble
	lexTemplate
	lexBlockComment
)

// braceScanner counts braces outside strings and comments across lines.
type braceScanner struct {
	state lexState
}

// scan returns the number of opening and closing braces in line, plus how many
// closing braces lead the line.
func (s *braceScanner) scan(line string) (opens, closes, leading int) {
	leadingDone := false

	for idx := 0; idx < len(line); idx++ {
		ch := line[idx]

		switch s.state {
		case lexCode:
			switch {
			case ch == '/' && idx+1 < len(line) && line[idx+1] == '/':
				idx = len(line)
			case ch == '/' && idx+1 < len(line) && line[idx+1] == '*':
				s.state = lexBlockComment
				idx++
			case ch == '\'':
				s.state = lexSingle
			case ch == '"':
				s.state = lexDouble
			case ch == '`':
				s.state = lexTemplate
			case ch == '{':
				opens++
			case ch == '}':
				closes++

				if !leadingDone {
					leading++
				}
			}

			if ch != '}' && ch != ' ' && ch != '\t' {
				leadingDone = true
			}
		case lexSingle, lexDouble:
			leadingDone = true

			switch {
			case ch == '\\':
				idx++
			case ch == '\'' && s.state == lexSingle, ch == '"' && s.state == lexDouble:
				s.state = lexCode
			}
		case lexTemplate:
			leadingDone = true

			switch ch {
			case '\\':
				idx++
			case '`':
				s.state = lexCode
			}
		case lexBlockComment:
			leadingDone = true

			if ch == '*' && idx+1 < len(line) && line[idx+1] == '/' {
				s.state = lexCode
				idx++
			}
		}
	}

	if s.state == lexSingle || s.state == lexDouble {
		s.state = lexCode
	}

	return opens, closes, leading
}

// Format re-indents src by brace depth, trims trailing whitespace and
// collapses runs of blank lines. Lines inside multi-line template literals are
// left untouched.
func Format(src string) string {
	var (
		out     strings.Builder
		scanner braceScanner
		depth   int
		pending bool
		prev    string
	)

	for _, raw := range strings.Split(src, "\n") {
		if scanner.state == lexTemplate {
			out.WriteString(raw)
			out.WriteByte('\n')
			scanner.scan(raw)

			continue
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			pending = prev != ""

			continue
		}

		if pending && !strings.HasSuffix(prev, "{") && !strings.HasPrefix(line, "}") {
			out.WriteByte('\n')
		}

		pending = false

		opens, closes, leading := scanner.scan(line)

		indent := max(depth-leading, 0)
		out.WriteString(strings.Repeat(indentUnit, indent))
		out.WriteString(line)
		out.WriteByte('\n')

		depth = max(depth+opens-closes, 0)
		prev = line
	}

	return out.String()
}
