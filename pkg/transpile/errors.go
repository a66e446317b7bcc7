package transpile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
)

// Error taxonomy. Every translation error wraps exactly one of these.
var (
	// ErrUnknownNodeKind is returned when a node kind reaches a dispatch point
	// with no matching case.
	ErrUnknownNodeKind = errors.New("unknown node kind")
	// ErrStructuralViolation is returned when a well-kinded node violates a
	// precondition of its handler.
	ErrStructuralViolation = errors.New("structural violation")
	// ErrUnresolvedType is returned when a type annotation cannot be mapped.
	ErrUnresolvedType = errors.New("unresolved type")
)

// maxErrorText bounds the node text quoted in error messages.
const maxErrorText = 80

// Error describes a fatal translation failure at a node.
type Error struct {
	Kind     error
	NodeKind string
	Text     string
	Label    string
	Detail   string
	Line     int
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.Error())

	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}

	fmt.Fprintf(&sb, " [%s %q", e.NodeKind, truncate(e.Text))

	if e.Label != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Label)
	}

	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}

	sb.WriteByte(']')

	return sb.String()
}

// Unwrap returns the taxonomy sentinel.
func (e *Error) Unwrap() error { return e.Kind }

func truncate(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxErrorText {
		return text[:maxErrorText] + "..."
	}

	return text
}

// bailout carries a translation error up the recursive descent; it is
// recovered at the file boundary so no partial output escapes.
type bailout struct {
	err error
}

func newError(kind error, n *cst.Node, label, detail string) *Error {
	return &Error{
		Kind:     kind,
		NodeKind: n.Type(),
		Text:     n.Text(),
		Label:    label,
		Detail:   detail,
		Line:     n.Line(),
	}
}

// fail aborts the current file translation.
func fail(kind error, n *cst.Node, label, detail string) {
	panic(bailout{err: newError(kind, n, label, detail)})
}

// unknownKind aborts with ErrUnknownNodeKind.
func unknownKind(n *cst.Node, label string) {
	fail(ErrUnknownNodeKind, n, label, "")
}

// catch converts a bailout panic into an error; other panics propagate.
func catch(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	b, ok := r.(bailout)
	if !ok {
		panic(r)
	}

	*errp = b.err
}
