package transpile

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

var implicitParam = regexp.MustCompile(`^\$\d+$`)

// lambda translates a closure literal into an arrow function. Closures without
// a signature get one parameter per distinct `$n` reference.
func (tr *translator) lambda(n *cst.Node, sc *Scope) string {
	if n == nil {
		fail(ErrStructuralViolation, n, "closure", "missing closure literal")
	}

	var (
		params   []tsmodel.Parameter
		ret      string
		body     *cst.Node
		explicit bool
	)

	for _, child := range n.Children() {
		switch child.Type() {
		case "{", "}", "in", "capture_list":
		case "lambda_function_type":
			explicit = true
			params, ret = tr.lambdaSignature(child, sc)
		case "statements":
			body = child
		default:
			unknownKind(child, "closure")
		}
	}

	if !explicit {
		for _, name := range implicitParams(body) {
			params = append(params, tsmodel.Parameter{Name: name})
		}
	}

	bindings := make([]Binding, 0, len(params))
	for _, p := range params {
		bindings = append(bindings, Binding{Name: p.Name, Type: p.Type})
	}

	inner := sc.EnterBlock().Add(bindings...)

	var text string

	if expr := singleExpression(body); expr != nil {
		text = tr.expr(expr, inner)
		if strings.HasPrefix(text, "{") {
			text = "(" + text + ")"
		}
	} else {
		var sb strings.Builder

		sb.WriteString("{\n")
		writeStatements(&sb, tr.block(body, inner))
		sb.WriteString("}")

		text = sb.String()
	}

	return arrowHead(params, ret) + " => " + text
}

// arrowHead renders a bare parameter for a single untyped parameter and a
// parenthesized list otherwise.
func arrowHead(params []tsmodel.Parameter, ret string) string {
	if len(params) == 1 && params[0].Type == "" && ret == "" {
		return params[0].Name
	}

	parts := make([]string, 0, len(params))

	for _, p := range params {
		if p.Type == "" {
			parts = append(parts, p.Name)
		} else {
			parts = append(parts, p.Name+": "+p.Type)
		}
	}

	head := "(" + strings.Join(parts, ", ") + ")"
	if ret != "" {
		head += ": " + ret
	}

	return head
}

func (tr *translator) lambdaSignature(n *cst.Node, sc *Scope) ([]tsmodel.Parameter, string) {
	var (
		params []tsmodel.Parameter
		ret    string
		arrow  bool
	)

	var visit func(c *cst.Node)

	visit = func(c *cst.Node) {
		switch c.Type() {
		case "lambda_parameter":
			params = append(params, tr.lambdaParameter(c, sc))
		case "->":
			arrow = true
		case "simple_identifier":
			params = append(params, tsmodel.Parameter{Name: c.Text()})
		default:
			if arrow && typeKinds[c.Type()] {
				ret = tr.typeNode(c, sc)

				return
			}

			for _, child := range c.Children() {
				visit(child)
			}
		}
	}

	for _, child := range n.Children() {
		visit(child)
	}

	return params, ret
}

func (tr *translator) lambdaParameter(n *cst.Node, sc *Scope) tsmodel.Parameter {
	var param tsmodel.Parameter

	for _, child := range n.Children() {
		switch {
		case child.Type() == "simple_identifier":
			param.Name = child.Text()
		case typeKinds[child.Type()]:
			param.Type = tr.typeNode(child, sc)
		}
	}

	if param.Name == "" {
		param.Name = strings.TrimSpace(n.Text())
	}

	return param
}

// implicitParams lists the distinct `$n` names referenced in body, in order of
// first appearance, ignoring nested closures.
func implicitParams(body *cst.Node) []string {
	var names []string

	cst.Walk(body, func(c *cst.Node) bool {
		if c.Type() == "lambda_literal" {
			return false
		}

		if c.Type() == "simple_identifier" && implicitParam.MatchString(c.Text()) && !slices.Contains(names, c.Text()) {
			names = append(names, c.Text())
		}

		return true
	})

	return names
}
