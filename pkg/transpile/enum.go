package transpile

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// enumCase is one `case name [= raw]` entry.
type enumCase struct {
	name string
	raw  *cst.Node
}

// enumDecl translates an enum into a class with one static readonly instance
// per case, a public readonly rawValue and a static allCases list.
func (tr *translator) enumDecl(n *cst.Node, sc *Scope) {
	_, name := declarationHead(n)

	body := n.Child(-1)
	if !body.Is("enum_class_body") {
		fail(ErrStructuralViolation, n, "enum", "missing body")
	}

	var rawType string

	if spec := n.ChildOfType("inheritance_specifier"); spec != nil {
		rawType = tr.inheritedType(spec, sc)
	}

	frame := &classFrame{
		name:   qualifiedName(sc, name),
		isEnum: true,
	}
	frame.members, frame.statics = memberNames(body)
	frame.members["rawValue"] = true
	frame.statics["allCases"] = true

	tr.nestedClasses(body, sc, frame)

	frame.builder = tr.file.out.DeclareClass(tsmodel.ClassSpec{Name: frame.name, Exported: sc.class == nil})
	inner := sc.enterClass(frame)

	cases := enumCases(body)
	names := make([]string, 0, len(cases))

	for _, c := range cases {
		frame.statics[c.name] = true
	}
	counter := -1

	for _, c := range cases {
		var arg string

		switch {
		case c.raw != nil:
			if v, err := strconv.Atoi(strings.ReplaceAll(c.raw.Text(), " ", "")); err == nil {
				counter = v
				arg = strconv.Itoa(v)
			} else {
				arg = tr.expr(c.raw, inner)
			}
		case rawType == "number":
			counter++
			arg = strconv.Itoa(counter)
		default:
			arg = strconv.Quote(c.name)
		}

		frame.builder.AddProperty(&tsmodel.Property{
			Name:        c.name,
			Scope:       tsmodel.ScopePublic,
			Static:      true,
			Readonly:    true,
			Initializer: "new " + frame.name + "(" + arg + ")",
		})

		names = append(names, frame.name+"."+c.name)
	}

	frame.builder.AddProperty(&tsmodel.Property{
		Name:        "allCases",
		Scope:       tsmodel.ScopePublic,
		Static:      true,
		Readonly:    true,
		Initializer: "[" + strings.Join(names, ", ") + "] as const",
	})

	valueType := rawType
	if valueType == "" {
		valueType = "string"
	}

	frame.builder.SetConstructor(&tsmodel.Constructor{
		Params: []tsmodel.Parameter{{Name: "rawValue", Type: valueType, Scope: tsmodel.ScopePublic, Readonly: true}},
	})

	tr.logger.Debug("enum declared", "enum", frame.name, "cases", len(cases))

	tr.classBody(body, inner, frame)
}

// enumCases flattens the entries of an enum body; one entry may declare
// several comma-separated cases.
func enumCases(body *cst.Node) []enumCase {
	var cases []enumCase

	for _, entry := range body.Children() {
		if entry.Type() != "enum_entry" {
			continue
		}

		afterEq := false

		for _, child := range entry.Children() {
			switch child.Type() {
			case "case", ",", ";", "modifiers", "indirect":
				afterEq = false
			case "=":
				afterEq = true
			case "simple_identifier":
				if afterEq {
					cases[len(cases)-1].raw = child
					afterEq = false

					continue
				}

				cases = append(cases, enumCase{name: child.Text()})
			case "enum_type_parameters":
				fail(ErrStructuralViolation, child, "enum", "associated values are not supported")
			default:
				if !afterEq || len(cases) == 0 {
					unknownKind(child, "enum entry")
				}

				cases[len(cases)-1].raw = child
				afterEq = false
			}
		}
	}

	return cases
}
