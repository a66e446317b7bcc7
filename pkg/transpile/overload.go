package transpile

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// Names used by generated dispatch code. `$` cannot start a Swift identifier
// other than closure shorthands, so these never collide with parameters.
const (
	restArgs  = "$args"
	namedArgs = "$named"
)

type overloadVariant struct {
	decl funcDecl
	body []string
}

// overloadSet is every declaration sharing one name (and static-ness).
type overloadSet struct {
	function *tsmodel.Function
	name     string
	variants []overloadVariant
	static   bool
}

type overloadSets struct {
	byKey map[string]*overloadSet
	order []*overloadSet
}

func newOverloadSets() *overloadSets {
	return &overloadSets{byKey: make(map[string]*overloadSet)}
}

// add appends a variant and reports whether it opened a new set.
func (o *overloadSets) add(name string, static bool, v overloadVariant) (*overloadSet, bool) {
	key := name
	if static {
		key = "static " + name
	}

	set, ok := o.byKey[key]
	if !ok {
		set = &overloadSet{name: name, static: static}
		o.byKey[key] = set
		o.order = append(o.order, set)
	}

	set.variants = append(set.variants, v)

	return set, !ok
}

func (o *overloadSets) flushFunctions(tr *translator) {
	for _, set := range o.order {
		params, stmts, ret := tr.mergeOverloads(set)
		first := set.variants[0].decl

		set.function.Params = params
		set.function.Statements = stmts
		set.function.ReturnType = ret
		set.function.TypeParameters = first.typeParams
		set.function.Docs = first.docs
	}
}

func (o *overloadSets) flushMethods(tr *translator, class tsmodel.ClassBuilder) {
	for _, set := range o.order {
		params, stmts, ret := tr.mergeOverloads(set)
		first := set.variants[0].decl

		class.AddMethod(&tsmodel.Method{
			Name:           set.name,
			ReturnType:     ret,
			TypeParameters: first.typeParams,
			Scope:          first.scope,
			Params:         params,
			Statements:     stmts,
			Docs:           first.docs,
			Static:         set.static,
			Override:       first.override,
		})
	}
}

// mergeOverloads produces one callable for a set of declarations. A single
// declaration without labeled parameters keeps its plain parameter list.
// Otherwise the callable takes rest arguments and routes on either the keys
// of a single object-literal argument or the argument count, trying variants
// with more parameters first.
func (tr *translator) mergeOverloads(set *overloadSet) ([]tsmodel.Parameter, []string, string) {
	ret := overloadReturnType(set.variants)

	if len(set.variants) == 1 && !slices.ContainsFunc(set.variants[0].decl.params, param.labeled) {
		v := set.variants[0]

		return plainParams(v.decl.params), v.body, ret
	}

	tr.checkAmbiguity(set)

	ordered := slices.Clone(set.variants)
	slices.SortStableFunc(ordered, func(a, b overloadVariant) int {
		if diff := len(b.decl.params) - len(a.decl.params); diff != 0 {
			return diff
		}

		return boolRank(namedCallable(b.decl.params)) - boolRank(namedCallable(a.decl.params))
	})

	var stmts []string

	if slices.ContainsFunc(ordered, func(v overloadVariant) bool { return namedCallable(v.decl.params) }) {
		stmts = append(stmts, "const "+namedArgs+" = "+restArgs+".length === 1 && "+restArgs+
			"[0]?.constructor === Object ? "+restArgs+"[0] : undefined;")
	}

	if len(ordered) == 1 {
		stmts = append(stmts, bindArguments(ordered[0].decl.params)...)
		stmts = append(stmts, ordered[0].body...)

		return restParameters(), stmts, ret
	}

	for _, v := range ordered {
		var sb strings.Builder

		sb.WriteString("if (" + variantGuard(v.decl.params) + ") {\n")
		writeStatements(&sb, bindArguments(v.decl.params))
		writeStatements(&sb, v.body)

		if !endsWithExit(v.body) {
			sb.WriteString("return;\n")
		}

		sb.WriteString("}")
		stmts = append(stmts, sb.String())
	}

	stmts = append(stmts, "throw new Error("+strconv.Quote("no overload of "+set.name+" matches the given arguments")+");")

	return restParameters(), stmts, ret
}

func restParameters() []tsmodel.Parameter {
	return []tsmodel.Parameter{{Name: restArgs, Type: "any[]", Rest: true}}
}

func plainParams(params []param) []tsmodel.Parameter {
	out := make([]tsmodel.Parameter, 0, len(params))

	for _, p := range params {
		out = append(out, tsmodel.Parameter{Name: p.name, Type: p.typ, Initializer: p.initializer})
	}

	return out
}

// namedCallable reports whether a call site can pass params as one object
// literal, which requires every parameter to carry a label.
func namedCallable(params []param) bool {
	return len(params) > 0 && !slices.ContainsFunc(params, func(p param) bool { return !p.labeled() })
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

// variantGuard tests whether the call arguments fit params, by label set for
// object-literal calls and by count for positional calls. Variants with an
// unlabeled parameter only ever match by count, so a lone positional object
// argument still reaches them.
func variantGuard(params []param) string {
	var (
		labels   []string
		required int
	)

	for _, p := range params {
		if p.initializer == "" {
			required++

			labels = append(labels, strconv.Quote(p.label)+" in "+namedArgs)
		}
	}

	posCond := restArgs + ".length === " + strconv.Itoa(len(params))
	if required < len(params) {
		posCond = restArgs + ".length >= " + strconv.Itoa(required) + " && " + restArgs + ".length <= " + strconv.Itoa(len(params))
	}

	if !namedCallable(params) {
		return posCond
	}

	namedCond := "true"
	if len(labels) > 0 {
		namedCond = strings.Join(labels, " && ")
	}

	return namedArgs + " ? " + namedCond + " : " + posCond
}

// bindArguments declares each internal parameter name from the named object
// or its position.
func bindArguments(params []param) []string {
	out := make([]string, 0, len(params))

	named := namedCallable(params)

	for idx, p := range params {
		value := restArgs + "[" + strconv.Itoa(idx) + "]"
		if named {
			value = namedArgs + " ? " + namedArgs + "." + p.label + " : " + value
			if p.initializer != "" {
				value = "(" + value + ")"
			}
		}

		if p.initializer != "" {
			value += " ?? " + p.initializer
		}

		decl := "const " + p.name
		if p.typ != "" {
			decl += ": " + p.typ
		}

		out = append(out, decl+" = "+value+";")
	}

	return out
}

// checkAmbiguity rejects two variants with the same arity and label set.
func (tr *translator) checkAmbiguity(set *overloadSet) {
	seen := make(map[string]bool, len(set.variants))

	for _, v := range set.variants {
		labels := make([]string, 0, len(v.decl.params))
		for _, p := range v.decl.params {
			labels = append(labels, p.label)
		}

		slices.Sort(labels)

		key := strconv.Itoa(len(labels)) + ":" + strings.Join(labels, ",")
		if seen[key] {
			fail(ErrStructuralViolation, v.decl.node, "overload", "ambiguous overloads of "+set.name)
		}

		seen[key] = true
	}
}

func overloadReturnType(variants []overloadVariant) string {
	var types []string

	for _, v := range variants {
		if v.decl.ret != "" && !slices.Contains(types, v.decl.ret) {
			types = append(types, v.decl.ret)
		}
	}

	return strings.Join(types, " | ")
}

func endsWithExit(body []string) bool {
	if len(body) == 0 {
		return false
	}

	last := strings.TrimSpace(body[len(body)-1])

	return strings.HasPrefix(last, "return") || strings.HasPrefix(last, "throw")
}
