package transpile

import (
	"maps"
	"path/filepath"
	"strings"
)

// DefaultRuntimeModule provides the runtime helpers (range, tuple, operator)
// and is the fallback import source for unresolved names.
const DefaultRuntimeModule = "@tswift/util"

// Options are the immutable inputs of one translation run.
type Options struct {
	// BuiltInTypes maps Swift type names to TypeScript type names.
	BuiltInTypes map[string]string
	// ImportMap remaps Swift module names (or runtime module specifiers) to
	// TypeScript module specifiers.
	ImportMap map[string]string
	// RuntimeModule is the module specifier for runtime helpers.
	RuntimeModule string
	// OutDir is prefixed to output file paths.
	OutDir string
}

// DefaultOptions returns the stock type table and import remapping.
func DefaultOptions() Options {
	return Options{
		BuiltInTypes: map[string]string{
			"Character":  "string",
			"Bool":       "boolean",
			"number":     "number",
			"Double":     "number",
			"Float":      "number",
			"CGFloat":    "number",
			"Int":        "number",
			"String":     "string",
			"Void":       "void",
			"Any":        "any",
			"AnyObject":  "object",
			"Dictionary": "Record",
		},
		ImportMap: map[string]string{
			"SwiftUI": "@tswift/ui",
		},
		RuntimeModule: DefaultRuntimeModule,
	}
}

func (o Options) clone() Options {
	out := o
	out.BuiltInTypes = maps.Clone(o.BuiltInTypes)
	out.ImportMap = maps.Clone(o.ImportMap)

	if out.BuiltInTypes == nil {
		out.BuiltInTypes = map[string]string{}
	}

	if out.ImportMap == nil {
		out.ImportMap = map[string]string{}
	}

	if out.RuntimeModule == "" {
		out.RuntimeModule = DefaultRuntimeModule
	}

	return out
}

// OutputPath maps a Swift source name to its TypeScript output path.
func (o Options) OutputPath(name string) string {
	return filepath.Join(o.OutDir, strings.TrimSuffix(name, ".swift")+".ts")
}

// wrapperTypes maps primitive target types to their runtime constructors.
var wrapperTypes = map[string]string{
	"number":  "Number",
	"string":  "String",
	"boolean": "Boolean",
}
