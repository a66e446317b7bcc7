package config

import (
	"cmp"
	"slices"

	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
)

// Default values.
const (
	// DefaultJobs of zero means one worker per CPU.
	DefaultJobs     = 0
	DefaultValidate = false
	DefaultLogLevel = "info"
)

// Default returns the configuration written by `tswift config init`: the
// defaults with the stock type and import tables spelled out for editing.
func Default() *Config {
	opts := transpile.DefaultOptions()

	return &Config{
		Transpile: TranspileConfig{
			RuntimeModule: opts.RuntimeModule,
			BuiltinTypes:  sortedMappings(opts.BuiltInTypes),
			Imports:       sortedMappings(opts.ImportMap),
			Jobs:          DefaultJobs,
			Validate:      DefaultValidate,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: FormatText,
		},
	}
}

func sortedMappings(table map[string]string) []Mapping {
	out := make([]Mapping, 0, len(table))
	for from, to := range table {
		out = append(out, Mapping{From: from, To: to})
	}

	slices.SortFunc(out, func(a, b Mapping) int { return cmp.Compare(a.From, b.From) })

	return out
}
