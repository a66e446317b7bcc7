package batch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Drift compares one fresh translation with the output already on disk.
type Drift struct {
	Result  Result
	Missing bool
	Diffs   []diffmatchpatch.Diff
}

// Changed reports whether the on-disk output differs from the translation.
func (d Drift) Changed() bool {
	if d.Missing {
		return true
	}

	for _, diff := range d.Diffs {
		if diff.Type != diffmatchpatch.DiffEqual {
			return true
		}
	}

	return false
}

// CheckDrift compares every successful result with its existing output file.
func CheckDrift(results []Result) ([]Drift, error) {
	out := make([]Drift, 0, len(results))

	for _, res := range results {
		if !res.OK() {
			continue
		}

		existing, err := os.ReadFile(res.Output)
		if errors.Is(err, fs.ErrNotExist) {
			out = append(out, Drift{Result: res, Missing: true})

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("read %s: %w", res.Output, err)
		}

		out = append(out, Drift{Result: res, Diffs: LineDiff(string(existing), res.Text)})
	}

	return out, nil
}

// LineDiff computes a line-granular diff from old to updated.
func LineDiff(old, updated string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(old, updated)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCleanupMerge(dmp.DiffCleanupSemanticLossless(diffs))

	return dmp.DiffCharsToLines(diffs, lines)
}

// RenderDiff writes changed lines prefixed with "+" or "-", green and red
// when color is enabled. Unchanged runs are elided.
func RenderDiff(w io.Writer, diffs []diffmatchpatch.Diff) error {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, diff := range diffs {
		var (
			printer *color.Color
			prefix  string
		)

		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			printer, prefix = added, "+"
		case diffmatchpatch.DiffDelete:
			printer, prefix = removed, "-"
		default:
			continue
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			_, err := printer.Fprintln(w, prefix+line)
			if err != nil {
				return fmt.Errorf("render diff: %w", err)
			}
		}
	}

	return nil
}
