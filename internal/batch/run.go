package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
	"github.com/Sumatoshi-tech/tswift/pkg/tsmodel"
)

// ErrInvalidOutput marks a translation whose TypeScript does not parse.
var ErrInvalidOutput = errors.New("emitted typescript is invalid")

// Translator translates one Swift source. *transpile.Transpiler satisfies it.
type Translator interface {
	Transpile(ctx context.Context, name string, content []byte) (*tsmodel.SourceFile, error)
}

// Options configure a batch run.
type Options struct {
	// Jobs bounds the number of files translated concurrently. Zero or less
	// uses one worker per CPU.
	Jobs int
	// Validate re-parses every output with the TypeScript grammar.
	Validate bool
	// Recorder receives per-file metrics. Nil disables them.
	Recorder *metrics.Recorder
	// Logger receives per-file failures. Nil discards them.
	Logger *slog.Logger
}

// Result is the outcome of one file.
type Result struct {
	Source  Source
	Output  string
	Text    string
	Err     error
	Elapsed time.Duration
}

// OK reports whether the file translated (and validated, when asked).
func (r Result) OK() bool { return r.Err == nil }

// Run translates sources concurrently. A failing file never aborts the
// others; its error is kept in its Result. Run itself only fails when ctx is
// canceled. Results are in source order.
func Run(ctx context.Context, tr Translator, sources []Source, opts Options) ([]Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]Result, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(sources))))

	for i, src := range sources {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			results[i] = translateOne(gctx, tr, src, opts.Validate)

			res := results[i]
			if res.Err != nil {
				logger.WarnContext(gctx, "translation failed", "file", src.Name, "error", res.Err)
			}

			if opts.Recorder != nil {
				opts.Recorder.ObserveFile(resultLabel(res.Err), res.Elapsed, len(res.Text))
			}

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}

	return results, nil
}

func translateOne(ctx context.Context, tr Translator, src Source, validate bool) Result {
	start := time.Now()
	res := Result{Source: src}

	file, err := tr.Transpile(ctx, src.Name, src.Content)
	if err != nil {
		res.Err = err
		res.Elapsed = time.Since(start)

		return res
	}

	res.Output = file.Path()
	res.Text = file.Text()

	if validate {
		validateErr := tsmodel.Validate(ctx, res.Text)
		if validateErr != nil {
			res.Err = fmt.Errorf("%w: %w", ErrInvalidOutput, validateErr)
		}
	}

	res.Elapsed = time.Since(start)

	return res
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrInvalidOutput):
		return metrics.ResultInvalid
	default:
		return metrics.ResultFailed
	}
}

// File modes for written output.
const (
	outputMode = 0o644
	dirMode    = 0o755
)

// WriteOutputs writes every successful result to its output path.
func WriteOutputs(results []Result) error {
	for _, res := range results {
		if !res.OK() {
			continue
		}

		err := os.MkdirAll(filepath.Dir(res.Output), dirMode)
		if err != nil {
			return fmt.Errorf("create output dir for %s: %w", res.Output, err)
		}

		//nolint:gosec // output files are meant to be world-readable sources.
		err = os.WriteFile(res.Output, []byte(res.Text), outputMode)
		if err != nil {
			return fmt.Errorf("write %s: %w", res.Output, err)
		}
	}

	return nil
}

// Failed counts the results that did not translate.
func Failed(results []Result) int {
	count := 0

	for _, res := range results {
		if !res.OK() {
			count++
		}
	}

	return count
}
