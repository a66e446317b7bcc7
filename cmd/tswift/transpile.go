package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tswift/internal/batch"
	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
	"github.com/Sumatoshi-tech/tswift/pkg/observability"
)

// ErrFilesFailed is returned when at least one file did not translate.
var ErrFilesFailed = errors.New("translation failed")

// batchFlags are shared by transpile and check.
type batchFlags struct {
	out             string
	jobs            int
	validate        bool
	metricsTextfile string
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (overrides transpile.out_dir)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "parallel workers (default: transpile.jobs, 0 = number of CPUs)")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "re-parse emitted TypeScript and fail on syntax errors")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "",
		"write Prometheus metrics in textfile format (overrides metrics.textfile)")
}

func transpileCmd(root *rootOptions) *cobra.Command {
	var (
		flags    batchFlags
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:   "transpile <paths...>",
		Short: "Translate Swift files or directories to TypeScript",
		Long: `Translate Swift sources to TypeScript.

Directories are searched recursively for Swift files; vendored directories
such as Pods and Carthage are skipped. Each Foo.swift becomes Foo.ts under the
output directory, keeping its relative path.

Examples:
  tswift transpile Sources/                 # write into the current directory
  tswift transpile -o web/src Sources/      # write into web/src
  tswift transpile --stdout Model.swift     # print instead of writing
  tswift transpile --validate -j 8 Sources/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranspile(cmd, root, &flags, toStdout, args)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print TypeScript to stdout instead of writing files")

	return cmd
}

func runTranspile(cmd *cobra.Command, root *rootOptions, flags *batchFlags, toStdout bool, args []string) error {
	sess, err := root.open(observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	results, rec, err := translateAll(cmd, sess, flags, args)
	if err != nil {
		return err
	}

	if toStdout {
		err = printOutputs(cmd.OutOrStdout(), results)
	} else {
		err = batch.WriteOutputs(results)
	}

	if err != nil {
		return err
	}

	if !root.quiet && !toStdout {
		err = batch.WriteSummary(cmd.OutOrStdout(), results)
		if err != nil {
			return err
		}
	}

	err = writeMetrics(sess, flags, rec)
	if err != nil {
		return err
	}

	return reportFailures(cmd.ErrOrStderr(), results)
}

// translateAll collects the sources under args and translates them with the
// session's configuration, overridden by flags.
func translateAll(cmd *cobra.Command, sess *session, flags *batchFlags, args []string) ([]batch.Result, *metrics.Recorder, error) {
	sources, err := batch.Collect(args)
	if err != nil {
		return nil, nil, err
	}

	opts := sess.cfg.TranspileOptions()
	if flags.out != "" {
		opts.OutDir = flags.out
	}

	jobs := sess.cfg.Transpile.Jobs
	if flags.jobs > 0 {
		jobs = flags.jobs
	}

	rec := metrics.NewRecorder()

	sess.providers.Logger.DebugContext(cmd.Context(), "translating", "files", len(sources), "jobs", jobs)

	results, err := batch.Run(cmd.Context(), sess.transpiler(opts), sources, batch.Options{
		Jobs:     jobs,
		Validate: flags.validate || sess.cfg.Transpile.Validate,
		Recorder: rec,
		Logger:   sess.providers.Logger,
	})
	if err != nil {
		return nil, nil, err
	}

	return results, rec, nil
}

func printOutputs(w io.Writer, results []batch.Result) error {
	for _, res := range results {
		if !res.OK() {
			continue
		}

		if len(results) > 1 {
			_, err := fmt.Fprintf(w, "// %s\n", res.Output)
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		_, err := io.WriteString(w, res.Text)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	return nil
}

func writeMetrics(sess *session, flags *batchFlags, rec *metrics.Recorder) error {
	path := flags.metricsTextfile
	if path == "" {
		path = sess.cfg.Metrics.Textfile
	}

	if path == "" {
		return nil
	}

	return rec.WriteTextfile(path)
}

func reportFailures(w io.Writer, results []batch.Result) error {
	failed := batch.Failed(results)
	if failed == 0 {
		return nil
	}

	for _, res := range results {
		if !res.OK() {
			fmt.Fprintf(w, "%s: %s\n", res.Source.Name, sanitizeForTerminal(res.Err.Error()))
		}
	}

	return fmt.Errorf("%w: %d of %d files", ErrFilesFailed, failed, len(results))
}
