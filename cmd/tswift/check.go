package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tswift/internal/batch"
	"github.com/Sumatoshi-tech/tswift/pkg/observability"
)

// ErrDrift is returned when existing TypeScript differs from a fresh translation.
var ErrDrift = errors.New("translated output is out of date")

func checkCmd(root *rootOptions) *cobra.Command {
	var flags batchFlags

	cmd := &cobra.Command{
		Use:   "check <paths...>",
		Short: "Verify that existing TypeScript output matches a fresh translation",
		Long: `Re-translate Swift sources and diff the result against the TypeScript files
already on disk. Exits non-zero when any file is missing or differs.

Examples:
  tswift check Sources/
  tswift check -o web/src --validate Sources/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, &flags, args)
		},
	}

	flags.register(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, flags *batchFlags, args []string) error {
	sess, err := root.open(observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	results, rec, err := translateAll(cmd, sess, flags, args)
	if err != nil {
		return err
	}

	drifts, err := batch.CheckDrift(results)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	header := color.New(color.FgYellow, color.Bold)
	changed := 0

	for _, drift := range drifts {
		if !drift.Changed() {
			continue
		}

		changed++

		if drift.Missing {
			header.Fprintf(out, "missing: %s\n", drift.Result.Output)

			continue
		}

		header.Fprintf(out, "drift: %s\n", drift.Result.Output)

		err = batch.RenderDiff(out, drift.Diffs)
		if err != nil {
			return err
		}
	}

	err = writeMetrics(sess, flags, rec)
	if err != nil {
		return err
	}

	failErr := reportFailures(cmd.ErrOrStderr(), results)

	if changed > 0 {
		return errors.Join(fmt.Errorf("%w: %d of %d files", ErrDrift, changed, len(drifts)), failErr)
	}

	if failErr == nil && !root.quiet {
		color.New(color.FgGreen).Fprintf(out, "%d files up to date\n", len(drifts))
	}

	return failErr
}
