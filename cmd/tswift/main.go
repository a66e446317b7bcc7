// Package main provides the tswift CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tswift/pkg/config"
	"github.com/Sumatoshi-tech/tswift/pkg/cst"
	"github.com/Sumatoshi-tech/tswift/pkg/observability"
	"github.com/Sumatoshi-tech/tswift/pkg/transpile"
	"github.com/Sumatoshi-tech/tswift/pkg/version"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	cfgFile string
	verbose bool
	quiet   bool
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tswift",
		Short: "Swift to TypeScript translator",
		Long: `tswift translates Swift sources into TypeScript modules that run on the
@tswift runtime packages.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./.tswift.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(transpileCmd(opts))
	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(mcpCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// session is the per-command runtime: loaded config plus observability.
type session struct {
	cfg       *config.Config
	providers observability.Providers
}

func (o *rootOptions) open(mode observability.AppMode, logOut io.Writer) (*session, error) {
	cfg, err := config.LoadConfig(o.cfgFile)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.Observability(version.Version, mode)

	switch {
	case o.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case o.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg, logOut)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	return &session{cfg: cfg, providers: providers}, nil
}

func (s *session) close() {
	shutdownErr := s.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

func (s *session) transpiler(opts transpile.Options) *transpile.Transpiler {
	return transpile.New(cst.NewParser(),
		transpile.WithOptions(opts),
		transpile.WithLogger(s.providers.Logger),
		transpile.WithTracer(s.providers.Tracer),
	)
}
