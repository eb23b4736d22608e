// Command murxla is the model-based API fuzzer's CLI entry point: a
// package-level cobra.Command whose flags are bound in init() against a
// package-level Options value, plus a version subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alex-ozdemir/murxla/internal/config"
	"github.com/alex-ozdemir/murxla/internal/merr"
)

// opts is bound once, in init(), against rootCmd's flag set; dispatch
// resolves its theory flags and routes to the mode the parsed flags
// select.
var opts = config.Default()

var rootCmd = &cobra.Command{
	Use:   "murxla",
	Short: "murxla, a model-based API fuzzer for SMT solvers",
	Long: "murxla randomly constructs syntactically well-typed sequences of " +
		"solver API calls, executes them against one or more back-ends, and " +
		"reports crashes, assertion violations, or cross-solver disagreements.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts.IsSeeded = cmd.Flags().Changed("seed")
		return dispatch(opts)
	},
}

func init() {
	config.BindFlags(rootCmd.Flags(), &opts)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode picks the process exit status for a top-level error: a
// configuration error exits with 2, every other error (an internal
// error, an aggregated error count from continuous mode, or a
// cross-check disagreement) with 1, so that callers scripting murxla
// (e.g. a CI job) can tell a usage mistake apart from a reported run.
func exitCode(err error) int {
	switch errors.Cause(err).(type) {
	case *merr.ConfigError:
		return 2
	default:
		return 1
	}
}
