package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// verbosity is shared across subcommands via a persistent flag on the
// root command and sets logger's level; check also hands it to the
// engine as prover.Options.Verbosity, which the engines do not read.
var verbosity int

// logger is configured once in the root command's PersistentPreRunE
// and used by every subcommand for leveled, colorized diagnostics.
var logger *log.Logger

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "modelcheck",
		Short: "Run k-induction, IC3/PDR, or CEGAR over a transition-system problem file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: false,
				Level:           verbosityToLevel(verbosity),
			})
			// Every invocation gets its own id so log lines from
			// concurrent `modelcheck` runs sharing a log stream (e.g.
			// a CI job fanning out checks across problem files) can be
			// told apart.
			logger = logger.With("run", uuid.NewString())
			return nil
		},
	}

	root.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "log verbosity: 0 (warn) .. 3 (debug)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newWitnessCmd())
	root.AddCommand(newEnginesCmd())

	return root
}

// verbosityToLevel maps the 0..3 scale shared with
// prover.Options.Verbosity onto charmbracelet/log's levels.
func verbosityToLevel(v int) log.Level {
	switch {
	case v <= 0:
		return log.WarnLevel
	case v == 1:
		return log.InfoLevel
	case v == 2:
		return log.DebugLevel
	default:
		return log.DebugLevel
	}
}
