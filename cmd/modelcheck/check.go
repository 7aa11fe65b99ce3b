package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/log-when/pono/internal/problem"
	"github.com/log-when/pono/internal/prover"
)

func newCheckCmd() *cobra.Command {
	var (
		engineName string
		bound      int
		witnessOut string
	)

	cmd := &cobra.Command{
		Use:   "check <problem.yaml>",
		Short: "Check a problem file's property up to --bound steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build, err := lookupEngine(engineName)
			if err != nil {
				return err
			}

			prop, err := problem.LoadFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("loaded problem", "file", args[0], "state_vars", len(prop.TS.StateVars()))

			engine, err := build(prop, prover.WithBound(bound), prover.WithVerbosity(verbosity))
			if err != nil {
				return fmt.Errorf("modelcheck: construct engine %q: %w", engineName, err)
			}
			if err := engine.Initialize(); err != nil {
				return fmt.Errorf("modelcheck: initialize engine %q: %w", engineName, err)
			}

			logger.Info("checking", "engine", engineName, "bound", bound)
			verdict, err := engine.CheckUntil(cmd.Context(), bound)
			if err != nil {
				return fmt.Errorf("modelcheck: %q: %w", engineName, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), verdict)

			if verdict != prover.Unsafe {
				return nil
			}

			w, ok := engine.Witness()
			if !ok {
				return fmt.Errorf("modelcheck: %w: UNSAFE verdict with no witness", prover.ErrInternal)
			}
			if err := writeWitnessFile(witnessOut, w); err != nil {
				return err
			}
			logger.Info("witness written", "path", witnessOut, "steps", len(w))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(renderWitness(w))
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", "k-induction", "verification engine (see `modelcheck engines`)")
	cmd.Flags().IntVar(&bound, "bound", 10, "maximum number of steps to unroll")
	cmd.Flags().StringVar(&witnessOut, "witness-out", "witness.json", "file to persist the counterexample witness to")

	return cmd
}
