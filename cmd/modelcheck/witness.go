package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newWitnessCmd() *cobra.Command {
	var witnessFile string

	cmd := &cobra.Command{
		Use:   "witness",
		Short: "Re-print the last counterexample witness written by `modelcheck check`",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := readWitnessFile(witnessFile)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for i, step := range steps {
				fmt.Fprintf(cmd.OutOrStdout(), "step %d:\n", i)
				if err := enc.Encode(step); err != nil {
					return fmt.Errorf("modelcheck: encode step %d: %w", i, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&witnessFile, "witness-file", "witness.json", "witness file to read")

	return cmd
}
