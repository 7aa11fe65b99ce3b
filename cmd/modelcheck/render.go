package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/log-when/pono/internal/prover"
)

// witnessStep is the JSON-friendly rendering of one prover.StateAssignment:
// smt.Value has no json.Marshaler of its own (its BV/Int fields are
// *big.Int and its Sort is a nested struct), so each value is rendered
// through its String() form instead of being marshaled structurally.
type witnessStep map[string]string

func renderWitness(w prover.Witness) []witnessStep {
	steps := make([]witnessStep, len(w))
	for i, assign := range w {
		step := make(witnessStep, len(assign))
		for name, v := range assign {
			step[name] = v.String()
		}
		steps[i] = step
	}
	return steps
}

// writeWitnessFile persists w as indented JSON to path for a later
// `modelcheck witness` call to re-print.
func writeWitnessFile(path string, w prover.Witness) error {
	data, err := json.MarshalIndent(renderWitness(w), "", "  ")
	if err != nil {
		return fmt.Errorf("modelcheck: encode witness: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// readWitnessFile reads back a witness file written by writeWitnessFile.
func readWitnessFile(path string) ([]witnessStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelcheck: read witness file %q: %w", path, err)
	}
	var steps []witnessStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("modelcheck: decode witness file %q: %w", path, err)
	}
	return steps, nil
}
