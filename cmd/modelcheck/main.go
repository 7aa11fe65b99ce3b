// Command modelcheck is a CLI driver over the internal verification
// engines: it loads a problem file, runs the selected engine, and
// prints the verdict and — on UNSAFE — the counterexample witness.
//
// The core checker defines no wire or file format of its own; this
// command exists so the engines have a runnable entry point instead
// of only being reachable from Go test code, the same role the
// teacher's examples/ directory plays for its graph algorithms.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
