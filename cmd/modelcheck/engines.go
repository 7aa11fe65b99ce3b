package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/log-when/pono/internal/cegar"
	"github.com/log-when/pono/internal/ic3"
	"github.com/log-when/pono/internal/kind"
	"github.com/log-when/pono/internal/prover"
	"github.com/log-when/pono/internal/tsys"
)

// engineFactory builds a ready-to-run Prover for prop.
type engineFactory func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error)

// engineSpec names one selectable engine for the check/engines
// subcommands: a factory and a one-line description.
type engineSpec struct {
	name        string
	description string
	build       engineFactory
}

// engineRegistry lists every engine --engine can select, in the order
// `modelcheck engines` prints them.
var engineRegistry = []engineSpec{
	{
		name:        "k-induction",
		description: "base/inductive k-induction (internal/kind)",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return kind.New(prop, opts...)
		},
	},
	{
		name:        "ic3-bit",
		description: "IC3/PDR with the bit-level unit handler",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return ic3.New(prop, ic3.BitLevelHandler{}, opts...)
		},
	},
	{
		name:        "ic3-predicate",
		description: "IC3/PDR with the fixed-predicate-set unit handler",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return ic3.New(prop, ic3.PredicateHandler{}, opts...)
		},
	},
	{
		name:        "ic3-syntax",
		description: "IC3/PDR with the syntax-guided (IC3SA) unit handler",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return ic3.New(prop, ic3.SyntaxGuidedHandler{TS: prop.TS}, opts...)
		},
	},
	{
		name:        "cegar-kind",
		description: "CEGAR value abstraction driving k-induction each round",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return cegar.New(prop, func(roundProp *tsys.Property) (prover.Prover, error) {
				return kind.New(roundProp, opts...)
			})
		},
	},
	{
		name:        "cegar-ic3-bit",
		description: "CEGAR value abstraction driving bit-level IC3/PDR each round",
		build: func(prop *tsys.Property, opts ...prover.Option) (prover.Prover, error) {
			return cegar.New(prop, func(roundProp *tsys.Property) (prover.Prover, error) {
				return ic3.New(roundProp, ic3.BitLevelHandler{}, opts...)
			})
		},
	},
}

// lookupEngine returns the named engineSpec's factory.
func lookupEngine(name string) (engineFactory, error) {
	for _, e := range engineRegistry {
		if e.name == name {
			return e.build, nil
		}
	}
	return nil, fmt.Errorf("modelcheck: unknown engine %q (see `modelcheck engines`)", name)
}

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the available --engine values",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range engineRegistry {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", e.name, e.description)
			}
			return nil
		},
	}
}
