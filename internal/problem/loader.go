package problem

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/log-when/pono/internal/term"
	"github.com/log-when/pono/internal/tsys"
)

// LoadFile reads and builds the Property described by the YAML problem
// file at path.
func LoadFile(path string) (*tsys.Property, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads and builds the Property described by the YAML problem
// document in r.
func Load(r io.Reader) (*tsys.Property, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return Build(&spec)
}

// Build constructs a TransitionSystem and Property from an
// already-decoded Spec, exported separately from Load so callers that
// build a Spec programmatically (e.g. generated test fixtures) skip
// the YAML round-trip.
func Build(spec *Spec) (*tsys.Property, error) {
	ctx := term.NewContext()
	ts := tsys.New(ctx, spec.Functional)
	sorts := make(map[string]term.Sort, len(spec.Vars)+len(spec.Inputs))

	for _, v := range spec.Vars {
		s, err := parseSort(v.Sort)
		if err != nil {
			return nil, fmt.Errorf("%w: var %q: %v", ErrParse, v.Name, err)
		}
		if _, _, err := ts.AddStateVar(v.Name, s); err != nil {
			return nil, fmt.Errorf("%w: var %q: %v", ErrParse, v.Name, err)
		}
		sorts[v.Name] = s
	}
	for _, v := range spec.Inputs {
		s, err := parseSort(v.Sort)
		if err != nil {
			return nil, fmt.Errorf("%w: input %q: %v", ErrParse, v.Name, err)
		}
		if _, err := ts.AddInputVar(v.Name, s); err != nil {
			return nil, fmt.Errorf("%w: input %q: %v", ErrParse, v.Name, err)
		}
		sorts[v.Name] = s
	}

	p := newParser(ctx, sorts)

	if spec.Init == "" {
		return nil, fmt.Errorf("%w: missing init", ErrParse)
	}
	init, err := p.parse(spec.Init)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := ts.SetInit(init); err != nil {
		return nil, fmt.Errorf("%w: init: %v", ErrParse, err)
	}

	if spec.Functional {
		if len(spec.Next) == 0 {
			return nil, fmt.Errorf("%w: functional problem has no next entries", ErrParse)
		}
		for _, v := range spec.Vars {
			expr, ok := spec.Next[v.Name]
			if !ok {
				continue // unconstrained state variable
			}
			next, err := p.parse(expr)
			if err != nil {
				return nil, fmt.Errorf("next(%s): %w", v.Name, err)
			}
			if err := ts.SetNext(v.Name, next); err != nil {
				return nil, fmt.Errorf("%w: next(%s): %v", ErrParse, v.Name, err)
			}
		}
	} else {
		if spec.Trans == "" {
			return nil, fmt.Errorf("%w: relational problem has no trans", ErrParse)
		}
		trans, err := p.parse(spec.Trans)
		if err != nil {
			return nil, fmt.Errorf("trans: %w", err)
		}
		if err := ts.SetTransRelational(trans); err != nil {
			return nil, fmt.Errorf("%w: trans: %v", ErrParse, err)
		}
	}

	if spec.Prop == "" {
		return nil, fmt.Errorf("%w: missing prop", ErrParse)
	}
	propTerm, err := p.parse(spec.Prop)
	if err != nil {
		return nil, fmt.Errorf("prop: %w", err)
	}

	prop, err := tsys.NewProperty(ts, propTerm)
	if err != nil {
		return nil, fmt.Errorf("%w: prop: %v", ErrParse, err)
	}

	return prop, nil
}

// parseSort turns a YAML sort string ("bool", "int", "bv<width>")
// into a term.Sort.
func parseSort(s string) (term.Sort, error) {
	switch {
	case s == "bool":
		return term.BoolSort, nil
	case s == "int":
		return term.IntSort, nil
	case strings.HasPrefix(s, "bv"):
		width, err := strconv.ParseUint(s[2:], 10, 32)
		if err != nil {
			return term.Sort{}, fmt.Errorf("%w: %q: %v", ErrUnknownSort, s, err)
		}
		return term.BVSort(uint32(width)), nil
	default:
		return term.Sort{}, fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}
