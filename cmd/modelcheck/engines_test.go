package main

import (
	"strings"
	"testing"
)

func TestEngineRegistryNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(engineRegistry))
	for _, e := range engineRegistry {
		if seen[e.name] {
			t.Errorf("duplicate engine name %q", e.name)
		}
		seen[e.name] = true
	}
}

func TestLookupEngineRejectsUnknownName(t *testing.T) {
	if _, err := lookupEngine("does-not-exist"); err == nil {
		t.Fatalf("expected error for unknown engine name")
	}
}

func TestEnginesCommandListsRegistry(t *testing.T) {
	out, err := runCLI(t, "engines")
	if err != nil {
		t.Fatalf("engines: %v", err)
	}
	for _, e := range engineRegistry {
		if !strings.Contains(out, e.name) {
			t.Errorf("engines output missing %q:\n%s", e.name, out)
		}
	}
}
