package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"able/vm/pkg/driver"
)

func writeScenarioFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadScenarioDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "s1.yml", `
name: counting_loop_small
program: counting_loop
`)

	s, err := driver.LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.Name != "counting_loop_small" {
		t.Fatalf("Name = %q", s.Name)
	}
	if s.Program != driver.ProgramCountingLoop {
		t.Fatalf("Program = %q", s.Program)
	}
	if s.LoopBound != 1000 {
		t.Fatalf("LoopBound default = %d, want 1000", s.LoopBound)
	}
	if len(s.Tiers) != 3 {
		t.Fatalf("Tiers default = %v, want all three tiers", s.Tiers)
	}
}

func TestLoadScenarioExplicitFields(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "s2.yml", `
name: counting_loop_big
program: counting_loop
loop_bound: 1000000
num_registers: 8
num_locals: 1
tiers: [vm, jit]
`)

	s, err := driver.LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if s.LoopBound != 1000000 {
		t.Fatalf("LoopBound = %d", s.LoopBound)
	}
	if len(s.Tiers) != 2 || s.Tiers[0] != driver.TierVM || s.Tiers[1] != driver.TierJIT {
		t.Fatalf("Tiers = %v", s.Tiers)
	}
}

func TestLoadScenarioSingleTierScalar(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "s3.yml", `
name: tree_only
program: counting_loop
tiers: tree
`)

	s, err := driver.LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(s.Tiers) != 1 || s.Tiers[0] != driver.TierTree {
		t.Fatalf("Tiers = %v, want [tree]", s.Tiers)
	}
}

func TestLoadScenarioRejectsUnknownProgram(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "bad.yml", `
name: bogus
program: does_not_exist
`)

	if _, err := driver.LoadScenario(path); err == nil {
		t.Fatalf("expected validation error for unknown program")
	}
}

func TestLoadScenarioRejectsUnknownTier(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "bad2.yml", `
name: bogus
program: counting_loop
tiers: [vm, quantum]
`)

	if _, err := driver.LoadScenario(path); err == nil {
		t.Fatalf("expected validation error for unknown tier")
	}
}

func TestLoadScenarioRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "noname.yml", `
program: counting_loop
`)

	if _, err := driver.LoadScenario(path); err == nil {
		t.Fatalf("expected validation error for missing name")
	}
}

func TestLoadScenarioRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeScenarioFile(t, dir, "typo.yml", `
name: x
program: counting_loop
loop_boundd: 5
`)

	if _, err := driver.LoadScenario(path); err == nil {
		t.Fatalf("expected decode error for unknown field")
	}
}

func TestScenarioListResolve(t *testing.T) {
	dir := t.TempDir()
	writeScenarioFile(t, dir, "small.yml", "name: small\nprogram: counting_loop\n")
	listPath := writeScenarioFile(t, dir, "scenarios.yml", `
scenarios:
  small: small.yml
`)

	list, err := driver.LoadScenarioList(listPath)
	if err != nil {
		t.Fatalf("LoadScenarioList: %v", err)
	}
	resolved, err := list.Resolve("small")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(resolved) != "small.yml" {
		t.Fatalf("Resolve = %q", resolved)
	}

	if _, err := list.Resolve("missing"); err == nil {
		t.Fatalf("expected error resolving unknown scenario name")
	}
}
