// Package driver provides the ambient tooling around the core
// tree/VM/JIT tiers: YAML scenario files naming which example program
// to assemble and run, and optional git-backed recording of a
// scenario's result (see history.go).
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tier names a single execution tier a scenario may be run on.
type Tier string

const (
	TierTree Tier = "tree"
	TierVM   Tier = "vm"
	TierJIT  Tier = "jit"
)

// IsValid reports whether t names a recognized tier.
func (t Tier) IsValid() bool {
	switch t {
	case TierTree, TierVM, TierJIT:
		return true
	default:
		return false
	}
}

// Program names which built-in example program a scenario assembles.
type Program string

const (
	ProgramCountingLoop Program = "counting_loop"
)

// IsValid reports whether p names a recognized program.
func (p Program) IsValid() bool {
	return p == ProgramCountingLoop
}

// Scenario is the parsed contents of a scenario YAML file: which
// program to build, the constants to feed its builder, and which
// tiers to run it on. This is the generalization of the teacher's
// Manifest: a manifest names build targets and dependencies, a
// scenario names a runtime example and the tiers that execute it.
type Scenario struct {
	Path        string
	Name        string
	Program     Program
	LoopBound   uint64
	NumRegisters int
	NumLocals    int
	Tiers        []Tier
}

// ValidationError aggregates scenario validation failures, mirroring
// the teacher's manifest ValidationError shape.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "scenario: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("scenario validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type scenarioFile struct {
	Name         string     `yaml:"name"`
	Program      string     `yaml:"program"`
	LoopBound    *uint64    `yaml:"loop_bound"`
	NumRegisters *int       `yaml:"num_registers"`
	NumLocals    *int       `yaml:"num_locals"`
	Tiers        tierList   `yaml:"tiers"`
}

// tierList accepts either a single scalar tier or a YAML sequence of
// tiers, the same scalar-or-sequence tolerance the teacher's
// stringList gives manifest authors (manifest.go).
type tierList []Tier

func (tl *tierList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if s == "" {
			*tl = nil
			return nil
		}
		*tl = tierList{Tier(s)}
		return nil
	case yaml.SequenceNode:
		items := make([]Tier, 0, len(value.Content))
		for _, node := range value.Content {
			var s string
			if err := node.Decode(&s); err != nil {
				return err
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			items = append(items, Tier(s))
		}
		*tl = items
		return nil
	case 0:
		*tl = nil
		return nil
	default:
		return fmt.Errorf("scenario: expected string or sequence for tiers but found %s", value.ShortTag())
	}
}

// LoadScenario parses a scenario YAML file from disk and returns a
// validated Scenario.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return nil, fmt.Errorf("scenario: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("scenario: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw scenarioFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scenario: %s is empty", absPath)
		}
		return nil, fmt.Errorf("scenario: parse %s: %w", absPath, err)
	}

	s := raw.toScenario(absPath)
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (sf scenarioFile) toScenario(path string) *Scenario {
	s := &Scenario{
		Path:         path,
		Name:         strings.TrimSpace(sf.Name),
		Program:      Program(strings.TrimSpace(sf.Program)),
		LoopBound:    1000,
		NumRegisters: 8,
		NumLocals:    1,
		Tiers:        []Tier{TierTree, TierVM, TierJIT},
	}
	if sf.LoopBound != nil {
		s.LoopBound = *sf.LoopBound
	}
	if sf.NumRegisters != nil {
		s.NumRegisters = *sf.NumRegisters
	}
	if sf.NumLocals != nil {
		s.NumLocals = *sf.NumLocals
	}
	if len(sf.Tiers) > 0 {
		s.Tiers = []Tier(sf.Tiers)
	}
	return s
}

func (s *Scenario) validate() error {
	var errs ValidationError
	if s.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if !s.Program.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("program %q is not a recognized program", s.Program))
	}
	if s.NumRegisters <= 0 {
		errs.Issues = append(errs.Issues, "num_registers must be positive")
	}
	if s.NumLocals <= 0 {
		errs.Issues = append(errs.Issues, "num_locals must be positive")
	}
	if len(s.Tiers) == 0 {
		errs.Issues = append(errs.Issues, "tiers must name at least one tier")
	}
	for _, t := range s.Tiers {
		if !t.IsValid() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("tier %q is not one of tree, vm, jit", t))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ScenarioList is a lockfile-like manifest naming a set of scenario
// files by name, generalizing the teacher's Lockfile (which pinned a
// resolved dependency graph rather than a set of runnable examples).
type ScenarioList struct {
	Path      string
	Scenarios map[string]string // name -> scenario file path, relative to Path's directory
	Order     []string
}

type scenarioListFile struct {
	Scenarios map[string]string `yaml:"scenarios"`
}

// LoadScenarioList parses a scenario-list YAML file naming a set of
// scenario files by name.
func LoadScenarioList(path string) (*ScenarioList, error) {
	if path == "" {
		return nil, fmt.Errorf("scenario list: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("scenario list: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("scenario list: open %s: %w", absPath, err)
	}

	var raw scenarioListFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scenario list: parse %s: %w", absPath, err)
	}
	if len(raw.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario list: %s names no scenarios", absPath)
	}

	order := make([]string, 0, len(raw.Scenarios))
	for name := range raw.Scenarios {
		order = append(order, name)
	}
	sort.Strings(order)

	return &ScenarioList{
		Path:      absPath,
		Scenarios: raw.Scenarios,
		Order:     order,
	}, nil
}

// Resolve returns the absolute path to the scenario file registered
// under name, resolved relative to the scenario list's own directory.
func (sl *ScenarioList) Resolve(name string) (string, error) {
	rel, ok := sl.Scenarios[name]
	if !ok {
		return "", fmt.Errorf("scenario list: no scenario named %q", name)
	}
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	return filepath.Join(filepath.Dir(sl.Path), rel), nil
}
