// Command ablevm drives the three execution tiers this module
// implements: the AST tree interpreter, the register VM interpreter,
// and the x86-64 JIT backend, plus scenario files that describe which
// built-in program to run on which tier(s).
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"able/vm/pkg/ast"
	"able/vm/pkg/driver"
	"able/vm/pkg/jit"
	"able/vm/pkg/vm"
)

const cliToolVersion = "ablevm 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "ast":
		return runAST(args[1:])
	case "vm":
		return runVM(args[1:])
	case "jit":
		return runJIT(args[1:])
	case "scenario":
		return runScenario(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ablevm ast [--loop-bound N]")
	fmt.Fprintln(os.Stderr, "  ablevm vm [--loop-bound N]")
	fmt.Fprintln(os.Stderr, "  ablevm jit [--loop-bound N]")
	fmt.Fprintln(os.Stderr, "  ablevm scenario run <scenario.yml> [--record DIR]")
	fmt.Fprintln(os.Stderr, "  ablevm scenario list <scenarios.yml>")
	fmt.Fprintln(os.Stderr, "  ablevm scenario history <history-dir>")
}

// parseLoopBound scans args for --loop-bound N, returning the parsed
// value or a default of 1_000_000 (matching spec S5/S6) if the flag
// is absent.
func parseLoopBound(args []string) (uint64, error) {
	for i, a := range args {
		if a != "--loop-bound" {
			continue
		}
		if i+1 >= len(args) {
			return 0, fmt.Errorf("--loop-bound requires a value")
		}
		n, err := strconv.ParseUint(args[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid --loop-bound value %q: %w", args[i+1], err)
		}
		return n, nil
	}
	return 1_000_000, nil
}

func runAST(args []string) int {
	bound, err := parseLoopBound(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fn := ast.BuildCountingLoop(bound)
	fmt.Fprintln(os.Stdout, ast.Dump(fn))

	result, env := ast.Evaluate(fn)
	fmt.Fprintf(os.Stdout, "result: %d\n", result)
	printEnvSnapshot(os.Stdout, env.Snapshot())
	return 0
}

func printEnvSnapshot(w *os.File, snapshot map[string]uint64) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s = %d\n", name, snapshot[name])
	}
}

func runVM(args []string) int {
	bound, err := parseLoopBound(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	p := vm.BuildCountingLoopProgram(bound)
	fmt.Fprintln(os.Stdout, vm.Dump(p))

	st := vm.NewState(8, 1)
	vm.Run(p, st)
	printState(os.Stdout, st)
	return 0
}

func runJIT(args []string) int {
	bound, err := parseLoopBound(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	p := vm.BuildCountingLoopProgram(bound)
	fmt.Fprintln(os.Stdout, vm.Dump(p))

	code, err := jit.Compile(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jit compile failed: %v\n", err)
		return 1
	}
	defer code.Close()

	st := vm.NewState(8, 1)
	code.Run(st)
	printState(os.Stdout, st)
	return 0
}

func printState(w *os.File, st *vm.State) {
	fmt.Fprintf(w, "locals: %v\n", st.Locals)
	fmt.Fprintf(w, "registers: %v\n", st.Registers)
}

func runScenario(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ablevm scenario requires a subcommand (run, list, history)")
		return 1
	}
	switch args[0] {
	case "run":
		return runScenarioRun(args[1:])
	case "list":
		return runScenarioList(args[1:])
	case "history":
		return runScenarioHistory(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown scenario subcommand %q\n", args[0])
		return 1
	}
}

func runScenarioRun(args []string) int {
	var recordDir string
	var path string
	for i := 0; i < len(args); i++ {
		if args[i] == "--record" {
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--record requires a directory")
				return 1
			}
			recordDir = args[i+1]
			i++
			continue
		}
		path = args[i]
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "ablevm scenario run requires a scenario file")
		return 1
	}

	scenario, err := driver.LoadScenario(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load scenario: %v\n", err)
		return 1
	}

	var history *driver.History
	if recordDir != "" {
		history, err = driver.OpenHistory(recordDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
			return 1
		}
	}

	for _, tier := range scenario.Tiers {
		dump, finalState, err := runScenarioTier(scenario, tier)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scenario %q on tier %s failed: %v\n", scenario.Name, tier, err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "--- %s (%s) ---\n%s\n%s\n", scenario.Name, tier, dump, finalState)

		if history != nil {
			hash, err := history.RecordRun(driver.RunResult{
				ScenarioName: scenario.Name,
				Tier:         tier,
				Dump:         dump,
				FinalState:   finalState,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to record run: %v\n", err)
				return 1
			}
			fmt.Fprintf(os.Stdout, "recorded as %s\n", hash)
		}
	}
	return 0
}

// runScenarioTier assembles scenario's program and runs it on tier,
// returning its textual dump and final register/locals state.
func runScenarioTier(scenario *driver.Scenario, tier driver.Tier) (dump, finalState string, err error) {
	switch tier {
	case driver.TierTree:
		fn := ast.BuildCountingLoop(scenario.LoopBound)
		_, env := ast.Evaluate(fn)
		return ast.Dump(fn), formatSnapshot(env.Snapshot()), nil
	case driver.TierVM:
		p := vm.BuildCountingLoopProgram(scenario.LoopBound)
		st := vm.NewState(scenario.NumRegisters, scenario.NumLocals)
		vm.Run(p, st)
		return vm.Dump(p), formatState(st), nil
	case driver.TierJIT:
		p := vm.BuildCountingLoopProgram(scenario.LoopBound)
		code, compileErr := jit.Compile(p)
		if compileErr != nil {
			return "", "", compileErr
		}
		defer code.Close()
		st := vm.NewState(scenario.NumRegisters, scenario.NumLocals)
		code.Run(st)
		return vm.Dump(p), formatState(st), nil
	default:
		return "", "", fmt.Errorf("unrecognized tier %q", tier)
	}
}

func formatSnapshot(snapshot map[string]uint64) string {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s = %d\n", name, snapshot[name])
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatState(st *vm.State) string {
	return fmt.Sprintf("locals: %v\nregisters: %v", st.Locals, st.Registers)
}

func runScenarioList(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ablevm scenario list requires a scenario-list file")
		return 1
	}
	list, err := driver.LoadScenarioList(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load scenario list: %v\n", err)
		return 1
	}
	for _, name := range list.Order {
		fmt.Fprintln(os.Stdout, name)
	}
	return 0
}

func runScenarioHistory(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ablevm scenario history requires a history directory")
		return 1
	}
	history, err := driver.OpenHistory(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		return 1
	}
	entries, err := history.Log()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read history: %v\n", err)
		return 1
	}
	for _, entry := range entries {
		fmt.Fprintf(os.Stdout, "%s %s %s\n", entry.Hash[:12], entry.When.Format("2006-01-02T15:04:05"), entry.Message)
	}
	return 0
}
