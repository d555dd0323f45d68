package driver_test

import (
	"strings"
	"testing"

	"able/vm/pkg/driver"
)

func TestHistoryRecordRunAndLog(t *testing.T) {
	dir := t.TempDir()
	h, err := driver.OpenHistory(dir)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}

	hash1, err := h.RecordRun(driver.RunResult{
		ScenarioName: "counting_loop",
		Tier:         driver.TierVM,
		Dump:         "b0:\n  ...\n",
		FinalState:   "locals=[1000]",
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if hash1 == "" {
		t.Fatalf("expected non-empty commit hash")
	}

	hash2, err := h.RecordRun(driver.RunResult{
		ScenarioName: "counting_loop",
		Tier:         driver.TierJIT,
		Dump:         "b0:\n  ...\n",
		FinalState:   "locals=[1000]",
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if hash2 == hash1 {
		t.Fatalf("expected distinct commit hashes for distinct runs")
	}

	entries, err := h.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Log returned %d entries, want 2", len(entries))
	}
	if entries[0].Hash != hash2 {
		t.Fatalf("Log[0] = %s, want most recent commit %s", entries[0].Hash, hash2)
	}
	if !strings.Contains(entries[0].Message, "jit") {
		t.Fatalf("Log[0].Message = %q, expected it to name the jit tier", entries[0].Message)
	}
}

func TestOpenHistoryReopensExistingRepo(t *testing.T) {
	dir := t.TempDir()
	h1, err := driver.OpenHistory(dir)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	if _, err := h1.RecordRun(driver.RunResult{ScenarioName: "s", Tier: driver.TierTree}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	h2, err := driver.OpenHistory(dir)
	if err != nil {
		t.Fatalf("OpenHistory (reopen): %v", err)
	}
	entries, err := h2.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Log returned %d entries, want 1", len(entries))
	}
}
