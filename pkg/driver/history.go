package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RunResult is what a scenario run records: enough to reconstruct
// what happened without re-running the scenario.
type RunResult struct {
	ScenarioName string
	Tier         Tier
	Dump         string
	FinalState   string
}

// History is a scratch git repository a scenario's results are
// committed into, one commit per run. It exists purely as optional
// CLI instrumentation (`ablevm scenario run --record`); nothing on
// the tree/VM/JIT hot path depends on it.
type History struct {
	dir  string
	repo *git.Repository
}

// OpenHistory opens the history repository at dir, initializing it
// (via git.PlainInit) if it doesn't already exist.
func OpenHistory(dir string) (*History, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		repo, err = git.PlainInit(dir, false)
		if err != nil {
			return nil, fmt.Errorf("history: init %s: %w", dir, err)
		}
	}
	return &History{dir: dir, repo: repo}, nil
}

// RecordRun writes result's dump and final state to a file named
// after the scenario and tier, stages it, and commits it, returning
// the new commit hash as a string. Each call produces exactly one
// commit, so `scenario history` can walk the log one run at a time.
func (h *History) RecordRun(result RunResult) (string, error) {
	worktree, err := h.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("history: worktree: %w", err)
	}

	fileName := fmt.Sprintf("%s.%s.txt", result.ScenarioName, result.Tier)
	contents := fmt.Sprintf("scenario: %s\ntier: %s\n\n%s\n\nfinal state:\n%s\n",
		result.ScenarioName, result.Tier, result.Dump, result.FinalState)
	if err := os.WriteFile(filepath.Join(h.dir, fileName), []byte(contents), 0o644); err != nil {
		return "", fmt.Errorf("history: write %s: %w", fileName, err)
	}

	if _, err := worktree.Add(fileName); err != nil {
		return "", fmt.Errorf("history: stage %s: %w", fileName, err)
	}

	message := fmt.Sprintf("record %s run of scenario %q", result.Tier, result.ScenarioName)
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "ablevm",
			Email: "ablevm@example.com",
			When:  recordTime(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("history: commit: %w", err)
	}
	return hash.String(), nil
}

// recordTime is the single call site for the wall-clock timestamp a
// commit carries, isolated so tests can't be flaky on commit time.
var recordTime = time.Now

// LogEntry is one commit in a history repository's log.
type LogEntry struct {
	Hash    string
	Message string
	When    time.Time
}

// Log walks the history repository's commit log, most recent first.
func (h *History) Log() ([]LogEntry, error) {
	head, err := h.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("history: head: %w", err)
	}
	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("history: log: %w", err)
	}
	defer iter.Close()

	var entries []LogEntry
	err = iter.ForEach(func(c *object.Commit) error {
		entries = append(entries, LogEntry{
			Hash:    c.Hash.String(),
			Message: c.Message,
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history: walk log: %w", err)
	}
	return entries, nil
}
