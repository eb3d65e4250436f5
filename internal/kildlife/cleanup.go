package kildlife

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kildhq/kild/internal/gitops"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
	"github.com/kildhq/kild/internal/proctrack"
)

// CleanupStrategy selects which orphan category Cleanup targets.
type CleanupStrategy struct {
	// OlderThanDays, when non-zero, additionally removes Stopped sessions
	// whose last activity predates now by this many days.
	OlderThanDays int
	// Orphans, when true, additionally removes untracked worktree
	// directories not referenced by any session.
	Orphans bool
	// StoppedAll, when true, removes every Stopped session regardless of
	// age (the CLI's "stopped" strategy), as a zero-day age cutoff. It is
	// ignored when OlderThanDays is non-zero; OlderThanDays=0 on its own
	// removes nothing by age.
	StoppedAll bool
	// Force bypasses the uncommitted-changes/live-process skip gates.
	Force bool
	// DryRun reports what Cleanup would remove without removing it, for
	// doctor's read-only consistency checks.
	DryRun bool
}

// SkippedEntry is one orphan Cleanup declined to remove, with a
// human-readable reason.
type SkippedEntry struct {
	Path   string
	Reason string
}

// CleanupResult summarizes what Cleanup removed and skipped.
type CleanupResult struct {
	Branches        int
	Worktrees       int
	Sessions        int
	SkippedWorktrees []SkippedEntry
	TotalCleaned    int
}

// minimalSessionExtract is the tolerant subset of a session file Cleanup's
// stale-session pass reads: fields that may be present even when the rest
// of the document is malformed.
type minimalSessionExtract struct {
	Branch          string `json:"branch"`
	WorktreePath    string `json:"worktree_path"`
	UseMainWorktree bool   `json:"use_main_worktree"`
}

// Cleanup scans for orphaned branches, orphaned and untracked worktrees,
// and stale/old sessions, removing only what the strategy selects.
func (s *Store) Cleanup(strategy CleanupStrategy) (CleanupResult, error) {
	var result CleanupResult

	result.Branches = s.cleanOrphanBranches(strategy)
	result.Worktrees = s.cleanOrphanWorktrees(strategy, &result.SkippedWorktrees)

	if strategy.Orphans {
		result.Worktrees += s.cleanUntrackedWorktrees(strategy, &result.SkippedWorktrees)
	}

	result.Sessions = s.cleanStaleSessions(strategy)
	if strategy.OlderThanDays > 0 {
		result.Sessions += s.cleanOldSessions(strategy.OlderThanDays, strategy.DryRun)
	} else if strategy.StoppedAll {
		result.Sessions += s.cleanOldSessions(0, strategy.DryRun)
	}

	result.TotalCleaned = result.Branches + result.Worktrees + result.Sessions
	return result, nil
}

// cleanOrphanBranches removes local kild/ and legacy kild_ branches that
// are not the HEAD of any worktree.
func (s *Store) cleanOrphanBranches(strategy CleanupStrategy) int {
	names, err := gitops.ListLocalBranchNames(s.RepoRoot)
	if err != nil {
		return 0
	}
	active, err := gitops.WorktreeActiveBranches(s.RepoRoot)
	if err != nil {
		return 0
	}

	removed := 0
	for _, name := range names {
		if !pathid.IsKildBranch(name) {
			continue
		}
		if active[name] {
			continue
		}
		if strategy.DryRun {
			removed++
			continue
		}
		if ok, err := gitops.DeleteLocalBranch(s.RepoRoot, name); err == nil && ok {
			removed++
		}
	}
	return removed
}

// cleanOrphanWorktrees removes worktree entries whose path is missing or
// whose HEAD is invalid.
func (s *Store) cleanOrphanWorktrees(strategy CleanupStrategy, skipped *[]SkippedEntry) int {
	entries, err := gitops.ListWorktreeEntries(s.RepoRoot)
	if err != nil {
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsValid {
			continue
		}
		if reason, skip := s.shouldSkipWorktreeRemoval(e.Path, strategy); skip {
			*skipped = append(*skipped, SkippedEntry{Path: e.Path, Reason: reason})
			continue
		}
		if !strategy.DryRun {
			if _, err := os.Stat(e.Path); err == nil {
				if strategy.Force {
					_ = gitops.RemoveWorktreeForce(s.RepoRoot, e.Path)
				} else {
					_ = gitops.RemoveWorktreeByPath(s.RepoRoot, e.Path)
				}
			}
		}
		removed++
	}
	return removed
}

// cleanUntrackedWorktrees removes worktree directories under
// <base>/worktrees/<project>/ that no session references, per the
// `Orphans` strategy.
func (s *Store) cleanUntrackedWorktrees(strategy CleanupStrategy, skipped *[]SkippedEntry) int {
	root := s.Paths.ProjectWorktreesDir(s.ProjectName)
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0
	}

	referenced := make(map[string]bool)
	sessions, _, _ := kildstore.LoadSessions(s.Paths.SessionsDir())
	for _, sess := range sessions {
		if canon, err := filepath.EvalSymlinks(sess.WorktreePath); err == nil {
			referenced[canon] = true
		} else {
			referenced[filepath.Clean(sess.WorktreePath)] = true
		}
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(root, e.Name())
		canon, err := filepath.EvalSymlinks(path)
		if err != nil {
			canon = filepath.Clean(path)
		}
		if referenced[canon] {
			continue
		}
		if reason, skip := s.shouldSkipWorktreeRemoval(path, strategy); skip {
			*skipped = append(*skipped, SkippedEntry{Path: path, Reason: reason})
			continue
		}
		if !strategy.DryRun {
			if strategy.Force {
				_ = os.RemoveAll(path)
			} else {
				_ = gitops.RemoveWorktreeByPath(s.RepoRoot, path)
			}
		}
		removed++
	}
	return removed
}

// shouldSkipWorktreeRemoval applies §4.6.9's three skip gates when the
// worktree directory still exists: uncommitted changes, a failed status
// check, or live inhabiting processes — all bypassed by Force.
func (s *Store) shouldSkipWorktreeRemoval(path string, strategy CleanupStrategy) (reason string, skip bool) {
	if strategy.Force {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	status := gitops.GetWorktreeStatus(path)
	if status.StatusCheckFailed {
		return "could not determine working tree status", true
	}
	if status.HasUncommittedChanges {
		return "has uncommitted changes", true
	}
	if pids, err := proctrack.FindProcessesInDirectory(path); err == nil && len(pids) > 0 {
		return "has live processes running inside it", true
	}
	return "", false
}

// cleanStaleSessions removes session files whose worktree_path is missing,
// or whose JSON cannot be parsed at all.
func (s *Store) cleanStaleSessions(strategy CleanupStrategy) int {
	dir := s.Paths.SessionsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		safeID := e.Name()
		path := filepath.Join(dir, safeID, "kild.json")
		extract, readErr := readMinimalSession(path)

		stale := readErr != nil
		if readErr == nil && !extract.UseMainWorktree {
			if _, statErr := os.Stat(extract.WorktreePath); statErr != nil {
				stale = true
			}
		}
		if !stale {
			continue
		}

		if readErr == nil && !extract.UseMainWorktree && extract.WorktreePath != "" {
			if _, skip := s.shouldSkipWorktreeRemoval(extract.WorktreePath, strategy); skip {
				continue
			}
		}

		if !strategy.DryRun {
			if readErr == nil && extract.Branch != "" {
				_ = gitops.DeleteBranchIfExists(s.RepoRoot, extract.Branch)
			}
			_ = os.RemoveAll(filepath.Join(dir, safeID))
		}
		removed++
	}
	return removed
}

// cleanOldSessions removes Stopped sessions whose last activity (or
// creation time, if never active) predates now by olderThanDays.
func (s *Store) cleanOldSessions(olderThanDays int, dryRun bool) int {
	sessions, _, err := kildstore.LoadSessions(s.Paths.SessionsDir())
	if err != nil {
		return 0
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	removed := 0
	for _, sess := range sessions {
		if sess.Status != kildstore.StatusStopped {
			continue
		}
		last := sess.LastActivity
		if last.IsZero() {
			last = sess.CreatedAt
		}
		if last.After(cutoff) {
			continue
		}
		if !dryRun {
			_ = gitops.DeleteBranchIfExists(s.RepoRoot, sess.Branch)
			safeID := strings.ReplaceAll(sess.ID, "/", "_")
			_ = os.RemoveAll(filepath.Join(s.Paths.SessionsDir(), safeID))
		}
		removed++
	}
	return removed
}

func readMinimalSession(path string) (minimalSessionExtract, error) {
	var extract minimalSessionExtract
	data, err := os.ReadFile(path)
	if err != nil {
		return extract, err
	}
	if err := json.Unmarshal(data, &extract); err != nil {
		return extract, err
	}
	return extract, nil
}
