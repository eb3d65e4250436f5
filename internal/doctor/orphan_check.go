package doctor

import "github.com/kildhq/kild/internal/kildlife"

// orphanBranchCheck reports local kild/ branches with no worktree pointing
// at them.
type orphanBranchCheck struct{}

func (orphanBranchCheck) Name() string { return "orphan-branches" }
func (orphanBranchCheck) CanFix() bool { return true }

func (orphanBranchCheck) Run(store *kildlife.Store) Result {
	result, err := store.Cleanup(kildlife.CleanupStrategy{DryRun: true})
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return countResult("orphan branch(es)", result.Branches)
}

// orphanWorktreeCheck reports worktree entries with a missing or invalid
// HEAD, plus worktree directories no session references.
type orphanWorktreeCheck struct{}

func (orphanWorktreeCheck) Name() string { return "orphan-worktrees" }
func (orphanWorktreeCheck) CanFix() bool { return true }

func (orphanWorktreeCheck) Run(store *kildlife.Store) Result {
	result, err := store.Cleanup(kildlife.CleanupStrategy{DryRun: true, Orphans: true})
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	if len(result.SkippedWorktrees) > 0 {
		return Result{
			Status:  StatusWarning,
			Message: "some orphan worktrees were skipped (uncommitted changes or live processes); rerun cleanup with --force to remove them",
		}
	}
	return countResult("orphan worktree(s)", result.Worktrees)
}

// staleSessionCheck reports sessions whose worktree is gone, whose record
// is unreadable, or that are Stopped (of any age).
type staleSessionCheck struct{}

func (staleSessionCheck) Name() string { return "stale-sessions" }
func (staleSessionCheck) CanFix() bool { return true }

func (staleSessionCheck) Run(store *kildlife.Store) Result {
	result, err := store.Cleanup(kildlife.CleanupStrategy{DryRun: true, StoppedAll: true})
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	return countResult("stale session(s)", result.Sessions)
}
