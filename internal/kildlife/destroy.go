package kildlife

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kildhq/kild/internal/gitops"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
	"github.com/kildhq/kild/internal/shim"
)

// destroy tears down a session's agent processes, worktree, and branch,
// gated by DestroySafety unless the caller forces it.
func (s *Store) destroy(cmd Command) (Event, error) {
	branch, err := pathid.ValidateBranchName(cmd.Branch)
	if err != nil {
		return Event{}, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}

	session, err := s.findSession(branch)
	if err != nil {
		return Event{}, err
	}

	if killErrs := s.stopAgents(session, cmd.Force); len(killErrs) > 0 {
		return Event{}, killErrs[0]
	}

	s.sweepOrphanUIShells(session.ID)
	s.sweepShimChildren(session.ID)
	s.cleanClaudeTaskList(session.TaskListID)

	mainRoot, findErr := gitops.FindMainRepoRoot(session.WorktreePath)
	if findErr != nil {
		mainRoot = s.RepoRoot
	}

	if !session.UseMainWorktree {
		safety := s.getDestroySafety(session.WorktreePath, branch)
		if safety.ShouldBlock() && !cmd.Force {
			return Event{}, &Error{Kind: ErrUncommittedChanges, Branch: branch}
		}
		if cmd.Force {
			_ = gitops.RemoveWorktreeForce(mainRoot, session.WorktreePath)
		} else if err := gitops.RemoveWorktreeByPath(mainRoot, session.WorktreePath); err != nil {
			return Event{}, wrapErr(ErrGit, err)
		}
	}

	_ = gitops.DeleteBranchIfExists(mainRoot, session.Branch)

	for _, a := range session.Agents {
		_ = os.Remove(filepath.Join(s.Paths.PidsDir(), strings.ReplaceAll(a.SpawnID, "/", "_")))
	}
	kildstore.RemoveAllSidecars(s.Paths.SessionsDir(), session.ID)

	if err := kildstore.RemoveSession(s.Paths.SessionsDir(), session.ID, session.Branch); err != nil {
		return Event{}, wrapErr(ErrIO, err)
	}

	return Event{Kind: EventKildDestroyed, Branch: branch, SessionID: session.ID}, nil
}

// sweepOrphanUIShells destroys every daemon session whose id is namespaced
// under sessionID's "_ui_shell_" convention, per §4.6.6 step 3.
func (s *Store) sweepOrphanUIShells(sessionID string) {
	sessions, err := s.Daemon.List()
	if err != nil {
		return
	}
	prefix := sessionID + "_ui_shell_"
	for _, si := range sessions {
		if strings.HasPrefix(si.DaemonSessionID, prefix) {
			_ = s.Daemon.Destroy(si.DaemonSessionID, true)
		}
	}
}

// sweepShimChildren destroys every child daemon pane recorded for
// sessionID (except the parent), then removes the shim directory, per
// §4.6.6 step 4.
func (s *Store) sweepShimChildren(sessionID string) {
	if !shim.Exists(s.Paths.ShimDir(), sessionID) {
		return
	}
	reg, err := shim.Load(s.Paths.ShimDir(), sessionID)
	if err != nil || len(reg) == 0 {
		return
	}
	for paneID, daemonSessionID := range reg {
		if paneID == sessionID {
			continue
		}
		_ = s.Daemon.Destroy(daemonSessionID, true)
	}
	_ = shim.RemoveDir(s.Paths.ShimDir(), sessionID)
}

// cleanClaudeTaskList removes ~/.claude/tasks/<task_list_id> if present,
// per §4.6.6 step 5. Best-effort: a missing $HOME or directory is not an
// error.
func (s *Store) cleanClaudeTaskList(taskListID *string) {
	if taskListID == nil || *taskListID == "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	_ = os.RemoveAll(filepath.Join(home, ".claude", "tasks", *taskListID))
}
