package gitops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kildhq/kild/internal/pathid"
)

// runGit runs git -C dir <args...>, validating every arg first.
func runGit(dir string, args ...string) (string, error) {
	for _, a := range args {
		if err := pathid.ValidateGitArg(a, "git-arg"); err != nil {
			return "", &OperationFailedError{Message: "rejected git argument", Cause: err}
		}
	}
	full := append([]string{"-C", dir}, args...)
	cmd := exec.Command("git", full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", &OperationFailedError{Message: fmt.Sprintf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String())), Cause: err}
	}
	return stdout.String(), nil
}

// listWorktreesRaw shells out to `git worktree list --porcelain`, since
// go-git v5 has no worktree-listing support at all.
func listWorktreesRaw(repoRoot string) ([]rawWorktreeEntry, error) {
	out, err := runGit(repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	var entries []rawWorktreeEntry
	var current rawWorktreeEntry
	flush := func() {
		if current.path != "" {
			entries = append(entries, current)
		}
		current = rawWorktreeEntry{}
	}

	for _, line := range strings.Split(out, "\n") {
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			current.path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.branch = strings.TrimPrefix(ref, "refs/heads/")
		}
	}
	flush()

	return entries, nil
}

// CreateWorktree creates kild/<branch> off repoRoot's HEAD if it doesn't
// already exist, then creates a worktree named sanitize_for_path(branch)
// under base/worktrees/project (git worktree names must not contain '/').
func CreateWorktree(repoRoot, base, project, branch string) (Worktree, error) {
	kildBranch := pathid.KildBranchName(branch)
	path := pathid.WorktreePath(base, project, branch)

	if err := pathid.ValidateGitArg(kildBranch, "branch"); err != nil {
		return Worktree{}, &OperationFailedError{Message: "rejected branch name", Cause: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Worktree{}, &OperationFailedError{Message: "creating worktree parent directory", Cause: err}
	}

	// Try adding a worktree on an existing kild branch first; otherwise
	// create the branch as part of the add.
	if _, err := runGit(repoRoot, "worktree", "add", path, kildBranch); err != nil {
		if _, err := runGit(repoRoot, "worktree", "add", "-b", kildBranch, path); err != nil {
			return Worktree{}, err
		}
	}

	return Worktree{Path: path, Branch: kildBranch}, nil
}

// RemoveWorktreeByPath removes a worktree non-force; git refuses when the
// worktree is dirty.
func RemoveWorktreeByPath(repoRoot, path string) error {
	_, err := runGit(repoRoot, "worktree", "remove", path)
	return err
}

// RemoveWorktreeForce force-removes a worktree.
func RemoveWorktreeForce(repoRoot, path string) error {
	_, err := runGit(repoRoot, "worktree", "remove", "--force", path)
	return err
}

// FindMainRepoRoot resolves the main repository path for a linked worktree.
// Must be called BEFORE removing the worktree, since the .git file that
// points back to the main repo disappears with it.
func FindMainRepoRoot(worktreePath string) (string, error) {
	out, err := runGit(worktreePath, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", err
	}
	commonDir := strings.TrimSpace(out)
	return filepath.Dir(commonDir), nil
}

// DeleteLocalBranch deletes name. Returns (true, nil) on delete, (false,
// nil) if the branch did not exist (callers treat as success); any other
// error bubbles up.
func DeleteLocalBranch(repoRoot, name string) (bool, error) {
	if _, err := runGit(repoRoot, "rev-parse", "--verify", "refs/heads/"+name); err != nil {
		return false, nil
	}
	if _, err := runGit(repoRoot, "branch", "-D", name); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteBranchIfExists deletes name if it exists and returns any error
// from DeleteLocalBranch; a missing branch is not an error. Callers that
// treat branch deletion as best-effort discard the result.
func DeleteBranchIfExists(repoRoot, name string) error {
	_, err := DeleteLocalBranch(repoRoot, name)
	return err
}

// Fetch runs `git fetch <remote> <branch>`.
func Fetch(repoRoot, remote, branch string) error {
	if _, err := runGit(repoRoot, "fetch", remote, branch); err != nil {
		return &FetchFailedError{Remote: remote, Branch: branch, Cause: err}
	}
	return nil
}

// Rebase rebases worktree onto baseBranch. On conflict, the rebase is
// automatically aborted, leaving the worktree clean, and
// RebaseConflictError is returned.
func Rebase(worktree, baseBranch string) error {
	if _, err := runGit(worktree, "rebase", baseBranch); err != nil {
		_, _ = runGit(worktree, "rebase", "--abort")
		return &RebaseConflictError{BaseBranch: baseBranch, WorktreePath: worktree}
	}
	return nil
}

// DeleteRemoteBranch deletes branch on remote.
func DeleteRemoteBranch(worktree, remote, branch string) error {
	if _, err := runGit(worktree, "push", remote, "--delete", branch); err != nil {
		return &OperationFailedError{Message: fmt.Sprintf("deleting remote branch %s/%s", remote, branch), Cause: err}
	}
	return nil
}

// CountUnpushedCommits returns (ahead, behind, hasRemote, behindCountFailed).
// Detached HEAD, no upstream, and a missing local branch all yield
// (0, 0, false, false) — the "never pushed" state, not an error.
func CountUnpushedCommits(repoRoot string) (ahead, behind int, hasRemote, behindCountFailed bool) {
	upstream, err := runGit(repoRoot, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil {
		return 0, 0, false, false
	}
	upstream = strings.TrimSpace(upstream)
	if upstream == "" {
		return 0, 0, false, false
	}

	out, err := runGit(repoRoot, "rev-list", "--left-right", "--count", "HEAD..."+upstream)
	if err != nil {
		return 0, 0, true, true
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, true, true
	}
	a, err1 := strconv.Atoi(fields[0])
	b, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0, true, true
	}
	return a, b, true, false
}

var diffShortstatPattern = regexp.MustCompile(`(\d+) files? changed(?:, (\d+) insertions?\(\+\))?(?:, (\d+) deletions?\(-\))?`)

// GetDiffStats returns the index-to-workdir diff summary (excludes staged
// and untracked files), parsed from `git diff --shortstat`.
func GetDiffStats(worktree string) (DiffStats, error) {
	out, err := runGit(worktree, "diff", "--shortstat")
	if err != nil {
		return DiffStats{}, &Git2Error{Op: "diff --shortstat", Cause: err}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return DiffStats{}, nil
	}
	m := diffShortstatPattern.FindStringSubmatch(out)
	if m == nil {
		return DiffStats{}, nil
	}
	stats := DiffStats{}
	stats.FilesChanged, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		stats.Insertions, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		stats.Deletions, _ = strconv.Atoi(m[3])
	}
	return stats, nil
}

// GetWorktreeStatus returns the full status snapshot consumed by
// DestroySafety. On any internal failure it returns the conservative
// fallback (HasUncommittedChanges=true, StatusCheckFailed=true).
func GetWorktreeStatus(worktree string) WorktreeStatus {
	out, err := runGit(worktree, "status", "--porcelain=v1")
	if err != nil {
		return conservativeWorktreeStatus()
	}

	var details UncommittedDetails
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 2 {
			continue
		}
		index, work := line[0], line[1]
		switch {
		case index == '?' && work == '?':
			details.Untracked++
		case index != ' ' && index != '?':
			details.Staged++
		case work != ' ' && work != '?':
			details.Modified++
		}
	}

	hasChanges := details.Staged > 0 || details.Modified > 0 || details.Untracked > 0
	ahead, behind, hasRemote, behindFailed := CountUnpushedCommits(worktree)

	return WorktreeStatus{
		HasUncommittedChanges: hasChanges,
		UncommittedDetails:    details,
		StatusCheckFailed:     false,
		UnpushedCommitCount:   ahead,
		BehindCommitCount:     behind,
		BehindCountFailed:     behindFailed,
		HasRemoteBranch:       hasRemote,
	}
}

