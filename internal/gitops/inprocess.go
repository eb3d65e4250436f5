package gitops

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// EnsureInRepo opens workingDir (or one of its parents) as a git repository
// and returns its canonical root, or NotInRepositoryError.
func EnsureInRepo(workingDir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", &NotInRepositoryError{Path: workingDir}
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repo, or a repo whose worktree can't be resolved (e.g. we
		// opened it from inside a linked worktree's gitdir) — still a
		// repository, just without a conventional root to report.
		return workingDir, nil
	}
	abs, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return wt.Filesystem.Root(), nil
	}
	return abs, nil
}

// ListLocalBranchNames returns every local branch name, in the order the
// underlying reference iterator yields them.
func ListLocalBranchNames(repoRoot string) ([]string, error) {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return nil, &Git2Error{Op: "open", Cause: err}
	}
	refs, err := repo.Branches()
	if err != nil {
		return nil, &Git2Error{Op: "branches", Cause: err}
	}
	defer refs.Close()

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, &Git2Error{Op: "branches.ForEach", Cause: err}
	}
	return names, nil
}

// WorktreeActiveBranches returns the set of branch names currently checked
// out in any worktree, including the main HEAD.
func WorktreeActiveBranches(repoRoot string) (map[string]bool, error) {
	entries, err := listWorktreesRaw(repoRoot)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.branch != "" {
			active[e.branch] = true
		}
	}
	return active, nil
}

// IsWorktreeValid reports whether opening path as a repository and reading
// HEAD succeeds.
func IsWorktreeValid(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	repo, err := git.PlainOpen(path)
	if err != nil {
		return false
	}
	_, err = repo.Head()
	return err == nil
}

// ListWorktreeEntries lists every worktree known to the repository,
// including ones whose directory is missing (IsValid=false).
func ListWorktreeEntries(repoRoot string) ([]WorktreeEntry, error) {
	raw, err := listWorktreesRaw(repoRoot)
	if err != nil {
		return nil, err
	}
	out := make([]WorktreeEntry, 0, len(raw))
	for _, r := range raw {
		valid := IsWorktreeValid(r.path)
		head := ""
		if valid {
			head = r.branch
		}
		out = append(out, WorktreeEntry{Path: r.path, IsValid: valid, Head: head})
	}
	return out, nil
}

// HasRemoteConfigured reports whether the repository containing worktree
// has any configured remotes.
func HasRemoteConfigured(worktree string) bool {
	repo, err := git.PlainOpen(worktree)
	if err != nil {
		return false
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return false
	}
	return len(remotes) > 0
}

// RemoteURL returns the "origin" remote's first configured URL, or "" if
// the repository has no "origin" remote.
func RemoteURL(repoRoot string) string {
	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

type rawWorktreeEntry struct {
	path   string
	branch string
}
