// Package gitops implements the git surface kild builds on: an in-process
// surface backed by github.com/go-git/go-git/v5 for fast reads (branch
// listing, ref reads, remote lookup), and a sanitized git-CLI surface for
// everything else — worktree listing/add/remove, fetch, rebase, remote
// branch deletion, status, ahead/behind counts and diff stats.
//
// Every value handed to the CLI surface passes through
// pathid.ValidateGitArg first; a validation failure short-circuits as
// OperationFailedError before any subprocess is spawned.
package gitops

import "fmt"

// NotInRepositoryError is returned when a path is not inside a git
// repository (or worktree).
type NotInRepositoryError struct {
	Path string
}

func (e *NotInRepositoryError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository", e.Path)
}

// OperationFailedError wraps an operation that failed for a reason outside
// the specific taxonomy below (including validate_git_arg rejections at the
// CLI boundary).
type OperationFailedError struct {
	Message string
	Cause   error
}

func (e *OperationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *OperationFailedError) Unwrap() error { return e.Cause }

// Git2Error wraps a failure of a read-only git query: the in-process
// go-git surface, and GetDiffStats's `git diff --shortstat` call.
type Git2Error struct {
	Op    string
	Cause error
}

func (e *Git2Error) Error() string {
	return fmt.Sprintf("git2 %s: %v", e.Op, e.Cause)
}

func (e *Git2Error) Unwrap() error { return e.Cause }

// FetchFailedError wraps a failed fetch.
type FetchFailedError struct {
	Remote string
	Branch string
	Cause  error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Remote, e.Branch, e.Cause)
}

func (e *FetchFailedError) Unwrap() error { return e.Cause }

// RebaseConflictError is returned when a rebase hits a conflict. The rebase
// has already been auto-aborted, leaving the worktree clean, by the time
// this error is returned.
type RebaseConflictError struct {
	BaseBranch   string
	WorktreePath string
}

func (e *RebaseConflictError) Error() string {
	return fmt.Sprintf("rebase onto %s conflicted in %s (auto-aborted)", e.BaseBranch, e.WorktreePath)
}
