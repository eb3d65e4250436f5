package gitops

// Worktree is the result of creating a kild worktree.
type Worktree struct {
	Path   string
	Branch string
}

// WorktreeEntry describes one entry from `git worktree list`.
type WorktreeEntry struct {
	Path    string
	IsValid bool
	Head    string // empty if invalid
}

// DiffStats is the index-to-workdir diff summary (excludes staged and
// untracked files).
type DiffStats struct {
	Insertions   int
	Deletions    int
	FilesChanged int
}

// UncommittedDetails breaks down uncommitted changes by category.
type UncommittedDetails struct {
	Staged    int
	Modified  int
	Untracked int
}

// WorktreeStatus is the read-only status snapshot consumed by
// DestroySafety.
type WorktreeStatus struct {
	HasUncommittedChanges bool
	UncommittedDetails    UncommittedDetails
	StatusCheckFailed     bool

	UnpushedCommitCount int
	BehindCommitCount   int
	BehindCountFailed   bool
	HasRemoteBranch     bool
}

// conservativeWorktreeStatus is returned whenever an internal failure makes
// it unsafe to assert the worktree is clean: HasUncommittedChanges and
// StatusCheckFailed are both set true simultaneously, so callers never treat
// an unreadable worktree as safe to discard.
func conservativeWorktreeStatus() WorktreeStatus {
	return WorktreeStatus{
		HasUncommittedChanges: true,
		StatusCheckFailed:     true,
	}
}
