package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func runOrFatal(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runOrFatal(t, dir, "init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("writing README: %v", err)
	}
	runOrFatal(t, dir, "add", "README.md")
	runOrFatal(t, dir, "commit", "-m", "initial")
	return dir
}

func TestEnsureInRepo(t *testing.T) {
	dir := initRepo(t)
	root, err := EnsureInRepo(dir)
	if err != nil {
		t.Fatalf("EnsureInRepo: %v", err)
	}
	if root == "" {
		t.Fatalf("expected non-empty root")
	}

	outside := t.TempDir()
	if _, err := EnsureInRepo(outside); err == nil {
		t.Fatalf("expected NotInRepositoryError for non-repo path")
	}
}

func TestCreateAndRemoveWorktree(t *testing.T) {
	dir := initRepo(t)
	base := t.TempDir()

	wt, err := CreateWorktree(dir, base, "myproj", "feat-login")
	if err != nil {
		t.Fatalf("CreateWorktree: %v", err)
	}
	if wt.Branch != "kild/feat-login" {
		t.Fatalf("Branch = %q, want kild/feat-login", wt.Branch)
	}
	if !IsWorktreeValid(wt.Path) {
		t.Fatalf("expected created worktree to be valid")
	}

	branches, err := ListLocalBranchNames(dir)
	if err != nil {
		t.Fatalf("ListLocalBranchNames: %v", err)
	}
	found := false
	for _, b := range branches {
		if b == "kild/feat-login" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected kild/feat-login among local branches: %v", branches)
	}

	if err := RemoveWorktreeByPath(dir, wt.Path); err != nil {
		t.Fatalf("RemoveWorktreeByPath: %v", err)
	}
	if IsWorktreeValid(wt.Path) {
		t.Fatalf("expected worktree to be gone after removal")
	}
}

func TestGetWorktreeStatusCleanAndDirty(t *testing.T) {
	dir := initRepo(t)

	clean := GetWorktreeStatus(dir)
	if clean.HasUncommittedChanges {
		t.Fatalf("expected clean status, got %+v", clean)
	}
	if clean.StatusCheckFailed {
		t.Fatalf("expected status check to succeed")
	}

	if err := os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing untracked file: %v", err)
	}
	dirty := GetWorktreeStatus(dir)
	if !dirty.HasUncommittedChanges {
		t.Fatalf("expected dirty status after adding untracked file")
	}
	if dirty.UncommittedDetails.Untracked != 1 {
		t.Fatalf("Untracked = %d, want 1", dirty.UncommittedDetails.Untracked)
	}
}

func TestGetWorktreeStatusConservativeFallbackOnBadPath(t *testing.T) {
	status := GetWorktreeStatus(filepath.Join(t.TempDir(), "does-not-exist"))
	if !status.HasUncommittedChanges || !status.StatusCheckFailed {
		t.Fatalf("expected conservative fallback, got %+v", status)
	}
}

func TestRebaseConflictAutoAborts(t *testing.T) {
	dir := initRepo(t)
	base := t.TempDir()

	wt, err := CreateWorktree(dir, base, "myproj", "foo")
	if err != nil {
		t.Fatalf("CreateWorktree: %v", err)
	}

	// Modify conflict.txt on kild/foo.
	if err := os.WriteFile(filepath.Join(wt.Path, "conflict.txt"), []byte("from-foo\n"), 0o644); err != nil {
		t.Fatalf("writing conflict.txt on foo: %v", err)
	}
	runOrFatal(t, wt.Path, "add", "conflict.txt")
	runOrFatal(t, wt.Path, "commit", "-m", "foo change")

	// Modify the same file differently on main.
	if err := os.WriteFile(filepath.Join(dir, "conflict.txt"), []byte("from-main\n"), 0o644); err != nil {
		t.Fatalf("writing conflict.txt on main: %v", err)
	}
	runOrFatal(t, dir, "add", "conflict.txt")
	runOrFatal(t, dir, "commit", "-m", "main change")

	err = Rebase(wt.Path, "main")
	if _, ok := err.(*RebaseConflictError); !ok {
		t.Fatalf("expected RebaseConflictError, got %v", err)
	}

	status := GetWorktreeStatus(wt.Path)
	if status.UncommittedDetails.Modified != 0 {
		t.Fatalf("expected auto-abort to restore cleanliness, got modified=%d", status.UncommittedDetails.Modified)
	}
}

func TestCountUnpushedCommitsNeverPushedState(t *testing.T) {
	dir := initRepo(t)
	ahead, behind, hasRemote, failed := CountUnpushedCommits(dir)
	if ahead != 0 || behind != 0 || hasRemote || failed {
		t.Fatalf("expected never-pushed state (0,0,false,false), got (%d,%d,%v,%v)", ahead, behind, hasRemote, failed)
	}
}

func TestDeleteLocalBranchNotFoundTreatedAsFalse(t *testing.T) {
	dir := initRepo(t)
	ok, err := DeleteLocalBranch(dir, "never-existed")
	if err != nil {
		t.Fatalf("DeleteLocalBranch: %v", err)
	}
	if ok {
		t.Fatalf("expected false for a branch that never existed")
	}
}

func TestHasRemoteConfiguredFalseByDefault(t *testing.T) {
	dir := initRepo(t)
	if HasRemoteConfigured(dir) {
		t.Fatalf("expected no remote configured on a fresh repo")
	}
}
