package doctor

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/forgebackend"
	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/kildpaths"
	"github.com/kildhq/kild/internal/ptyd"
	"github.com/kildhq/kild/internal/terminalbackend"
)

func runGitOrFatal(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func newTestStore(t *testing.T) *kildlife.Store {
	t.Helper()
	repoRoot := t.TempDir()
	runGitOrFatal(t, repoRoot, "init", "-b", "main")
	if err := os.WriteFile(filepath.Join(repoRoot, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("writing README: %v", err)
	}
	runGitOrFatal(t, repoRoot, "add", "README.md")
	runGitOrFatal(t, repoRoot, "commit", "-m", "initial")

	home := t.TempDir()
	term, err := terminalbackend.New(terminalbackend.KindGeneric)
	if err != nil {
		t.Fatalf("terminalbackend.New: %v", err)
	}
	forge, err := forgebackend.New(forgebackend.KindGitHubCLI)
	if err != nil {
		t.Fatalf("forgebackend.New: %v", err)
	}

	return &kildlife.Store{
		Paths:       kildpaths.New(home),
		Config:      config.Defaults(),
		Daemon:      ptyd.NewClient(filepath.Join(home, "nonexistent.sock")),
		Term:        term,
		Forge:       forge,
		RepoRoot:    repoRoot,
		ProjectName: "testproj",
		ProjectID:   "testproj",
	}
}

func TestRunOnCleanRepoReportsOK(t *testing.T) {
	store := newTestStore(t)

	for _, result := range Run(store) {
		if result.Status != StatusOK {
			t.Errorf("expected StatusOK on a clean repo, got %v: %s", result.Status, result.Message)
		}
	}
}

func TestChecksAreAllFixable(t *testing.T) {
	for _, c := range []Check{orphanBranchCheck{}, orphanWorktreeCheck{}, staleSessionCheck{}} {
		if !c.CanFix() {
			t.Errorf("%s: expected CanFix true", c.Name())
		}
	}
}
