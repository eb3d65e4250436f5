// Package kildpaths resolves the on-disk layout rooted at KILD_HOME.
//
// Paths is a plain value, constructed once by the CLI at startup and
// threaded through every component from there — deliberately not a
// package-level singleton, so tests can point it at a temp directory
// without mutating global state.
package kildpaths

import (
	"os"
	"path/filepath"
)

// Paths is the resolved set of directories and files kild owns under one
// KILD_HOME.
type Paths struct {
	Home string
}

// New resolves Paths from an explicit home directory.
func New(home string) Paths {
	return Paths{Home: home}
}

// Default resolves Paths from $KILD_HOME, falling back to
// ~/.kild when unset.
func Default() (Paths, error) {
	if home := os.Getenv("KILD_HOME"); home != "" {
		return Paths{Home: home}, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, err
	}
	return Paths{Home: filepath.Join(userHome, ".kild")}, nil
}

func (p Paths) ConfigFile() string { return filepath.Join(p.Home, "config.toml") }

func (p Paths) SessionsDir() string { return filepath.Join(p.Home, "sessions") }

func (p Paths) SessionDir(safeID string) string { return filepath.Join(p.SessionsDir(), safeID) }

func (p Paths) BranchIndexFile() string { return filepath.Join(p.SessionsDir(), "branch_index.json") }

func (p Paths) WorktreesDir() string { return filepath.Join(p.Home, "worktrees") }

func (p Paths) ProjectWorktreesDir(project string) string {
	return filepath.Join(p.WorktreesDir(), project)
}

func (p Paths) PidsDir() string { return filepath.Join(p.Home, "pids") }

func (p Paths) PidFile(key string) string { return filepath.Join(p.PidsDir(), key) }

func (p Paths) ShimDir() string { return filepath.Join(p.Home, "shim") }

func (p Paths) ShimPanesFile(sessionID string) string {
	return filepath.Join(p.ShimDir(), sessionID, "panes.json")
}

func (p Paths) DaemonDir() string { return filepath.Join(p.Home, "daemon") }

func (p Paths) DaemonSocket() string { return filepath.Join(p.Home, "daemon.sock") }

func (p Paths) DaemonLockFile() string { return filepath.Join(p.DaemonDir(), "daemon.lock") }

func (p Paths) DaemonLogFile() string { return filepath.Join(p.DaemonDir(), "daemon.log") }

func (p Paths) EventsFile() string { return filepath.Join(p.Home, "events.jsonl") }
