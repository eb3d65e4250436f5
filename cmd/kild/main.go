/*
kild manages fleets of isolated AI-coding-agent work units.

Each kild is bound to a git branch, a dedicated worktree, and a long-running
PTY-attached agent process (Claude, Codex, OpenCode, Kiro, or a bare shell).
kild coordinates git worktree creation, a filesystem session store, and
either a PTY daemon or an external terminal window to run the agent in.

Usage:

	kild <command> [arguments]

Common commands:

	kild create <branch>   Create a new kild on a fresh branch
	kild open <branch>     Reopen a stopped kild's agent
	kild stop <branch>     Stop a kild's agent, keeping its worktree
	kild destroy <branch>  Remove a kild's worktree, branch, and session
	kild complete <branch> Destroy a kild once its PR has merged
	kild cleanup           Sweep orphaned branches, worktrees, and sessions
	kild daemon start      Run the PTY daemon in the foreground
	kild attach <branch>   Attach to a kild's daemon-backed agent

See 'kild help <command>' for more information on a specific command.
*/
package main

import (
	"os"

	"github.com/kildhq/kild/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
