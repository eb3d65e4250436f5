// Package cmd provides the kild CLI commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var rootCmd = &cobra.Command{
	Use:   "kild",
	Short: "kild manages isolated AI-coding-agent work units",
	Long: `kild manages a fleet of isolated AI-coding-agent work units.

Each kild is bound to a git branch, a dedicated worktree, and a long-running
PTY-attached agent process. kild coordinates git worktree creation, a
filesystem session store, and either a PTY daemon or an external terminal
window to run the agent in.`,
}

// Command group IDs, used to organize help output.
const (
	GroupLifecycle = "lifecycle"
	GroupServices  = "services"
	GroupDiag      = "diag"
)

func init() {
	cobra.EnablePrefixMatching = true

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupLifecycle, Title: "Lifecycle:"},
		&cobra.Group{ID: GroupServices, Title: "Services:"},
		&cobra.Group{ID: GroupDiag, Title: "Diagnostics:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupDiag)
	rootCmd.SetCompletionCommandGroupID(GroupDiag)
}

// exitCode maps a kildlife error to its process exit code. Non-kildlife
// errors (flag parsing, "not in a repository", ...) fall through to 1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var kerr *kildlife.Error
	if !errors.As(err, &kerr) {
		return 1
	}
	switch kerr.Kind {
	case kildlife.ErrNotFound:
		return 2
	case kildlife.ErrUncommittedChanges:
		return 3
	case kildlife.ErrProcessKillFailed:
		return 4
	case kildlife.ErrNoPrFound:
		return 5
	case kildlife.ErrDaemonDisabled, kildlife.ErrDaemonTimeout, kildlife.ErrDaemonNotRunning, kildlife.ErrDaemonPtyExitedEarly:
		return 6
	case kildlife.ErrGit, kildlife.ErrFetchFailed, kildlife.ErrRebaseConflict:
		return 7
	default:
		return 1
	}
}

// runErr is returned by a command's RunE to carry both a message already
// printed to stderr and the process exit code it should produce, so
// Execute doesn't have to re-inspect cobra's generic error formatting.
type runErr struct {
	code int
}

func (e *runErr) Error() string { return fmt.Sprintf("exit %d", e.code) }

// fail prints err via style.PrintError (unless nil) and returns a runErr
// carrying the exit code exitCode(err) maps it to.
func fail(err error) error {
	if err != nil {
		style.PrintError("%s", err.Error())
	}
	return &runErr{code: exitCode(err)}
}

// Execute runs the root command and returns a process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var re *runErr
		if errors.As(err, &re) {
			return re.code
		}
		// Cobra already printed usage/flag errors.
		return 1
	}
	return 0
}

func buildCommandPath(cmd *cobra.Command) string {
	var parts []string
	for c := cmd; c != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func requireSubcommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("requires a subcommand\n\nRun '%s --help' for usage", buildCommandPath(cmd))
	}
	return fmt.Errorf("unknown command %q for %q", args[0], buildCommandPath(cmd))
}
