package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kildhq/kild/internal/ptyd"
	"github.com/kildhq/kild/internal/style"
)

var attachPollInterval time.Duration

var attachCmd = &cobra.Command{
	Use:     "attach <branch>",
	GroupID: GroupLifecycle,
	Short:   "Watch a kild's running agent",
	Args:    cobra.ExactArgs(1),
	RunE:    runAttach,
}

func init() {
	attachCmd.Flags().DurationVar(&attachPollInterval, "interval", time.Second, "scrollback poll interval")
	rootCmd.AddCommand(attachCmd)
}

// runAttach does not give the caller a live PTY: ptyd's wire protocol has no
// byte-streaming RPC, only ping/create/destroy/info/scrollback/list. For a
// daemon-backed agent it polls Scrollback and prints new bytes as they
// arrive, until the session stops or the caller interrupts. For a
// terminal-backed agent there is nothing to stream; it reports the window
// it already owns and exits.
func runAttach(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	branch := args[0]
	session, err := store.Session(branch)
	if err != nil {
		return fail(err)
	}
	if len(session.Agents) == 0 {
		return fail(fmt.Errorf("kild %s has no agent processes", branch))
	}
	agent := session.Agents[len(session.Agents)-1]

	if agent.DaemonSessionID == nil {
		if agent.TerminalWindowID != nil {
			kind := ""
			if agent.TerminalType != nil {
				kind = *agent.TerminalType
			}
			style.PrintSuccess("kild %s is running in %s window %s", branch, kind, *agent.TerminalWindowID)
		} else {
			style.PrintWarning("kild %s has no attachable agent process", branch)
		}
		return nil
	}

	return tailScrollback(store.Daemon, *agent.DaemonSessionID, branch)
}

// tailScrollback polls daemonSessionID until it stops, or prints a single
// snapshot and returns immediately when stdout isn't an interactive
// terminal (e.g. piped to a file or another process) — there's no point
// polling a display nothing will repaint.
func tailScrollback(client *ptyd.Client, daemonSessionID, branch string) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	var printed int
	ticker := time.NewTicker(attachPollInterval)
	defer ticker.Stop()

	for {
		status, _, err := client.Info(daemonSessionID)
		if err != nil {
			return fail(fmt.Errorf("querying daemon session: %w", err))
		}

		out, err := client.Scrollback(daemonSessionID)
		if err == nil && len(out) > printed {
			os.Stdout.Write(out[printed:])
			printed = len(out)
		}

		if status == ptyd.StatusStopped {
			style.PrintWarning("kild %s's agent has stopped", branch)
			return nil
		}
		if !interactive {
			return nil
		}

		<-ticker.C
	}
}
