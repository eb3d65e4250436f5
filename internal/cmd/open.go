package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var openAgent string

var openCmd = &cobra.Command{
	Use:     "open <branch>",
	GroupID: GroupLifecycle,
	Short:   "Reopen a stopped kild's agent",
	Args:    cobra.ExactArgs(1),
	RunE:    runOpen,
}

func init() {
	openCmd.Flags().StringVar(&openAgent, "agent", "", "agent override; reuses the session's prior agent if unset")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	mode := agentModeFromFlag(openAgent)
	ev, err := store.Dispatch(kildlife.OpenKild(args[0], mode))
	if err != nil {
		return fail(err)
	}

	style.PrintSuccess("opened kild %s (session %s)", ev.Branch, ev.SessionID)
	return nil
}
