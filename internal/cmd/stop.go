package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var stopCmd = &cobra.Command{
	Use:     "stop <branch>",
	GroupID: GroupLifecycle,
	Short:   "Stop a kild's agent, keeping its worktree",
	Args:    cobra.ExactArgs(1),
	RunE:    runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	ev, err := store.Dispatch(kildlife.StopKild(args[0]))
	if err != nil {
		return fail(err)
	}

	style.PrintSuccess("stopped kild %s", ev.Branch)
	return nil
}
