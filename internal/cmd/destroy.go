package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var destroyForce bool

var destroyCmd = &cobra.Command{
	Use:     "destroy <branch>",
	GroupID: GroupLifecycle,
	Short:   "Remove a kild's worktree, branch, and session",
	Args:    cobra.ExactArgs(1),
	RunE:    runDestroy,
}

func init() {
	destroyCmd.Flags().BoolVar(&destroyForce, "force", false, "bypass uncommitted-changes and live-process safety checks")
	rootCmd.AddCommand(destroyCmd)
}

func runDestroy(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}
	branch := args[0]

	if safety, err := store.DestroySafety(branch); err == nil && safety.HasWarnings() {
		for _, msg := range safety.WarningMessages() {
			style.PrintWarning("%s", msg)
		}
	}

	ev, err := store.Dispatch(kildlife.DestroyKild(branch, destroyForce))
	if err != nil {
		return fail(err)
	}

	style.PrintSuccess("destroyed kild %s", ev.Branch)
	return nil
}
