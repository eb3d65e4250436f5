package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var completeCmd = &cobra.Command{
	Use:     "complete <branch>",
	GroupID: GroupLifecycle,
	Short:   "Destroy a kild once its pull request has merged",
	Args:    cobra.ExactArgs(1),
	RunE:    runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	ev, err := store.Dispatch(kildlife.CompleteKild(args[0], false))
	if err != nil {
		return fail(err)
	}

	switch kildlife.CompleteResult(ev.Detail) {
	case kildlife.CompleteRemoteDeleted:
		style.PrintSuccess("completed kild %s (remote branch deleted)", ev.Branch)
	case kildlife.CompleteRemoteDeleteFailed:
		style.PrintWarning("remote branch delete failed for %s", ev.Branch)
		style.PrintSuccess("completed kild %s", ev.Branch)
	case kildlife.CompletePrCheckUnavailable:
		style.PrintWarning("could not confirm merge status for %s; proceeding", ev.Branch)
		style.PrintSuccess("completed kild %s", ev.Branch)
	default:
		style.PrintSuccess("completed kild %s", ev.Branch)
	}
	return nil
}
