package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/doctor"
	"github.com/kildhq/kild/internal/style"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: GroupDiag,
	Short:   "Run read-only consistency checks over the current repository",
	Args:    cobra.NoArgs,
	RunE:    runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	warnings := 0
	for _, result := range doctor.Run(store) {
		switch result.Status {
		case doctor.StatusOK:
			style.PrintSuccess("%s", result.Message)
		case doctor.StatusWarning:
			warnings++
			style.PrintWarning("%s", result.Message)
		case doctor.StatusError:
			style.PrintError("%s", result.Message)
		}
	}
	if warnings > 0 {
		style.PrintWarning("run 'kild cleanup' to address the above")
	}
	return nil
}
