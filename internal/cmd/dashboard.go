package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildpaths"
	"github.com/kildhq/kild/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: GroupDiag,
	Short:   "Live view of every kild's status",
	Args:    cobra.NoArgs,
	RunE:    runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	paths, err := kildpaths.Default()
	if err != nil {
		return fail(err)
	}
	if _, err := tea.NewProgram(tui.New(paths.SessionsDir())).Run(); err != nil {
		return fail(err)
	}
	return nil
}
