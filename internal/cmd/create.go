package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var (
	createAgent string
	createNote  string
	createIssue int
)

var createCmd = &cobra.Command{
	Use:     "create <branch>",
	GroupID: GroupLifecycle,
	Short:   "Create a new kild on a fresh branch",
	Args:    cobra.ExactArgs(1),
	RunE:    runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createAgent, "agent", "", "agent to launch (claude, codex, opencode, kiro); default agent if unset")
	createCmd.Flags().StringVar(&createNote, "note", "", "free-form note attached to the session")
	createCmd.Flags().IntVar(&createIssue, "issue", 0, "issue number to associate with this kild")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	mode := agentModeFromFlag(createAgent)
	ev, err := store.Dispatch(kildlife.CreateKild(args[0], mode, createNote, "", createIssue))
	if err != nil {
		return fail(err)
	}

	style.PrintSuccess("created kild %s (session %s)", ev.Branch, ev.SessionID)
	return nil
}

// agentModeFromFlag maps an empty --agent flag to config.AgentMode's
// DefaultAgent, "shell" to BareShell, and anything else to a NamedAgent.
func agentModeFromFlag(name string) config.AgentMode {
	switch name {
	case "":
		return config.AgentMode{}
	case "shell":
		return config.AgentMode{Kind: config.BareShell}
	default:
		return config.Agent(name)
	}
}
