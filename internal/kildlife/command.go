package kildlife

import "github.com/kildhq/kild/internal/config"

// Command is the sum of requests Dispatch accepts, one variant per verb.
// Exactly one Command is constructed per call; unused fields on other
// variants are simply left zero.
type Command struct {
	Kind CommandKind

	// CreateKild / OpenKild
	Branch      string
	AgentMode   config.AgentMode
	Note        string
	Issue       int
	ProjectPath string

	// DestroyKild / CompleteKild
	Force bool
}

// CommandKind discriminates Command.
type CommandKind int

const (
	CmdCreateKild CommandKind = iota
	CmdDestroyKild
	CmdOpenKild
	CmdStopKild
	CmdCompleteKild
	CmdRefreshSessions
)

// CreateKild builds a CreateKild command. issue is 0 when unset.
func CreateKild(branch string, mode config.AgentMode, note, projectPath string, issue int) Command {
	return Command{Kind: CmdCreateKild, Branch: branch, AgentMode: mode, Note: note, Issue: issue, ProjectPath: projectPath}
}

// DestroyKild builds a DestroyKild command.
func DestroyKild(branch string, force bool) Command {
	return Command{Kind: CmdDestroyKild, Branch: branch, Force: force}
}

// OpenKild builds an OpenKild command. A zero-value AgentMode means "reuse
// whatever the session last used".
func OpenKild(branch string, mode config.AgentMode) Command {
	return Command{Kind: CmdOpenKild, Branch: branch, AgentMode: mode}
}

// StopKild builds a StopKild command.
func StopKild(branch string) Command {
	return Command{Kind: CmdStopKild, Branch: branch}
}

// CompleteKild builds a CompleteKild command.
func CompleteKild(branch string, force bool) Command {
	return Command{Kind: CmdCompleteKild, Branch: branch, Force: force}
}

// RefreshSessions builds a RefreshSessions command.
func RefreshSessions() Command {
	return Command{Kind: CmdRefreshSessions}
}
