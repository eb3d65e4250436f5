package kildlife

import (
	"strconv"
	"time"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/gitops"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
)

// create validates the branch, refuses a duplicate, creates the
// kild/<branch> worktree, spawns the agent, then persists the session.
// The session is saved only after a successful spawn: if the spawn or the
// save fails, the worktree and branch are removed and no session record
// is left behind.
func (s *Store) create(cmd Command) (Event, error) {
	branch, err := pathid.ValidateBranchName(cmd.Branch)
	if err != nil {
		return Event{}, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}

	if _, err := s.findSession(branch); err == nil {
		return Event{}, &Error{Kind: ErrAlreadyExists, Branch: branch}
	} else if kerr, ok := err.(*Error); !ok || kerr.Kind != ErrNotFound {
		return Event{}, err
	}

	wt, err := gitops.CreateWorktree(s.RepoRoot, s.Paths.Home, s.ProjectName, branch)
	if err != nil {
		return Event{}, wrapErr(ErrGit, err)
	}

	sessionID := newSessionID(s.ProjectID, branch)
	session := &kildstore.Session{
		ID:           sessionID,
		ProjectID:    s.ProjectID,
		Branch:       wt.Branch,
		WorktreePath: wt.Path,
		Status:       kildstore.StatusActive,
		CreatedAt:    time.Now().UTC(),
		LastActivity: time.Now().UTC(),
	}
	if cmd.Note != "" {
		note := cmd.Note
		session.Note = &note
	}
	if cmd.Issue != 0 {
		issue := strconv.Itoa(cmd.Issue)
		session.Issue = &issue
	}

	agentProcess, rtMode, spawnErr := s.spawnAgent(wt.Path, cmd.AgentMode)
	if spawnErr != nil {
		// Roll back: the worktree outlives a failed spawn otherwise,
		// leaving an orphan with no session record pointing at it.
		_ = gitops.RemoveWorktreeForce(s.RepoRoot, wt.Path)
		_ = gitops.DeleteBranchIfExists(s.RepoRoot, wt.Branch)
		return Event{}, spawnErr
	}
	session.RuntimeMode = rtMode
	session.Agents = append(session.Agents, agentProcess)
	session.Agent = agentProcess.Agent

	if err := kildstore.SaveSession(s.Paths.SessionsDir(), session); err != nil {
		s.teardownSpawn(agentProcess, rtMode)
		_ = gitops.RemoveWorktreeForce(s.RepoRoot, wt.Path)
		_ = gitops.DeleteBranchIfExists(s.RepoRoot, wt.Branch)
		return Event{}, wrapErr(ErrIO, err)
	}

	if rtMode == kildstore.RuntimeModeDaemon {
		s.autoAttachDaemon(branch, session, len(session.Agents)-1)
	}

	return Event{Kind: EventKildCreated, Branch: branch, SessionID: sessionID}, nil
}

// agentCommandLine resolves the configured AgentMode to a full command
// line (argv[0] plus args), via the same chain ResolveAgentCommand
// implements.
func (s *Store) agentCommandLine(mode config.AgentMode) (string, []string, error) {
	command, args, err := config.ResolveAgentCommand(s.Config, mode)
	if err != nil {
		return "", nil, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}
	return command, args, nil
}

func agentNameOf(mode config.AgentMode) string {
	switch mode.Kind {
	case config.NamedAgent:
		return mode.Name
	case config.BareShell:
		return "shell"
	default:
		return "claude"
	}
}

// teardownSpawn best-effort reverses spawnAgent, used on Create's rollback
// path. Failures are swallowed: the worktree removal that follows makes
// any surviving process orphaned but harmless.
func (s *Store) teardownSpawn(p kildstore.AgentProcess, mode kildstore.RuntimeMode) {
	switch mode {
	case kildstore.RuntimeModeDaemon:
		if p.DaemonSessionID != nil {
			_ = s.Daemon.Destroy(*p.DaemonSessionID, true)
		}
	case kildstore.RuntimeModeTerminal:
		if p.TerminalWindowID != nil {
			_ = s.Term.CloseWindow(*p.TerminalWindowID)
		}
	}
}
