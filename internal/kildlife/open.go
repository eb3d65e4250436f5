package kildlife

import (
	"time"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
)

// open reuses an existing session's worktree and re-spawns its agent via
// the configured runtime mode, optionally overriding the agent.
func (s *Store) open(cmd Command) (Event, error) {
	branch, err := pathid.ValidateBranchName(cmd.Branch)
	if err != nil {
		return Event{}, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}

	session, err := s.findSession(branch)
	if err != nil {
		return Event{}, err
	}

	mode := cmd.AgentMode
	if mode.Kind == config.DefaultAgent && session.Agent != "" {
		// No override: reuse the agent the session last ran.
		if session.Agent == "shell" {
			mode = config.AgentMode{Kind: config.BareShell}
		} else {
			mode = config.Agent(session.Agent)
		}
	}

	agentProcess, rtMode, err := s.spawnAgent(session.WorktreePath, mode)
	if err != nil {
		return Event{}, err
	}

	session.RuntimeMode = rtMode
	session.Agent = agentProcess.Agent
	session.Agents = append(session.Agents, agentProcess)
	session.Status = kildstore.StatusActive
	session.LastActivity = time.Now().UTC()

	if err := kildstore.SaveSession(s.Paths.SessionsDir(), session); err != nil {
		s.teardownSpawn(agentProcess, rtMode)
		return Event{}, wrapErr(ErrIO, err)
	}

	if rtMode == kildstore.RuntimeModeDaemon {
		s.autoAttachDaemon(branch, session, len(session.Agents)-1)
	}

	return Event{Kind: EventKildOpened, Branch: branch, SessionID: session.ID}, nil
}
