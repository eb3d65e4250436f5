package kildlife

import (
	"fmt"
	"time"

	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/pathid"
	"github.com/kildhq/kild/internal/proctrack"
)

// stop tears down every agent's process/session without touching the
// worktree, leaving the session Stopped and revivable by open.
func (s *Store) stop(cmd Command) (Event, error) {
	branch, err := pathid.ValidateBranchName(cmd.Branch)
	if err != nil {
		return Event{}, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}

	session, err := s.findSession(branch)
	if err != nil {
		return Event{}, err
	}

	killErrs := s.stopAgents(session, false)

	for _, a := range session.Agents {
		_ = proctrack.DeletePIDFile(s.Paths.Home, a.SpawnID)
	}

	if len(session.Agents) > 0 && session.RuntimeMode == "" {
		session.RuntimeMode = session.EffectiveRuntimeMode()
	}

	if len(killErrs) > 0 {
		return Event{}, killErrs[0]
	}

	_ = kildstore.RemoveAgentStatusFile(s.Paths.SessionsDir(), session.ID)

	session.Agents = nil
	session.Status = kildstore.StatusStopped
	session.LastActivity = time.Now().UTC()
	if err := kildstore.SaveSession(s.Paths.SessionsDir(), session); err != nil {
		return Event{}, wrapErr(ErrIO, err)
	}

	return Event{Kind: EventKildStopped, Branch: branch, SessionID: session.ID}, nil
}

// stopAgents tears down every agent of session. When force is false, a
// terminal-backed kill failure is collected into the returned slice rather
// than aborting the loop, matching Stop's "collect all kill errors" and
// Destroy's "fatal unless force" contracts (force controls what the caller
// does with the result, not this function's behavior).
func (s *Store) stopAgents(session *kildstore.Session, force bool) []*Error {
	var errs []*Error
	var failedPIDs []int

	for _, a := range session.Agents {
		switch {
		case a.DaemonSessionID != nil:
			if a.TerminalWindowID != nil {
				_ = s.Term.CloseWindow(*a.TerminalWindowID)
			}
			_ = s.Daemon.Destroy(*a.DaemonSessionID, false)

		case a.ProcessID != nil:
			if a.TerminalWindowID != nil {
				_ = s.Term.CloseWindow(*a.TerminalWindowID)
			}
			err := proctrack.KillProcess(*a.ProcessID, *a.ProcessName, *a.ProcessStartTime)
			if err != nil && err != proctrack.ErrProcessNotFound {
				if !force {
					failedPIDs = append(failedPIDs, *a.ProcessID)
				}
			}

		default:
			// The spawner timed out locating this agent's process (spec
			// §4.6.4 step 4): no PID to kill, but the window can still be
			// closed.
			if a.TerminalWindowID != nil {
				_ = s.Term.CloseWindow(*a.TerminalWindowID)
			}
		}
	}

	if len(failedPIDs) > 0 {
		msg := fmt.Sprintf("failed to kill process(es): %v", failedPIDs)
		errs = append(errs, &Error{Kind: ErrProcessKillFailed, FirstPID: failedPIDs[0], Message: msg})
	}
	return errs
}
