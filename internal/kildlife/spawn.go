package kildlife

import (
	"time"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/kildstore"
	"github.com/kildhq/kild/internal/proctrack"
	"github.com/kildhq/kild/internal/ptyd"
)

// spawnAgent starts the agent for dir per the resolved AgentMode, routing
// to the daemon-backed or terminal-backed path depending on
// Config.RuntimeMode. It returns the AgentProcess record to persist and
// the runtime mode actually used.
func (s *Store) spawnAgent(dir string, mode config.AgentMode) (kildstore.AgentProcess, kildstore.RuntimeMode, error) {
	command, args, err := s.agentCommandLine(mode)
	if err != nil {
		return kildstore.AgentProcess{}, "", err
	}
	agentName := agentNameOf(mode)
	spawnID := newSpawnID()
	commandLine := command
	if len(args) > 0 {
		commandLine = command + " " + joinArgs(args)
	}

	if s.Config.RuntimeMode == "daemon" {
		return s.spawnDaemon(dir, agentName, spawnID, command, args, commandLine)
	}
	return s.spawnTerminal(dir, agentName, spawnID, command, args, commandLine)
}

// spawnDaemon implements §4.6.3: ensure the daemon is running, create a PTY
// session through it, then poll for an early exit before declaring success.
func (s *Store) spawnDaemon(dir, agentName, spawnID, command string, args []string, commandLine string) (kildstore.AgentProcess, kildstore.RuntimeMode, error) {
	if err := s.Daemon.EnsureRunning(ptyd.EnsureRunningConfig{
		BinaryPath: "kild",
		DaemonArgs: []string{"daemon", "start"},
	}); err != nil {
		return kildstore.AgentProcess{}, "", wrapErr(ErrDaemonNotRunning, err)
	}

	daemonSessionID, err := s.Daemon.Create(ptyd.CreateOptions{
		SessionID:        spawnID,
		WorkingDirectory: dir,
		Command:          command,
		Args:             args,
		Rows:             40,
		Cols:             160,
		UseLoginShell:    false,
	})
	if err != nil {
		return kildstore.AgentProcess{}, "", wrapErr(ErrDaemonNotRunning, err)
	}

	if early, err := s.Daemon.CheckEarlyExit(daemonSessionID); err == nil && early != nil {
		return kildstore.AgentProcess{}, "", &Error{
			Kind:           ErrDaemonPtyExitedEarly,
			ExitCode:       early.ExitCode,
			ScrollbackTail: early.ScrollbackTail,
		}
	}

	proc := kildstore.NewDaemonAgentProcess(agentName, spawnID, commandLine, daemonSessionID)
	return proc, kildstore.RuntimeModeDaemon, nil
}

// spawnTerminal implements §4.6.4: open an external terminal window via the
// configured TerminalBackend, then search for the spawned process with
// exponential backoff (1s, 2s, 4s, capped at 8s, up to MaxRetryAttempts
// tries). A search timeout is not fatal — the agent may simply be slow to
// fork — so the AgentProcess is recorded with a nil process triple and
// liveness checks treat it as unknown rather than dead.
func (s *Store) spawnTerminal(dir, agentName, spawnID, command string, args []string, commandLine string) (kildstore.AgentProcess, kildstore.RuntimeMode, error) {
	windowID, err := s.Term.Spawn(dir, append([]string{command}, args...), nil)
	if err != nil {
		return kildstore.AgentProcess{}, "", wrapErr(ErrInvalidProcessMetadata, err)
	}

	kind := string(s.Term.Kind())

	info := s.findSpawnedProcess(command, commandLine)
	if info == nil {
		proc := kildstore.AgentProcess{
			Agent:            agentName,
			SpawnID:          spawnID,
			Command:          commandLine,
			OpenedAt:         time.Now().UTC(),
			TerminalType:     &kind,
			TerminalWindowID: &windowID,
		}
		return proc, kildstore.RuntimeModeTerminal, nil
	}

	// Capture fresh process metadata rather than trusting the first read,
	// defeating a race against the spawner's own returned info.
	fresh, err := proctrack.GetProcessInfo(info.PID)
	if err != nil {
		fresh = info
	}
	if err := proctrack.WritePIDFile(s.Paths.Home, spawnID, *fresh); err != nil {
		return kildstore.AgentProcess{}, "", wrapErr(ErrIO, err)
	}

	proc := kildstore.NewTerminalAgentProcess(agentName, spawnID, commandLine, fresh.PID, fresh.Name, fresh.StartTime)
	proc.TerminalType = &kind
	proc.TerminalWindowID = &windowID
	return proc, kildstore.RuntimeModeTerminal, nil
}

// findSpawnedProcess searches for a freshly spawned process by command
// name/line with exponential backoff: 1s, 2s, 4s, 8s (capped), up to
// MaxRetryAttempts tries. Returns nil, not an error, on timeout.
func (s *Store) findSpawnedProcess(command, commandLine string) *proctrack.Info {
	attempts := s.Config.MaxRetryAttempts
	if attempts <= 0 {
		attempts = 5
	}
	delay := time.Second
	const maxDelay = 8 * time.Second

	for i := 0; i < attempts; i++ {
		time.Sleep(delay)
		if info, err := proctrack.FindProcessByName(command, commandLine); err == nil && info != nil {
			return info
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil
}

// autoAttachDaemon implements §4.6.3 step 7: best-effort, spawn a terminal
// window running `kild attach <branch>` for a just-created daemon-backed
// agent, then persist the window info in a second save pass. The session
// must already be saved with the agent's daemon_session_id before this
// runs, since the spawned `kild attach` process looks the session up by
// branch to learn which daemon session to connect to.
func (s *Store) autoAttachDaemon(branch string, session *kildstore.Session, agentIdx int) {
	if s.Config.AutoAttach != nil && !*s.Config.AutoAttach {
		return
	}
	windowID, err := s.Term.Spawn(session.WorktreePath, []string{"kild", "attach", branch}, nil)
	if err != nil {
		return
	}
	kind := string(s.Term.Kind())
	session.Agents[agentIdx].TerminalType = &kind
	session.Agents[agentIdx].TerminalWindowID = &windowID
	_ = kildstore.SaveSession(s.Paths.SessionsDir(), session)
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
