// Package kildstore implements the filesystem-resident session store: the
// persisted Session record, its sidecar files (agent status, PR info), the
// branch index, and backward-compatible legacy-format migration.
//
// Every file this package owns is written temp-file + rename in the same
// directory the final file lives in, matching the atomic-write idiom used
// elsewhere in the corpus (internal/clan.Manager.saveState's
// util.AtomicWriteJSON call).
package kildstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle status of a Session.
type Status string

const (
	StatusActive    Status = "active"
	StatusStopped   Status = "stopped"
	StatusDestroyed Status = "destroyed"
)

// legacy PascalCase spellings accepted on read.
var legacyStatusAliases = map[string]Status{
	"Active":    StatusActive,
	"Stopped":   StatusStopped,
	"Destroyed": StatusDestroyed,
}

// normalizeStatus maps a raw decoded string (snake_case or legacy
// PascalCase) onto the canonical Status, defaulting to StatusActive for an
// empty value (older records may omit status entirely).
func normalizeStatus(raw string) Status {
	if raw == "" {
		return StatusActive
	}
	if s, ok := legacyStatusAliases[raw]; ok {
		return s
	}
	return Status(raw)
}

// RuntimeMode describes which substrate owns an agent's PTY.
type RuntimeMode string

const (
	RuntimeModeDaemon   RuntimeMode = "daemon"
	RuntimeModeTerminal RuntimeMode = "terminal"
)

// Session is the persisted record for one kild.
type Session struct {
	ID             string      `json:"id"`
	ProjectID      string      `json:"project_id"`
	Branch         string      `json:"branch"`
	WorktreePath   string      `json:"worktree_path"`
	Agent          string      `json:"agent"`
	Status         Status      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	LastActivity   time.Time   `json:"last_activity"`
	PortRangeStart int         `json:"port_range_start,omitempty"`
	PortRangeEnd   int         `json:"port_range_end,omitempty"`
	PortCount      int         `json:"port_count,omitempty"`
	Note           *string     `json:"note,omitempty"`
	Issue          *string     `json:"issue,omitempty"`
	AgentSessionID *string     `json:"agent_session_id,omitempty"`
	TaskListID     *string     `json:"task_list_id,omitempty"`
	RuntimeMode    RuntimeMode `json:"runtime_mode,omitempty"`
	UseMainWorktree bool       `json:"use_main_worktree"`
	Agents         []AgentProcess `json:"agents"`
}

// EffectiveRuntimeMode returns RuntimeMode if set, otherwise infers it from
// the most recently appended AgentProcess (older records omit the field).
func (s *Session) EffectiveRuntimeMode() RuntimeMode {
	if s.RuntimeMode != "" {
		return s.RuntimeMode
	}
	for i := len(s.Agents) - 1; i >= 0; i-- {
		if s.Agents[i].DaemonSessionID != nil {
			return RuntimeModeDaemon
		}
		if s.Agents[i].ProcessID != nil {
			return RuntimeModeTerminal
		}
	}
	return ""
}

// AgentProcess is a per-spawn record appended to Session.Agents.
type AgentProcess struct {
	Agent            string     `json:"agent"`
	SpawnID          string     `json:"spawn_id,omitempty"`
	Command          string     `json:"command"`
	OpenedAt         time.Time  `json:"opened_at"`
	ProcessID        *int       `json:"process_id,omitempty"`
	ProcessName      *string    `json:"process_name,omitempty"`
	ProcessStartTime *int64     `json:"process_start_time,omitempty"`
	TerminalType     *string    `json:"terminal_type,omitempty"`
	TerminalWindowID *string    `json:"terminal_window_id,omitempty"`
	DaemonSessionID  *string    `json:"daemon_session_id,omitempty"`
}

// ErrInconsistentProcessTriple is returned when exactly one or two (but not
// all three, and not zero) of process_id/process_name/process_start_time
// are present.
var ErrInconsistentProcessTriple = fmt.Errorf("process_id, process_name, and process_start_time must all be present or all be absent")

// NewTerminalAgentProcess constructs a Terminal-backed AgentProcess,
// enforcing the PID-triple invariant.
func NewTerminalAgentProcess(agent, spawnID, command string, pid int, name string, startTime int64) AgentProcess {
	return AgentProcess{
		Agent:            agent,
		SpawnID:          spawnID,
		Command:          command,
		OpenedAt:         time.Now().UTC(),
		ProcessID:        &pid,
		ProcessName:      &name,
		ProcessStartTime: &startTime,
	}
}

// NewDaemonAgentProcess constructs a Daemon-backed AgentProcess.
func NewDaemonAgentProcess(agent, spawnID, command, daemonSessionID string) AgentProcess {
	return AgentProcess{
		Agent:           agent,
		SpawnID:         spawnID,
		Command:         command,
		OpenedAt:        time.Now().UTC(),
		DaemonSessionID: &daemonSessionID,
	}
}

// Validate enforces the PID-triple invariant: process_id, process_name and
// process_start_time must be all-present or all-absent.
func (a AgentProcess) Validate() error {
	n := 0
	if a.ProcessID != nil {
		n++
	}
	if a.ProcessName != nil {
		n++
	}
	if a.ProcessStartTime != nil {
		n++
	}
	if n != 0 && n != 3 {
		return ErrInconsistentProcessTriple
	}
	return nil
}

// UnmarshalJSON enforces the PID-triple invariant at deserialization time:
// an inconsistent triple fails to deserialize rather than silently loading
// a half-populated process record.
func (a *AgentProcess) UnmarshalJSON(data []byte) error {
	type alias AgentProcess
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	out := AgentProcess(tmp)
	if err := out.Validate(); err != nil {
		return err
	}
	*a = out
	return nil
}

// AgentStatus is the coarse-grained activity status reported by an agent.
type AgentStatus string

const (
	AgentStatusIdle    AgentStatus = "idle"
	AgentStatusWorking AgentStatus = "working"
	AgentStatusWaiting AgentStatus = "waiting"
)

// AgentStatusInfo is the "status" sidecar: the ground truth for "last agent
// activity", consumed by health/doctor checks.
type AgentStatusInfo struct {
	Status    AgentStatus `json:"status"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PrState is the lifecycle state of a pull/merge request.
type PrState string

const (
	PrStateOpen   PrState = "open"
	PrStateDraft  PrState = "draft"
	PrStateMerged PrState = "merged"
	PrStateClosed PrState = "closed"
)

// PrInfo is the "pr" sidecar.
type PrInfo struct {
	Number         int       `json:"number"`
	URL            string    `json:"url"`
	State          PrState   `json:"state"`
	CIStatus       string    `json:"ci_status,omitempty"`
	CISummary      *string   `json:"ci_summary,omitempty"`
	ReviewStatus   string    `json:"review_status,omitempty"`
	ReviewSummary  *string   `json:"review_summary,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BranchIndex maps branch name to session id for O(1) lookup. It is a
// cache, not a source of truth: it may be absent or stale, and readers must
// fall back to a full scan and repair the index on miss.
type BranchIndex map[string]string
