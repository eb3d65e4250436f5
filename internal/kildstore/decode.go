package kildstore

import "encoding/json"

// sessionOnWire mirrors Session but decodes Status/RuntimeMode as raw
// strings so legacy PascalCase spellings can be normalized before landing
// in the typed Status/RuntimeMode values.
type sessionOnWire struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"project_id"`
	Branch          string         `json:"branch"`
	WorktreePath    string         `json:"worktree_path"`
	Agent           string         `json:"agent"`
	Status          string         `json:"status"`
	CreatedAt       interface{}    `json:"created_at"`
	LastActivity    interface{}    `json:"last_activity"`
	PortRangeStart  int            `json:"port_range_start,omitempty"`
	PortRangeEnd    int            `json:"port_range_end,omitempty"`
	PortCount       int            `json:"port_count,omitempty"`
	Note            *string        `json:"note,omitempty"`
	Issue           *string        `json:"issue,omitempty"`
	AgentSessionID  *string        `json:"agent_session_id,omitempty"`
	TaskListID      *string        `json:"task_list_id,omitempty"`
	RuntimeMode     string         `json:"runtime_mode,omitempty"`
	UseMainWorktree bool           `json:"use_main_worktree"`
	Agents          []AgentProcess `json:"agents"`
}

// UnmarshalJSON accepts both the canonical snake_case Status/RuntimeMode
// spellings and legacy PascalCase Status values, and tolerates a missing
// Agents list (older records never had multi-agent support).
func (s *Session) UnmarshalJSON(data []byte) error {
	var w sessionOnWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*s = Session{
		ID:              w.ID,
		ProjectID:       w.ProjectID,
		Branch:          w.Branch,
		WorktreePath:    w.WorktreePath,
		Agent:           w.Agent,
		Status:          normalizeStatus(w.Status),
		PortRangeStart:  w.PortRangeStart,
		PortRangeEnd:    w.PortRangeEnd,
		PortCount:       w.PortCount,
		Note:            w.Note,
		Issue:           w.Issue,
		AgentSessionID:  w.AgentSessionID,
		TaskListID:      w.TaskListID,
		RuntimeMode:     RuntimeMode(w.RuntimeMode),
		UseMainWorktree: w.UseMainWorktree,
		Agents:          w.Agents,
	}
	if err := decodeTimestamp(w.CreatedAt, &s.CreatedAt); err != nil {
		return err
	}
	if err := decodeTimestamp(w.LastActivity, &s.LastActivity); err != nil {
		return err
	}
	return nil
}
