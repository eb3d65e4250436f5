// Package ptyd implements the PTY daemon: an out-of-process, single-node
// server that owns interactive PTYs, reached over a Unix domain socket, and
// the thin client the rest of kild uses to talk to it.
//
// Wire format (decided in DESIGN.md's Open Question log, since the
// distilled spec leaves this unspecified): newline-delimited JSON objects,
// one request or response per line, each carrying a request_id and a
// version pinned to 1. Grounded on
// other_examples/36a17a2c_GandalftheGUI-grove's daemon.go, which frames its
// own protocol the same way (bufio.Scanner line-at-a-time decode, marshal +
// trailing newline on respond).
package ptyd

import "time"

// ProtocolVersion is the wire format version every request/response
// carries.
const ProtocolVersion = 1

// RequestType identifies the kind of daemon RPC.
type RequestType string

const (
	ReqPing       RequestType = "ping"
	ReqCreate     RequestType = "create"
	ReqDestroy    RequestType = "destroy"
	ReqInfo       RequestType = "info"
	ReqScrollback RequestType = "scrollback"
	ReqList       RequestType = "list"
)

// SessionStatus is the lifecycle status of a daemon-owned PTY session.
type SessionStatus string

const (
	StatusCreating SessionStatus = "creating"
	StatusRunning  SessionStatus = "running"
	StatusStopped  SessionStatus = "stopped"
)

// Request is one newline-framed request sent to the daemon.
type Request struct {
	Version   int         `json:"version"`
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`

	// Create
	SessionID       string            `json:"session_id,omitempty"`
	WorkingDirectory string           `json:"working_directory,omitempty"`
	Command         string            `json:"command,omitempty"`
	Args            []string          `json:"args,omitempty"`
	EnvVars         map[string]string `json:"env_vars,omitempty"`
	Rows            int               `json:"rows,omitempty"`
	Cols            int               `json:"cols,omitempty"`
	UseLoginShell   bool              `json:"use_login_shell,omitempty"`

	// Destroy
	DaemonSessionID string `json:"daemon_session_id,omitempty"`
	Force           bool   `json:"force,omitempty"`

	// Info / Scrollback reuse DaemonSessionID above.
}

// Response is one newline-framed response returned by the daemon. It
// echoes RequestID.
type Response struct {
	Version   int    `json:"version"`
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`

	DaemonSessionID string        `json:"daemon_session_id,omitempty"`
	Status          SessionStatus `json:"status,omitempty"`
	ExitCode        *int          `json:"exit_code,omitempty"`
	Scrollback      []byte        `json:"scrollback,omitempty"`
	Sessions        []SessionInfo `json:"sessions,omitempty"`
}

// SessionInfo is a listing entry returned by ReqList.
type SessionInfo struct {
	DaemonSessionID string        `json:"daemon_session_id"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}
