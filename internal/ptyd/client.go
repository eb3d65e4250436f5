package ptyd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// ErrDaemonUnreachable is wrapped by every failure to reach or hear from
// the daemon. EnsureRunning's wrapped message tells "the socket never
// appeared" apart from a socket that exists but did not answer in time.
var ErrDaemonUnreachable = errors.New("ptyd: daemon unreachable")

// Client is the thin RPC client every daemon-backed kild consumes.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a Client bound to socketPath.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}
}

func (c *Client) call(req Request) (*Response, error) {
	req.Version = ProtocolVersion
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
		}
		return nil, fmt.Errorf("%w: empty response", ErrDaemonUnreachable)
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decoding daemon response: %w", err)
	}
	if resp.RequestID != req.RequestID {
		return nil, fmt.Errorf("daemon response request_id mismatch: got %q want %q", resp.RequestID, req.RequestID)
	}
	if !resp.OK {
		return nil, fmt.Errorf("daemon: %s", resp.Error)
	}
	return &resp, nil
}

// Ping reports whether the daemon is listening and answering.
func (c *Client) Ping() bool {
	_, err := c.call(Request{Type: ReqPing})
	return err == nil
}

// CreateOptions parameterizes a daemon-backed PTY session.
type CreateOptions struct {
	SessionID        string
	WorkingDirectory string
	Command          string
	Args             []string
	EnvVars          map[string]string
	Rows             int
	Cols             int
	UseLoginShell    bool
}

// Create asks the daemon to spawn a new PTY session, returning its
// daemon-assigned session id.
func (c *Client) Create(opts CreateOptions) (string, error) {
	resp, err := c.call(Request{
		Type:             ReqCreate,
		SessionID:        opts.SessionID,
		WorkingDirectory: opts.WorkingDirectory,
		Command:          opts.Command,
		Args:             opts.Args,
		EnvVars:          opts.EnvVars,
		Rows:             opts.Rows,
		Cols:             opts.Cols,
		UseLoginShell:    opts.UseLoginShell,
	})
	if err != nil {
		return "", err
	}
	return resp.DaemonSessionID, nil
}

// Info returns the current status and, once stopped, exit code of a
// daemon session.
func (c *Client) Info(daemonSessionID string) (SessionStatus, *int, error) {
	resp, err := c.call(Request{Type: ReqInfo, DaemonSessionID: daemonSessionID})
	if err != nil {
		return "", nil, err
	}
	return resp.Status, resp.ExitCode, nil
}

// Scrollback returns the trailing rendered terminal lines for a session,
// clipped to ~20 lines.
func (c *Client) Scrollback(daemonSessionID string) ([]byte, error) {
	resp, err := c.call(Request{Type: ReqScrollback, DaemonSessionID: daemonSessionID})
	if err != nil {
		return nil, err
	}
	return resp.Scrollback, nil
}

// Destroy terminates a daemon session and frees its resources.
func (c *Client) Destroy(daemonSessionID string, force bool) error {
	_, err := c.call(Request{Type: ReqDestroy, DaemonSessionID: daemonSessionID, Force: force})
	return err
}

// List returns every session currently tracked by the daemon. Used to
// sweep orphaned UI shells (ids with the "<session_id>_ui_shell_" prefix).
func (c *Client) List() ([]SessionInfo, error) {
	resp, err := c.call(Request{Type: ReqList})
	if err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// EnsureRunningConfig controls how EnsureRunning spawns the daemon.
type EnsureRunningConfig struct {
	// BinaryPath is the executable to spawn in daemon mode (os.Args[0] by
	// convention).
	BinaryPath string
	// DaemonArgs are the arguments that put BinaryPath into daemon-serve
	// mode (e.g. []string{"daemon", "start"}).
	DaemonArgs []string
	// Disabled short-circuits EnsureRunning to ErrDaemonUnreachable without
	// attempting to spawn, for environments where the daemon is turned off.
	Disabled bool
}

// EnsureRunning pings the daemon; if unreachable, it spawns BinaryPath
// detached and polls every 100ms up to 5s for the socket to come up and
// start answering. It distinguishes a socket that never appears from one
// that exists but is unresponsive via ErrDaemonUnreachable's wrapped
// message.
func (c *Client) EnsureRunning(cfg EnsureRunningConfig) error {
	if c.Ping() {
		return nil
	}
	if cfg.Disabled {
		return fmt.Errorf("%w: daemon disabled", ErrDaemonUnreachable)
	}

	cmd := exec.Command(cfg.BinaryPath, cfg.DaemonArgs...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawning ptyd: %w", err)
	}
	_ = cmd.Process.Release()

	deadline := time.Now().Add(5 * time.Second)
	interval := 100 * time.Millisecond
	sawSocket := false
	for time.Now().Before(deadline) {
		if _, err := os.Stat(c.socketPath); err == nil {
			sawSocket = true
			if c.Ping() {
				return nil
			}
		}
		time.Sleep(interval)
	}

	if !sawSocket {
		return fmt.Errorf("%w: socket never appeared at %s", ErrDaemonUnreachable, c.socketPath)
	}
	return fmt.Errorf("%w: socket exists but did not respond within 5s", ErrDaemonUnreachable)
}
