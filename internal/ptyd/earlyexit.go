package ptyd

import "time"

// earlyExitBackoff is the fixed 50/100/200ms poll schedule used to detect
// an agent command that exits almost immediately after creation.
var earlyExitBackoff = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// ExitedEarly carries the information surfaced to the caller when a
// daemon-backed PTY session exits during CheckEarlyExit's poll window.
type ExitedEarly struct {
	ExitCode       *int
	ScrollbackTail string
}

// CheckEarlyExit polls get_session_info on daemonSessionID with a fixed
// 50/100/200ms backoff. If the session has stopped by the time the backoff
// is exhausted, it best-effort reads scrollback (clipped to ~20 lines),
// destroys the daemon session, and returns the exit details. A nil return
// means the session was still running at the end of the poll window — the
// caller proceeds treating the PTY as live.
func (c *Client) CheckEarlyExit(daemonSessionID string) (*ExitedEarly, error) {
	for _, wait := range earlyExitBackoff {
		time.Sleep(wait)

		status, exitCode, err := c.Info(daemonSessionID)
		if err != nil {
			return nil, err
		}
		if status != StatusStopped {
			continue
		}

		tail, _ := c.Scrollback(daemonSessionID)
		_ = c.Destroy(daemonSessionID, true)

		return &ExitedEarly{ExitCode: exitCode, ScrollbackTail: string(tail)}, nil
	}
	return nil, nil
}
