package ptyd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startTestDaemon(t *testing.T) (socketPath string, stop func()) {
	t.Helper()
	dir := t.TempDir()
	socketPath = filepath.Join(dir, "ptyd.sock")
	d := New(socketPath, filepath.Join(dir, "ptyd.lock"), nil)

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run() }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	return socketPath, func() {
		os.Remove(socketPath)
	}
}

func TestPingAndCreateAndDestroy(t *testing.T) {
	socketPath, stop := startTestDaemon(t)
	defer stop()

	c := NewClient(socketPath)
	if !c.Ping() {
		t.Fatalf("expected daemon to answer ping")
	}

	id, err := c.Create(CreateOptions{Command: "sh", Args: []string{"-c", "sleep 2"}, Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty daemon session id")
	}

	status, _, err := c.Info(id)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if status != StatusRunning {
		t.Fatalf("status = %v, want Running", status)
	}

	if err := c.Destroy(id, true); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestCreateEchoAndScrollback(t *testing.T) {
	socketPath, stop := startTestDaemon(t)
	defer stop()

	c := NewClient(socketPath)
	id, err := c.Create(CreateOptions{Command: "sh", Args: []string{"-c", "printf hello-world"}, Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer c.Destroy(id, true)

	time.Sleep(300 * time.Millisecond)

	tail, err := c.Scrollback(id)
	if err != nil {
		t.Fatalf("Scrollback: %v", err)
	}
	if len(tail) == 0 {
		t.Fatalf("expected non-empty scrollback")
	}
}

func TestCheckEarlyExitDetectsImmediateExit(t *testing.T) {
	socketPath, stop := startTestDaemon(t)
	defer stop()

	c := NewClient(socketPath)
	id, err := c.Create(CreateOptions{Command: "false", Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := c.CheckEarlyExit(id)
	if err != nil {
		t.Fatalf("CheckEarlyExit: %v", err)
	}
	if result == nil {
		t.Fatalf("expected early exit to be detected")
	}
	if result.ExitCode == nil || *result.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %v", result.ExitCode)
	}

	// The session should already be destroyed by CheckEarlyExit.
	if _, _, err := c.Info(id); err == nil {
		t.Fatalf("expected session to be destroyed after early exit detection")
	}
}

func TestCheckEarlyExitLeavesLongRunningAlone(t *testing.T) {
	socketPath, stop := startTestDaemon(t)
	defer stop()

	c := NewClient(socketPath)
	id, err := c.Create(CreateOptions{Command: "sh", Args: []string{"-c", "sleep 5"}, Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer c.Destroy(id, true)

	result, err := c.CheckEarlyExit(id)
	if err != nil {
		t.Fatalf("CheckEarlyExit: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no early exit for a long-running process, got %+v", result)
	}
}

func TestListIncludesCreatedSession(t *testing.T) {
	socketPath, stop := startTestDaemon(t)
	defer stop()

	c := NewClient(socketPath)
	id, err := c.Create(CreateOptions{Command: "sh", Args: []string{"-c", "sleep 2"}, Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer c.Destroy(id, true)

	sessions, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, s := range sessions {
		if s.DaemonSessionID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among listed sessions: %+v", id, sessions)
	}
}

func TestEnsureRunningReturnsErrorWhenDisabled(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "nope.sock"))
	err := c.EnsureRunning(EnsureRunningConfig{Disabled: true})
	if err == nil {
		t.Fatalf("expected error for disabled daemon")
	}
}
