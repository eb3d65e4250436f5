package ptyd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/vt"
	"github.com/creack/pty"
)

// maxLogBytes bounds the rolling in-memory copy of raw PTY output kept per
// instance, mirroring the daemon pack's own per-instance cap.
const maxLogBytes = 1 << 20

// scrollbackLines is how many trailing rendered lines read_scrollback
// returns.
const scrollbackLines = 20

// instance owns one daemon-side PTY: the child process, its master fd, and
// a terminal emulator that turns the raw byte stream into renderable
// screen lines for scrollback reads.
//
// Grounded on other_examples' grove/catherdd daemon's Instance (PTY
// ownership, rolling logBuf, reader goroutine, destroy-by-process-group)
// combined with the vt.SafeEmulator usage from
// johnfelixespinosa-agent-tui/pty.go (Write/Render/Resize/Close).
type instance struct {
	id               string
	workingDirectory string
	command          string
	args             []string
	createdAt        time.Time

	mu       sync.Mutex
	status   SessionStatus
	pid      int
	ptm      *os.File
	emulator *vt.SafeEmulator
	logBuf   []byte
	exitCode *int
	waiters  []chan struct{}
}

func newInstance(id, workingDirectory, command string, args []string, rows, cols int) *instance {
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}
	return &instance{
		id:               id,
		workingDirectory: workingDirectory,
		command:          command,
		args:             args,
		createdAt:        time.Now(),
		status:           StatusCreating,
		emulator:         vt.NewSafeEmulator(cols, rows),
	}
}

// start allocates the PTY and spawns the child, then launches the
// background reader. The child runs in its own session (pty.StartWithSize
// sets Setsid), so destroy can kill the whole process group.
func (inst *instance) start(envVars map[string]string, rows, cols int) error {
	cmd := exec.Command(inst.command, inst.args...)
	cmd.Dir = inst.workingDirectory
	env := append(os.Environ(), "TERM=xterm-256color")
	for k, v := range envVars {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = env

	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fmt.Errorf("pty.StartWithSize: %w", err)
	}

	inst.mu.Lock()
	inst.ptm = ptm
	inst.pid = cmd.Process.Pid
	inst.status = StatusRunning
	inst.mu.Unlock()

	go inst.readLoop(cmd)
	return nil
}

func (inst *instance) readLoop(cmd *exec.Cmd) {
	buf := make([]byte, 4096)
	for {
		n, err := inst.ptm.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			inst.mu.Lock()
			inst.logBuf = append(inst.logBuf, chunk...)
			if len(inst.logBuf) > maxLogBytes {
				inst.logBuf = inst.logBuf[len(inst.logBuf)-maxLogBytes:]
			}
			inst.emulator.Write(chunk)
			inst.mu.Unlock()
		}
		if err != nil {
			break
		}
	}

	waitErr := cmd.Wait()

	inst.mu.Lock()
	inst.ptm.Close()
	inst.ptm = nil
	inst.status = StatusStopped
	code := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			code = -1
		}
	}
	inst.exitCode = &code
	waiters := inst.waiters
	inst.waiters = nil
	inst.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// waitStopped blocks until the instance transitions to StatusStopped or the
// timeout elapses, returning whether it stopped in time. Nothing in the
// package calls it; CheckEarlyExit polls Info over the socket instead.
func (inst *instance) waitStopped(timeout time.Duration) bool {
	inst.mu.Lock()
	if inst.status == StatusStopped {
		inst.mu.Unlock()
		return true
	}
	ch := make(chan struct{})
	inst.waiters = append(inst.waiters, ch)
	inst.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (inst *instance) info() SessionInfo {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return SessionInfo{DaemonSessionID: inst.id, Status: inst.status, CreatedAt: inst.createdAt}
}

func (inst *instance) snapshotExitCode() *int {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.exitCode
}

// scrollback renders the emulator's current screen and returns the
// trailing scrollbackLines lines, clipped per the daemon protocol's
// "read_scrollback, clipped to ~20 lines" contract.
func (inst *instance) scrollback() []byte {
	inst.mu.Lock()
	rendered := inst.emulator.Render()
	inst.mu.Unlock()

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if len(lines) > scrollbackLines {
		lines = lines[len(lines)-scrollbackLines:]
	}
	return []byte(strings.Join(lines, "\n"))
}

// destroy terminates the child's whole process group and releases the
// emulator. Safe to call on an already-stopped instance.
func (inst *instance) destroy() {
	inst.mu.Lock()
	pid := inst.pid
	ptm := inst.ptm
	emulator := inst.emulator
	inst.mu.Unlock()

	if pid > 0 {
		pgid, err := syscall.Getpgid(pid)
		if err == nil && pgid > 0 {
			syscall.Kill(-pgid, syscall.SIGKILL)
		} else {
			syscall.Kill(pid, syscall.SIGKILL)
		}
	}
	if ptm != nil {
		ptm.Close()
	}
	if emulator != nil {
		emulator.Close()
	}
}
