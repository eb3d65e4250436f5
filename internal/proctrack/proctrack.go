// Package proctrack tracks terminal-backed agent processes by a
// (pid, name, start_time) triple. start_time defeats PID reuse: a pid
// whose recorded start time no longer matches the live process's start
// time is treated as a different process entirely.
//
// This reads /proc directly rather than pulling in a process-inspection
// dependency, preferring direct os/syscall calls for a concern this thin.
package proctrack

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrProcessNotFound is returned when a targeted process no longer exists,
// or exists but its identity no longer matches the captured triple (PID
// reuse). Callers treat this as a successful no-op.
var ErrProcessNotFound = errors.New("process not found")

// Info is the (pid, name, start_time) triple captured at spawn time.
type Info struct {
	PID       int
	Name      string
	StartTime int64
}

// FindProcessByName searches running processes for one whose command name
// matches name (or, when command is non-empty, whose full command line
// contains command). Returns the first match's captured triple.
func FindProcessByName(name, command string) (*Info, error) {
	pids, err := listPIDs()
	if err != nil {
		return nil, err
	}
	for _, pid := range pids {
		comm, err := readComm(pid)
		if err != nil {
			continue
		}
		if comm != name {
			if command == "" {
				continue
			}
			cmdline, err := readCmdline(pid)
			if err != nil || !strings.Contains(cmdline, command) {
				continue
			}
		}
		start, err := readStartTime(pid)
		if err != nil {
			continue
		}
		return &Info{PID: pid, Name: comm, StartTime: start}, nil
	}
	return nil, nil
}

// GetProcessInfo refreshes the (name, start_time) metadata for pid.
func GetProcessInfo(pid int) (*Info, error) {
	comm, err := readComm(pid)
	if err != nil {
		return nil, ErrProcessNotFound
	}
	start, err := readStartTime(pid)
	if err != nil {
		return nil, ErrProcessNotFound
	}
	return &Info{PID: pid, Name: comm, StartTime: start}, nil
}

// FindProcessesInDirectory returns the pids of every running process whose
// current working directory is inside path (or is path itself). Used by
// cleanup to skip worktrees with live inhabitants.
func FindProcessesInDirectory(path string) ([]int, error) {
	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		canonical = filepath.Clean(path)
	}

	pids, err := listPIDs()
	if err != nil {
		return nil, err
	}

	var matches []int
	for _, pid := range pids {
		cwd, err := readCwd(pid)
		if err != nil {
			continue
		}
		if cwd == canonical || strings.HasPrefix(cwd, canonical+string(filepath.Separator)) {
			matches = append(matches, pid)
		}
	}
	return matches, nil
}

// KillProcess verifies the live process still matches (name, start_time)
// before signaling termination. A process that no longer exists, or whose
// identity no longer matches, yields ErrProcessNotFound — callers treat
// this as success. Any other failure is surfaced.
func KillProcess(pid int, name string, startTime int64) error {
	current, err := GetProcessInfo(pid)
	if err != nil {
		return ErrProcessNotFound
	}
	if current.Name != name || current.StartTime != startTime {
		return ErrProcessNotFound
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return ErrProcessNotFound
		}
		return fmt.Errorf("killing pid %d: %w", pid, err)
	}
	return nil
}

func listPIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("reading /proc: %w", err)
	}
	var pids []int
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}

func readComm(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readCmdline(pid int) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(string(data), "\x00", " "), nil
}

func readCwd(pid int) (string, error) {
	return os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
}

// readStartTime reads field 22 (starttime, in clock ticks since boot) of
// /proc/<pid>/stat. The value is opaque and only ever compared for
// equality against a previously captured value, so clock-tick units (not
// wall-clock time) are sufficient to defeat PID reuse.
func readStartTime(pid int) (int64, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	if !scanner.Scan() {
		return 0, fmt.Errorf("empty /proc/%d/stat", pid)
	}
	line := scanner.Text()

	// comm field is parenthesized and may itself contain spaces/parens, so
	// split on the LAST ')' before tokenizing the remaining fixed-width
	// fields.
	close := strings.LastIndex(line, ")")
	if close < 0 {
		return 0, fmt.Errorf("malformed /proc/%d/stat", pid)
	}
	rest := strings.Fields(line[close+1:])
	// rest[0] = state, rest[1] = ppid, ... starttime is field 22 overall,
	// i.e. rest[22-3] = rest[19] (fields 3..22 live in rest, 0-indexed).
	const starttimeIndex = 22 - 3
	if len(rest) <= starttimeIndex {
		return 0, fmt.Errorf("short /proc/%d/stat", pid)
	}
	return strconv.ParseInt(rest[starttimeIndex], 10, 64)
}
