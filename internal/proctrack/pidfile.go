package proctrack

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// GetPIDFilePath returns the per-spawn PID file path under
// <kild_dir>/pids/<key>. On legacy sessions key is the session id; on
// multi-agent sessions each spawn has its own file keyed by spawn_id.
func GetPIDFilePath(kildDir, key string) string {
	return filepath.Join(kildDir, "pids", strings.ReplaceAll(key, "/", "_"))
}

// WritePIDFile persists a process triple as a small text file:
// "<pid>\n<name>\n<start_time>\n".
func WritePIDFile(kildDir, key string, info Info) error {
	path := GetPIDFilePath(kildDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating pids directory: %w", err)
	}
	content := fmt.Sprintf("%d\n%s\n%d\n", info.PID, info.Name, info.StartTime)
	return os.WriteFile(path, []byte(content), 0o600)
}

// ReadPIDFile reads back a process triple written by WritePIDFile.
func ReadPIDFile(kildDir, key string) (*Info, error) {
	path := GetPIDFilePath(kildDir, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		return nil, fmt.Errorf("malformed pid file %s", path)
	}
	pid, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, fmt.Errorf("malformed pid in %s: %w", path, err)
	}
	start, err := strconv.ParseInt(lines[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed start_time in %s: %w", path, err)
	}
	return &Info{PID: pid, Name: lines[1], StartTime: start}, nil
}

// DeletePIDFile removes a PID file, if present.
func DeletePIDFile(kildDir, key string) error {
	err := os.Remove(GetPIDFilePath(kildDir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
