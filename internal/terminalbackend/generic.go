package terminalbackend

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/google/uuid"
)

// genericBackend spawns a detached process group running the command
// directly, without any specific terminal emulator integration. It is the
// fallback used when no terminal-specific backend is configured. The
// window id is the child's pid plus a random suffix; CloseWindow does
// nothing with it.
type genericBackend struct{}

func (b *genericBackend) Kind() Kind { return KindGeneric }

func (b *genericBackend) Spawn(dir string, command []string, env map[string]string) (string, error) {
	if len(command) == 0 {
		return "", fmt.Errorf("generic terminal backend: empty command")
	}
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), envSlice(env)...)
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("spawning terminal window: %w", err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return fmt.Sprintf("%d-%s", pid, uuid.NewString()[:8]), nil
}

func (b *genericBackend) CloseWindow(windowID string) error {
	// Best-effort only: the generic backend has no durable handle beyond
	// the pid it returned, and that pid may since have been reused.
	return nil
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}
