package terminalbackend

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// tmuxBackend opens each terminal-backed agent in its own detached tmux
// session, named after an opaque id so Destroy/Stop can find it again
// without scanning, using the session name itself as the durable handle
// for a running agent (`tmux has-session` / `tmux kill-session`).
type tmuxBackend struct{}

func (b *tmuxBackend) Kind() Kind { return KindTmux }

func (b *tmuxBackend) Spawn(dir string, command []string, env map[string]string) (string, error) {
	sessionName := "kild_" + uuid.NewString()

	args := []string{"new-session", "-d", "-s", sessionName, "-c", dir}
	if len(command) > 0 {
		args = append(args, command...)
	}

	cmd := exec.Command("tmux", args...)
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux new-session: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return sessionName, nil
}

func (b *tmuxBackend) CloseWindow(windowID string) error {
	if windowID == "" {
		return nil
	}
	if err := exec.Command("tmux", "kill-session", "-t", windowID).Run(); err != nil {
		if !b.hasSession(windowID) {
			return nil
		}
		return fmt.Errorf("tmux kill-session %s: %w", windowID, err)
	}
	return nil
}

func (b *tmuxBackend) hasSession(name string) bool {
	return exec.Command("tmux", "has-session", "-t", name).Run() == nil
}
