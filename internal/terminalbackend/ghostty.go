package terminalbackend

import (
	"fmt"
	"os/exec"

	"github.com/google/uuid"
)

// ghosttyBackend spawns Ghostty on macOS via `open -na`, since the ghostty
// CLI itself launches a headless process rather than a GUI window. The
// window id is a title embedded in the child shell's command line via an
// OSC 2 escape, which close_window later locates with pkill -f — Ghostty
// exposes no window-handle API of its own.
type ghosttyBackend struct{}

func (b *ghosttyBackend) Kind() Kind { return KindGhostty }

func (b *ghosttyBackend) available() bool { return appExistsMacOS("Ghostty") }

func (b *ghosttyBackend) Spawn(dir string, command []string, env map[string]string) (string, error) {
	if !isDarwin() {
		return "", fmt.Errorf("ghostty terminal backend is only available on macOS")
	}
	title := "kild-" + uuid.NewString()[:8]
	cdCommand := buildCdCommand(dir, command)
	ghosttyCommand := fmt.Sprintf("printf '\\033]2;%s\\007' && %s", title, cdCommand)

	cmd := exec.Command("open", "-na", "Ghostty.app", "--args", "-e", "sh", "-c", ghosttyCommand)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("spawning Ghostty window: %w", err)
	}
	return title, nil
}

func (b *ghosttyBackend) CloseWindow(windowID string) error {
	if windowID == "" || !isDarwin() {
		return nil
	}
	// pkill on the embedded title; a non-zero exit just means the window was
	// already closed by hand, which is not an error.
	_ = exec.Command("pkill", "-f", windowID).Run()
	return nil
}
