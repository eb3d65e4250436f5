package terminalbackend

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
)

// alacrittyBackend spawns Alacritty on Linux with a unique window title,
// passed via --title so it can be found again by pkill -f at close time.
// window management beyond spawn/close (focus, hide, liveness) needs a
// compositor IPC such as Hyprland's; this backend doesn't depend on one, so
// it only implements the subset every Alacritty install supports.
type alacrittyBackend struct{}

func (b *alacrittyBackend) Kind() Kind { return KindAlacritty }

func (b *alacrittyBackend) available() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	_, err := exec.LookPath("alacritty")
	return err == nil
}

func (b *alacrittyBackend) Spawn(dir string, command []string, env map[string]string) (string, error) {
	if runtime.GOOS != "linux" {
		return "", fmt.Errorf("alacritty terminal backend is only available on Linux")
	}
	title := "kild-" + uuid.NewString()[:8]
	cdCommand := buildCdCommand(dir, command)

	// stdin/stdout/stderr are left unset, so exec connects them to
	// /dev/null and the detached window doesn't compete for kild's own
	// terminal file descriptors.
	cmd := exec.Command("alacritty", "--title", title, "-e", "sh", "-c", cdCommand)
	cmd.SysProcAttr = detachedSysProcAttr()
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("spawning Alacritty window: %w", err)
	}
	_ = cmd.Process.Release()
	return title, nil
}

func (b *alacrittyBackend) CloseWindow(windowID string) error {
	if windowID == "" || runtime.GOOS != "linux" {
		return nil
	}
	_ = exec.Command("pkill", "-f", windowID).Run()
	return nil
}
