package terminalbackend

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// buildCdCommand joins a working directory and a command into a single shell
// line a terminal emulator can be told to run: `cd '<dir>' && <command>`.
func buildCdCommand(dir string, command []string) string {
	return fmt.Sprintf("cd %s && %s", shellQuote(dir), strings.Join(command, " "))
}

// shellQuote wraps s in single quotes for embedding in a sh -c argument,
// escaping any single quote it contains.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// applescriptEscape makes s safe to embed inside a double-quoted AppleScript
// string literal (used by `write text "..."` and similar).
func applescriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// runOsascript executes script via osascript -e and returns its trimmed
// stdout, which iTerm's spawn script uses to report back the new window id.
func runOsascript(script string) (string, error) {
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("osascript: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// isDarwin reports whether this process is running on macOS, the only
// platform osascript-driven backends can do anything on.
func isDarwin() bool { return runtime.GOOS == "darwin" }

// appExistsMacOS reports whether a macOS application bundle is installed, by
// asking Spotlight's metadata index for it rather than assuming a fixed
// /Applications path.
func appExistsMacOS(appName string) bool {
	if !isDarwin() {
		return false
	}
	out, err := exec.Command("mdfind", "kMDItemKind == 'Application' && kMDItemFSName == '"+appName+".app'").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}
