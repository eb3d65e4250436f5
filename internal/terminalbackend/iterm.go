package terminalbackend

import "fmt"

// itermSpawnScript launches or reuses an iTerm2 window and returns its window
// id. Cold start (iTerm not yet running): `tell application "iTerm"` itself
// launches the app, which creates a default window; the script polls for
// that window for up to 1s and reuses it instead of creating a second one.
// Warm start: creates a new window as normal. The running-state check has to
// happen before the `tell` block, since entering it launches iTerm and makes
// the app appear running from then on.
const itermSpawnScript = `set iTermWasRunning to application "iTerm" is running
tell application "iTerm"
	activate
	if not iTermWasRunning then
		repeat 10 times
			if (count of windows) > 0 then exit repeat
			delay 0.1
		end repeat
		set newWindow to current window
	else
		set newWindow to (create window with default profile)
	end if
	set windowId to id of newWindow
	tell current session of newWindow
		write text "%s"
	end tell
	return windowId
end tell`

const itermCloseScript = `tell application "iTerm"
	close window id %s
end tell`

const itermFocusScript = `tell application "iTerm"
	activate
	set miniaturized of window id %s to false
	select window id %s
end tell`

type itermBackend struct{}

func (b *itermBackend) Kind() Kind { return KindITerm }

func (b *itermBackend) available() bool { return appExistsMacOS("iTerm") }

func (b *itermBackend) Spawn(dir string, command []string, env map[string]string) (string, error) {
	if !isDarwin() {
		return "", fmt.Errorf("iterm terminal backend is only available on macOS")
	}
	cdCommand := buildCdCommand(dir, command)
	script := fmt.Sprintf(itermSpawnScript, applescriptEscape(cdCommand))
	windowID, err := runOsascript(script)
	if err != nil {
		return "", fmt.Errorf("spawning iTerm window: %w", err)
	}
	if windowID == "" {
		return "", fmt.Errorf("spawning iTerm window: no window id returned")
	}
	return windowID, nil
}

func (b *itermBackend) CloseWindow(windowID string) error {
	if windowID == "" || !isDarwin() {
		return nil
	}
	// Fire-and-forget: the window may already be gone if the user closed it
	// by hand, which is not an error.
	_, _ = runOsascript(fmt.Sprintf(itermCloseScript, windowID))
	return nil
}
