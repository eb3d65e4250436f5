// Package terminalbackend defines the capability interface the lifecycle
// engine uses to open an external terminal window for a terminal-backed
// agent, plus the concrete backends this repo ships: tmux, a generic
// detached process, and the macOS/Linux GUI emulators (iTerm2, Ghostty,
// Alacritty).
//
// This is deliberately a thin, closed interface rather than a dynamic
// registry: callers hold a Backend value selected once at startup
// (a fixed collaborator injected at construction), the same shape as a
// manager holding a concrete session-tracking field rather than
// discovering one at runtime.
package terminalbackend

import "fmt"

// Kind names a concrete terminal backend.
type Kind string

const (
	KindTmux      Kind = "tmux"
	KindGeneric   Kind = "generic"
	KindITerm     Kind = "iterm"
	KindGhostty   Kind = "ghostty"
	KindAlacritty Kind = "alacritty"
)

// Backend is the capability the lifecycle engine needs from a terminal
// emulator: open a window running a command, and later close it.
type Backend interface {
	// Spawn opens a new terminal window running command in dir, returning
	// an opaque window id the backend can later use to close it.
	Spawn(dir string, command []string, env map[string]string) (windowID string, err error)
	// CloseWindow closes a window previously returned by Spawn. Closing an
	// already-closed or unknown window is not an error.
	CloseWindow(windowID string) error
	// Kind reports which concrete backend this is. The spawner records it on
	// the AgentProcess (TerminalType) alongside the window id; Stop and
	// Destroy close windows through the Store's current backend.
	Kind() Kind
}

// New returns the concrete Backend for kind.
func New(kind Kind) (Backend, error) {
	switch kind {
	case KindTmux:
		return &tmuxBackend{}, nil
	case KindGeneric, "":
		return &genericBackend{}, nil
	case KindITerm:
		return &itermBackend{}, nil
	case KindGhostty:
		return &ghosttyBackend{}, nil
	case KindAlacritty:
		return &alacrittyBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown terminal backend: %q", kind)
	}
}

// Detect returns the first of the emulator-specific backends (iTerm,
// Ghostty, Alacritty, in that order) that is actually installed, or
// KindGeneric if none are.
func Detect() Kind {
	if (&itermBackend{}).available() {
		return KindITerm
	}
	if (&ghosttyBackend{}).available() {
		return KindGhostty
	}
	if (&alacrittyBackend{}).available() {
		return KindAlacritty
	}
	return KindGeneric
}
