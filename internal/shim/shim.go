// Package shim tracks child daemon PTY sessions spawned inside a kild —
// e.g. split panes for a dashboard alongside the main agent pane — so
// Destroy can sweep every child session, not just the one recorded on the
// Session's AgentProcess.
//
// Layout: <kild_paths>/shim/<session_id>/panes.json, a flat map of pane
// name to daemon session id. Grounded on kildstore's atomic-write +
// untyped-patch idioms (internal/kildstore/atomic.go,
// internal/kildstore/patch.go), themselves grounded on
// internal/clan/manager.go's util.AtomicWriteJSON call site.
package shim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Registry is the set of child daemon sessions recorded for one kild
// session.
type Registry map[string]string

// Load reads the pane registry for sessionID under shimDir. A missing file
// returns an empty, non-nil Registry (not an error) — the same "absence is
// not corruption" stance kildstore takes for sidecars.
func Load(shimDir, sessionID string) (Registry, error) {
	path := panesFile(shimDir, sessionID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Registry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading shim registry: %w", err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parsing shim registry: %w", err)
	}
	if reg == nil {
		reg = Registry{}
	}
	return reg, nil
}

// Save atomically writes reg for sessionID under shimDir.
func Save(shimDir, sessionID string, reg Registry) error {
	dir := filepath.Join(shimDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating shim directory: %w", err)
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}

	path := panesFile(shimDir, sessionID)
	tmp, err := os.CreateTemp(dir, "panes-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp shim file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing shim file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing shim file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming shim file: %w", err)
	}
	return nil
}

// AddPane records daemonSessionID under name in the registry for
// sessionID, creating the registry file if absent.
func AddPane(shimDir, sessionID, name, daemonSessionID string) error {
	reg, err := Load(shimDir, sessionID)
	if err != nil {
		return err
	}
	reg[name] = daemonSessionID
	return Save(shimDir, sessionID, reg)
}

// RemoveDir removes the entire shim directory for sessionID, once every
// child session it named has been destroyed.
func RemoveDir(shimDir, sessionID string) error {
	err := os.RemoveAll(filepath.Join(shimDir, sessionID))
	if err != nil {
		return fmt.Errorf("removing shim directory: %w", err)
	}
	return nil
}

// Exists reports whether a shim registry file exists for sessionID.
func Exists(shimDir, sessionID string) bool {
	_, err := os.Stat(panesFile(shimDir, sessionID))
	return err == nil
}

func panesFile(shimDir, sessionID string) string {
	return filepath.Join(shimDir, sessionID, "panes.json")
}
