package kildstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// MigrateSessionIfNeeded atomically promotes a legacy flat-file session
// (<safe_id>.json, <safe_id>.status, <safe_id>.pr, all directly under dir)
// to the directory layout (<safe_id>/kild.json, <safe_id>/status,
// <safe_id>/pr). Idempotent: if the directory layout already exists this is
// a no-op. Concurrent callers are serialized by temp+rename — whichever
// caller's rename lands first wins, and the other observes the canonical
// path already present and treats its own work as a no-op.
func MigrateSessionIfNeeded(dir, safeID string) error {
	sessionDir := filepath.Join(dir, safeID)
	newSessionFile := filepath.Join(sessionDir, sessionFileName)

	if _, err := os.Stat(newSessionFile); err == nil {
		cleanupLegacyFiles(dir, safeID)
		return nil
	}

	legacyJSON := filepath.Join(dir, safeID+".json")
	data, err := os.ReadFile(legacyJSON)
	if err != nil {
		return fmt.Errorf("reading legacy session file %s: %w", legacyJSON, err)
	}

	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	// Re-validate the content is parseable before committing, so a
	// malformed legacy file doesn't get "promoted" into an unreadable
	// canonical one.
	var probe Session
	if err := probe.unmarshalLenient(data); err != nil {
		return fmt.Errorf("legacy session %s is not valid JSON: %w", safeID, err)
	}

	if err := atomicWriteFile(newSessionFile, reencodeCompact(data), 0o600); err != nil {
		// Another migrator may have just won the race.
		if _, statErr := os.Stat(newSessionFile); statErr == nil {
			cleanupLegacyFiles(dir, safeID)
			return nil
		}
		return err
	}

	if statusData, err := os.ReadFile(filepath.Join(dir, safeID+".status")); err == nil {
		_ = atomicWriteFile(filepath.Join(sessionDir, statusFileName), statusData, 0o600)
	}
	if prData, err := os.ReadFile(filepath.Join(dir, safeID+".pr")); err == nil {
		_ = atomicWriteFile(filepath.Join(sessionDir, prFileName), prData, 0o600)
	}

	cleanupLegacyFiles(dir, safeID)
	return nil
}

// cleanupLegacyFiles removes the flat-file originals (best-effort) and any
// stale .tmp siblings left behind by an interrupted migration.
func cleanupLegacyFiles(dir, safeID string) {
	os.Remove(filepath.Join(dir, safeID+".json"))
	os.Remove(filepath.Join(dir, safeID+".status"))
	os.Remove(filepath.Join(dir, safeID+".pr"))

	matches, _ := filepath.Glob(filepath.Join(dir, safeID+".json.*.tmp"))
	for _, m := range matches {
		os.Remove(m)
	}
}

// unmarshalLenient is a thin validation hook so migration can reject
// genuinely corrupt legacy files without depending on Session's full
// UnmarshalJSON semantics twice.
func (s *Session) unmarshalLenient(data []byte) error {
	return s.UnmarshalJSON(data)
}

// reencodeCompact re-serializes legacy (possibly pretty-printed) JSON bytes
// into the canonical compact single-line form.
func reencodeCompact(data []byte) []byte {
	var s Session
	if err := s.UnmarshalJSON(data); err != nil {
		// Should not happen: caller already validated. Fall back to the
		// raw bytes rather than losing data.
		return data
	}
	out, err := marshalCompact(&s)
	if err != nil {
		return data
	}
	return out
}
