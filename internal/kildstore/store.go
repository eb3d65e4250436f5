package kildstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrSessionNotFound is returned when a lookup by id or branch fails.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotAnObject is returned by patch operations when the on-disk JSON is
// not a JSON object.
var ErrNotAnObject = errors.New("session file is not a JSON object")

const (
	sessionFileName = "kild.json"
	statusFileName  = "status"
	prFileName      = "pr"
)

// EnsureSessionsDirectory creates the sessions directory if it does not
// already exist.
func EnsureSessionsDirectory(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SaveSession writes session as dir/<safe_id>/kild.json via temp-file +
// rename, then updates the branch index in the same call.
func SaveSession(dir string, session *Session) error {
	if err := EnsureSessionsDirectory(dir); err != nil {
		return fmt.Errorf("ensuring sessions directory: %w", err)
	}
	safeID := strings.ReplaceAll(session.ID, "/", "_")
	sessionDir := filepath.Join(dir, safeID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	path := filepath.Join(sessionDir, sessionFileName)
	if err := atomicWriteJSON(path, session, true, 0o600); err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	if err := updateBranchIndex(dir, session.Branch, session.ID); err != nil {
		log.Printf("kildstore: updating branch index for %s: %v", session.ID, err)
	}
	return nil
}

// LoadSessions reads every session under dir, auto-migrating any legacy
// flat-file entries it encounters. Entries whose JSON cannot be parsed are
// skipped and counted rather than failing the whole load.
func LoadSessions(dir string) ([]*Session, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading sessions directory: %w", err)
	}

	var sessions []*Session
	skipped := 0
	seen := make(map[string]bool)

	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			safeID := name
			seen[safeID] = true
			s, err := loadSessionFile(filepath.Join(dir, safeID, sessionFileName))
			if err != nil {
				skipped++
				continue
			}
			sessions = append(sessions, s)
		case strings.HasSuffix(name, ".json") && name != "branch_index.json":
			safeID := strings.TrimSuffix(name, ".json")
			if seen[safeID] {
				continue
			}
			if err := MigrateSessionIfNeeded(dir, safeID); err != nil {
				skipped++
				continue
			}
			seen[safeID] = true
			s, err := loadSessionFile(filepath.Join(dir, safeID, sessionFileName))
			if err != nil {
				skipped++
				continue
			}
			sessions = append(sessions, s)
		}
	}

	return sessions, skipped, nil
}

func loadSessionFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSessionByBranch consults the branch index first; on miss it falls
// back to a full directory scan and repairs the index with whatever it
// finds.
func FindSessionByBranch(dir, branch string) (*Session, error) {
	index, _ := LoadBranchIndex(dir)
	if sessionID, ok := index[branch]; ok {
		safeID := strings.ReplaceAll(sessionID, "/", "_")
		s, err := loadSessionFile(filepath.Join(dir, safeID, sessionFileName))
		if err == nil {
			return s, nil
		}
		// Stale index entry; fall through to a full scan.
	}

	sessions, _, err := LoadSessions(dir)
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.Branch == branch {
			if err := updateBranchIndex(dir, s.Branch, s.ID); err != nil {
				log.Printf("kildstore: repairing branch index for %s: %v", s.ID, err)
			}
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// RemoveSession deletes the entire <safe_id>/ directory for a session and
// removes its branch index entry.
func RemoveSession(dir, sessionID, branch string) error {
	safeID := strings.ReplaceAll(sessionID, "/", "_")
	sessionDir := filepath.Join(dir, safeID)

	residual, err := os.ReadDir(sessionDir)
	if err == nil {
		known := map[string]bool{sessionFileName: true, statusFileName: true, prFileName: true}
		for _, e := range residual {
			if !known[e.Name()] {
				log.Printf("kildstore: unexpected residual file %s in %s", e.Name(), sessionDir)
			}
		}
	}

	if err := os.RemoveAll(sessionDir); err != nil {
		return fmt.Errorf("removing session directory %s: %w", sessionDir, err)
	}
	if err := removeBranchIndexEntry(dir, branch); err != nil {
		log.Printf("kildstore: removing branch index entry for %s: %v", branch, err)
	}
	return nil
}
