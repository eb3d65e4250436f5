package kildstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const branchIndexFileName = "branch_index.json"

// LoadBranchIndex reads the branch index cache. A missing file is not an
// error: the index is a cache, not a source of truth, and callers fall back
// to a scan.
func LoadBranchIndex(dir string) (BranchIndex, error) {
	path := filepath.Join(dir, branchIndexFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return BranchIndex{}, nil
		}
		return nil, fmt.Errorf("reading branch index: %w", err)
	}
	var idx BranchIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		// A corrupt index is treated the same as a missing one: readers
		// fall back to a scan and the next write repairs it.
		return BranchIndex{}, nil
	}
	return idx, nil
}

// updateBranchIndex sets branch -> sessionID and writes the index
// atomically.
func updateBranchIndex(dir, branch, sessionID string) error {
	idx, err := LoadBranchIndex(dir)
	if err != nil {
		return err
	}
	idx[branch] = sessionID
	return saveBranchIndex(dir, idx)
}

// removeBranchIndexEntry removes a branch's entry, if present.
func removeBranchIndexEntry(dir, branch string) error {
	idx, err := LoadBranchIndex(dir)
	if err != nil {
		return err
	}
	if _, ok := idx[branch]; !ok {
		return nil
	}
	delete(idx, branch)
	return saveBranchIndex(dir, idx)
}

func saveBranchIndex(dir string, idx BranchIndex) error {
	path := filepath.Join(dir, branchIndexFileName)
	return atomicWriteJSON(path, idx, false, 0o600)
}

// RebuildBranchIndex scans every session under dir and rewrites the index
// from scratch, repairing a stale or corrupt index. No command calls it;
// FindSessionByBranch repairs single entries on a lookup miss.
func RebuildBranchIndex(dir string) (BranchIndex, error) {
	sessions, _, err := LoadSessions(dir)
	if err != nil {
		return nil, err
	}
	idx := make(BranchIndex, len(sessions))
	for _, s := range sessions {
		idx[s.Branch] = s.ID
	}
	if err := saveBranchIndex(dir, idx); err != nil {
		return nil, err
	}
	return idx, nil
}
