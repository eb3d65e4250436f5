package kildstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

func sessionDirFor(dir, sessionID string) string {
	return filepath.Join(dir, strings.ReplaceAll(sessionID, "/", "_"))
}

// WriteAgentStatus writes the status sidecar atomically.
func WriteAgentStatus(dir, sessionID string, info AgentStatusInfo) error {
	path := filepath.Join(sessionDirFor(dir, sessionID), statusFileName)
	return atomicWriteJSON(path, info, false, 0o600)
}

// ReadAgentStatus reads the status sidecar. A missing or corrupt file
// yields (nil, nil) rather than an error — sidecars are best-effort.
func ReadAgentStatus(dir, sessionID string) (*AgentStatusInfo, error) {
	path := filepath.Join(sessionDirFor(dir, sessionID), statusFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var info AgentStatusInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, nil
	}
	return &info, nil
}

// RemoveAgentStatusFile removes the status sidecar, if present.
func RemoveAgentStatusFile(dir, sessionID string) error {
	path := filepath.Join(sessionDirFor(dir, sessionID), statusFileName)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WritePrInfo writes the pr sidecar atomically.
func WritePrInfo(dir, sessionID string, info PrInfo) error {
	path := filepath.Join(sessionDirFor(dir, sessionID), prFileName)
	return atomicWriteJSON(path, info, false, 0o600)
}

// ReadPrInfo reads the pr sidecar. A missing or corrupt file yields
// (nil, nil).
func ReadPrInfo(dir, sessionID string) (*PrInfo, error) {
	path := filepath.Join(sessionDirFor(dir, sessionID), prFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil
	}
	var info PrInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, nil
	}
	return &info, nil
}

// RemovePrInfoFile removes the pr sidecar, if present.
func RemovePrInfoFile(dir, sessionID string) error {
	path := filepath.Join(sessionDirFor(dir, sessionID), prFileName)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// RemoveAllSidecars removes both sidecar files, if present.
func RemoveAllSidecars(dir, sessionID string) {
	_ = RemoveAgentStatusFile(dir, sessionID)
	_ = RemovePrInfoFile(dir, sessionID)
}
