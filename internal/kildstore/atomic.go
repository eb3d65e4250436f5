package kildstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWriteFile writes data to path via a temp file in the same
// directory followed by rename, so readers never observe a partial write.
// On rename failure the temp file is always removed.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file into place: %w", err)
	}
	return nil
}

// atomicWriteJSON marshals v and writes it atomically. compact controls
// whether the output is a single compact line (kild.json) or pretty-printed
// (sidecar files).
func atomicWriteJSON(path string, v interface{}, compact bool, perm os.FileMode) error {
	var data []byte
	var err error
	if compact {
		data, err = marshalCompact(v)
	} else {
		data, err = marshalPretty(v)
	}
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return atomicWriteFile(path, data, perm)
}
