package kildstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PatchSessionJSONField reads the session's kild.json as an untyped JSON
// object, sets key to value (preserving every other key byte-for-byte),
// and writes it back atomically. Fails if the file is not a JSON object.
func PatchSessionJSONField(dir, sessionID, key string, value interface{}) error {
	return PatchSessionJSONFields(dir, sessionID, map[string]interface{}{key: value})
}

// PatchSessionJSONFields is the multi-key form of PatchSessionJSONField.
func PatchSessionJSONFields(dir, sessionID string, fields map[string]interface{}) error {
	safeID := strings.ReplaceAll(sessionID, "/", "_")
	path := filepath.Join(dir, safeID, sessionFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading session file: %w", err)
	}

	obj, err := rawObject(data)
	if err != nil {
		return ErrNotAnObject
	}

	for key, value := range fields {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encoding patch value for %s: %w", key, err)
		}
		obj[key] = encoded
	}

	out, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encoding patched session: %w", err)
	}
	out = append(out, '\n')

	return atomicWriteFile(path, out, 0o600)
}
