package kildstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestSession(id, branch string) *Session {
	return &Session{
		ID:              id,
		ProjectID:       "proj123",
		Branch:          branch,
		WorktreePath:    "/tmp/worktrees/proj/" + branch,
		Agent:           "claude",
		Status:          StatusActive,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		LastActivity:    time.Now().UTC().Truncate(time.Second),
		PortRangeStart:  3000,
		PortRangeEnd:    3009,
		PortCount:       10,
		UseMainWorktree: false,
		Agents: []AgentProcess{
			NewDaemonAgentProcess("claude", "proj123_branch_0", "claude", "daemon-sess-1"),
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession("proj123/feat-login", "feat-login")

	if err := SaveSession(dir, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	sessions, skipped, err := LoadSessions(dir)
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	got := sessions[0]
	if got.ID != s.ID || got.Branch != s.Branch || got.Status != s.Status {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, s)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Fatalf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, s.CreatedAt)
	}
	if len(got.Agents) != 1 || *got.Agents[0].DaemonSessionID != "daemon-sess-1" {
		t.Fatalf("agents mismatch: %+v", got.Agents)
	}
}

func TestNoTmpFileLeftAfterSave(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession("proj123/feat-login", "feat-login")
	if err := SaveSession(dir, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	sessionDir := filepath.Join(dir, "proj123_feat-login")
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("found leftover tmp file: %s", e.Name())
		}
	}
}

func TestFindSessionByBranchWithAndWithoutIndex(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession("proj123/feat-login", "feat-login")
	if err := SaveSession(dir, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	found, err := FindSessionByBranch(dir, "feat-login")
	if err != nil {
		t.Fatalf("FindSessionByBranch (with index): %v", err)
	}
	if found.ID != s.ID {
		t.Fatalf("got %q, want %q", found.ID, s.ID)
	}

	// Remove the index to force a full scan + repair.
	os.Remove(filepath.Join(dir, branchIndexFileName))
	found, err = FindSessionByBranch(dir, "feat-login")
	if err != nil {
		t.Fatalf("FindSessionByBranch (scan): %v", err)
	}
	if found.ID != s.ID {
		t.Fatalf("got %q, want %q", found.ID, s.ID)
	}

	if _, err := os.Stat(filepath.Join(dir, branchIndexFileName)); err != nil {
		t.Fatalf("expected branch index to be repaired: %v", err)
	}
}

func TestLegacyPascalCaseStatusAndMissingAgents(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"ID":"proj123/old","ProjectID":"proj123","Branch":"old","Status":"Active","WorktreePath":"/tmp/old","Agent":"claude"}`
	if err := os.WriteFile(filepath.Join(dir, "proj123_old.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("writing legacy file: %v", err)
	}

	sessions, skipped, err := LoadSessions(dir)
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	if sessions[0].Status != StatusActive {
		t.Fatalf("Status = %q, want %q", sessions[0].Status, StatusActive)
	}
	if sessions[0].Agents != nil && len(sessions[0].Agents) != 0 {
		t.Fatalf("expected empty/nil agents, got %+v", sessions[0].Agents)
	}

	// Legacy flat file should be gone after migration, directory layout present.
	if _, err := os.Stat(filepath.Join(dir, "proj123_old.json")); !os.IsNotExist(err) {
		t.Fatalf("expected legacy file to be removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "proj123_old", "kild.json")); err != nil {
		t.Fatalf("expected migrated kild.json: %v", err)
	}
}

func TestMigrateSessionIfNeededIdempotent(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"id":"proj123/old","project_id":"proj123","branch":"old","status":"active","worktree_path":"/tmp/old","agent":"claude"}`
	if err := os.WriteFile(filepath.Join(dir, "proj123_old.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("writing legacy file: %v", err)
	}

	if err := MigrateSessionIfNeeded(dir, "proj123_old"); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := MigrateSessionIfNeeded(dir, "proj123_old"); err != nil {
		t.Fatalf("second migrate (idempotent): %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "proj123_old", "kild.json")); err != nil {
		t.Fatalf("expected canonical file to survive double migration: %v", err)
	}
}

func TestPatchSessionJSONFieldPreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	s := newTestSession("proj123/feat-login", "feat-login")
	if err := SaveSession(dir, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// Inject an unknown key directly, simulating a newer writer.
	path := filepath.Join(dir, "proj123_feat-login", "kild.json")
	data, _ := os.ReadFile(path)
	obj, _ := rawObject(data)
	obj["future_field"] = json.RawMessage(`"keep-me"`)
	raw, _ := json.Marshal(obj)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("seeding unknown field: %v", err)
	}

	if err := PatchSessionJSONField(dir, s.ID, "note", "first"); err != nil {
		t.Fatalf("first patch: %v", err)
	}
	if err := PatchSessionJSONField(dir, s.ID, "note", "second"); err != nil {
		t.Fatalf("second patch: %v", err)
	}

	data, _ = os.ReadFile(path)
	obj, _ = rawObject(data)
	var note string
	json.Unmarshal(obj["note"], &note)
	if note != "second" {
		t.Fatalf("note = %q, want %q", note, "second")
	}
	var future string
	json.Unmarshal(obj["future_field"], &future)
	if future != "keep-me" {
		t.Fatalf("future_field = %q, want preserved %q", future, "keep-me")
	}
}

func TestAgentProcessRejectsMixedTriple(t *testing.T) {
	bad := `{"agent":"claude","command":"claude","opened_at":"2024-01-01T00:00:00Z","process_id":123}`
	var a AgentProcess
	if err := json.Unmarshal([]byte(bad), &a); err == nil {
		t.Fatalf("expected error for mixed presence triple, got none")
	}
}

func TestDestroySessionWithUseMainWorktreeLeavesNoFilesystemAssertionHere(t *testing.T) {
	// kildstore itself doesn't touch the worktree filesystem (that's
	// kildlife's job); this only asserts RemoveSession removes the
	// session directory regardless of use_main_worktree, matching the
	// division of responsibility in §4.6.6 step 8.
	dir := t.TempDir()
	s := newTestSession("proj123/main", "main")
	s.UseMainWorktree = true
	if err := SaveSession(dir, s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := RemoveSession(dir, s.ID, s.Branch); err != nil {
		t.Fatalf("RemoveSession: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "proj123_main")); !os.IsNotExist(err) {
		t.Fatalf("expected session directory removed")
	}
}
