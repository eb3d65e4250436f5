package proctrack

import (
	"os"
	"testing"
)

func TestGetProcessInfoSelf(t *testing.T) {
	info, err := GetProcessInfo(os.Getpid())
	if err != nil {
		t.Fatalf("GetProcessInfo(self): %v", err)
	}
	if info.PID != os.Getpid() {
		t.Fatalf("PID = %d, want %d", info.PID, os.Getpid())
	}
	if info.Name == "" {
		t.Fatalf("expected non-empty process name")
	}
}

func TestGetProcessInfoNotFound(t *testing.T) {
	// A pid astronomically unlikely to exist.
	_, err := GetProcessInfo(1 << 30)
	if err != ErrProcessNotFound {
		t.Fatalf("expected ErrProcessNotFound, got %v", err)
	}
}

func TestKillProcessMismatchedStartTimeIsNotFound(t *testing.T) {
	info, err := GetProcessInfo(os.Getpid())
	if err != nil {
		t.Fatalf("GetProcessInfo: %v", err)
	}
	err = KillProcess(info.PID, info.Name, info.StartTime+1)
	if err != ErrProcessNotFound {
		t.Fatalf("expected ErrProcessNotFound for mismatched start_time, got %v", err)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	info := Info{PID: 4242, Name: "claude-code", StartTime: 123456}

	if err := WritePIDFile(dir, "proj_branch_0", info); err != nil {
		t.Fatalf("WritePIDFile: %v", err)
	}
	got, err := ReadPIDFile(dir, "proj_branch_0")
	if err != nil {
		t.Fatalf("ReadPIDFile: %v", err)
	}
	if *got != info {
		t.Fatalf("got %+v, want %+v", *got, info)
	}

	if err := DeletePIDFile(dir, "proj_branch_0"); err != nil {
		t.Fatalf("DeletePIDFile: %v", err)
	}
	if _, err := ReadPIDFile(dir, "proj_branch_0"); err == nil {
		t.Fatalf("expected error reading deleted pid file")
	}

	// Deleting again is a no-op.
	if err := DeletePIDFile(dir, "proj_branch_0"); err != nil {
		t.Fatalf("DeletePIDFile (already gone): %v", err)
	}
}

func TestFindProcessesInDirectoryIncludesSelf(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	pids, err := FindProcessesInDirectory(wd)
	if err != nil {
		t.Fatalf("FindProcessesInDirectory: %v", err)
	}
	found := false
	for _, p := range pids {
		if p == os.Getpid() {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected self pid among processes in %s, got %v", wd, pids)
	}
}
