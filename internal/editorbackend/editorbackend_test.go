package editorbackend

import (
	"os"
	"testing"
)

func TestFromEnvPrefersEDITOR(t *testing.T) {
	t.Setenv("EDITOR", "my-editor")
	t.Setenv("VISUAL", "other-editor")
	b := FromEnv().(*execBackend)
	if b.command != "my-editor" {
		t.Fatalf("command = %q, want my-editor", b.command)
	}
}

func TestFromEnvFallsBackToVi(t *testing.T) {
	os.Unsetenv("EDITOR")
	os.Unsetenv("VISUAL")
	b := FromEnv().(*execBackend)
	if b.command != "vi" {
		t.Fatalf("command = %q, want vi", b.command)
	}
}

func TestOpenWithEmptyCommandErrors(t *testing.T) {
	b := New("")
	if err := b.Open(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty editor command")
	}
}
