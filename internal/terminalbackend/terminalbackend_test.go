package terminalbackend

import (
	"strings"
	"testing"
)

func TestNewUnknownKindErrors(t *testing.T) {
	if _, err := New(Kind("bogus")); err == nil {
		t.Fatalf("expected error for unknown backend kind")
	}
}

func TestNewDefaultsToGeneric(t *testing.T) {
	b, err := New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if b.Kind() != KindGeneric {
		t.Fatalf("Kind() = %v, want generic", b.Kind())
	}
}

func TestGenericCloseWindowIsAlwaysNil(t *testing.T) {
	b, _ := New(KindGeneric)
	if err := b.CloseWindow("anything"); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
}

func TestNewConstructsEveryEmulatorBackend(t *testing.T) {
	for _, kind := range []Kind{KindITerm, KindGhostty, KindAlacritty} {
		b, err := New(kind)
		if err != nil {
			t.Fatalf("New(%v): %v", kind, err)
		}
		if b.Kind() != kind {
			t.Fatalf("Kind() = %v, want %v", b.Kind(), kind)
		}
	}
}

func TestEmulatorCloseWindowIgnoresEmptyID(t *testing.T) {
	for _, b := range []Backend{&itermBackend{}, &ghosttyBackend{}, &alacrittyBackend{}} {
		if err := b.CloseWindow(""); err != nil {
			t.Fatalf("%v.CloseWindow(\"\"): %v", b.Kind(), err)
		}
	}
}

func TestItermSpawnScriptReusesColdStartWindow(t *testing.T) {
	if !strings.Contains(itermSpawnScript, "current window") {
		t.Fatalf("expected cold-start window reuse in spawn script")
	}
	if !strings.Contains(itermSpawnScript, "create window with default profile") {
		t.Fatalf("expected warm-start window creation in spawn script")
	}
	if !strings.Contains(itermSpawnScript, "return windowId") {
		t.Fatalf("expected spawn script to return the new window id")
	}
}

func TestBuildCdCommandQuotesDirectory(t *testing.T) {
	got := buildCdCommand("/tmp/it's a dir", []string{"echo", "hi"})
	if !strings.Contains(got, `/tmp/it'\''s a dir`) {
		t.Fatalf("buildCdCommand did not escape embedded quote: %q", got)
	}
	if !strings.Contains(got, "echo hi") {
		t.Fatalf("buildCdCommand dropped the command: %q", got)
	}
}

func TestDetectFallsBackToGenericWhenNothingInstalled(t *testing.T) {
	// On a CI/container host none of the GUI emulators are installed, so
	// Detect must degrade to the backend that always works.
	if got := Detect(); got == "" {
		t.Fatalf("Detect returned empty kind")
	}
	noneInstalled := !(&itermBackend{}).available() && !(&ghosttyBackend{}).available() && !(&alacrittyBackend{}).available()
	if got := Detect(); noneInstalled && got != KindGeneric {
		t.Fatalf("Detect() = %v with no emulator installed, want generic", got)
	}
}
