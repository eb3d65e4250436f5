package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadMissingLayersReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "user.toml"), filepath.Join(dir, "project.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RuntimeMode != "terminal" {
		t.Fatalf("RuntimeMode = %q, want terminal default", cfg.RuntimeMode)
	}
	if cfg.MaxRetryAttempts != 5 {
		t.Fatalf("MaxRetryAttempts = %d, want 5", cfg.MaxRetryAttempts)
	}
}

func TestProjectLayerOverridesUserLayer(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.toml")
	projPath := filepath.Join(dir, "project.toml")

	writeFile(t, userPath, "runtime_mode = \"daemon\"\nmax_retry_attempts = 3\n")
	writeFile(t, projPath, "runtime_mode = \"terminal\"\n")

	cfg, err := Load(userPath, projPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RuntimeMode != "terminal" {
		t.Fatalf("RuntimeMode = %q, want project override terminal", cfg.RuntimeMode)
	}
	if cfg.MaxRetryAttempts != 3 {
		t.Fatalf("MaxRetryAttempts = %d, want user-set 3 (unset in project layer)", cfg.MaxRetryAttempts)
	}
}

func TestLoadRejectsWrongVersion(t *testing.T) {
	dir := t.TempDir()
	userPath := filepath.Join(dir, "user.toml")
	writeFile(t, userPath, "version = 99\n")

	_, err := Load(userPath, filepath.Join(dir, "project.toml"))
	if err == nil {
		t.Fatalf("expected error for unsupported version")
	}
	var cfgErr *Error
	if !asConfigError(err, &cfgErr) {
		t.Fatalf("expected *config.Error, got %v", err)
	}
	if cfgErr.Kind != ErrInvalidVersion {
		t.Fatalf("Kind = %v, want ErrInvalidVersion", cfgErr.Kind)
	}
}

func asConfigError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestResolveAgentCommandChain(t *testing.T) {
	cfg := Defaults()
	cfg.Agent = &AgentOverride{Command: "global-agent"}
	cfg.Agents = map[string]AgentOverride{
		"claude": {Command: "claude-custom", Args: []string{"--flag"}},
	}

	cmd, args, err := ResolveAgentCommand(cfg, Agent("claude"))
	if err != nil {
		t.Fatalf("ResolveAgentCommand: %v", err)
	}
	if cmd != "claude-custom" || len(args) != 1 || args[0] != "--flag" {
		t.Fatalf("expected agent-specific override to win, got %q %v", cmd, args)
	}

	cmd, _, err = ResolveAgentCommand(cfg, Agent("codex"))
	if err != nil {
		t.Fatalf("ResolveAgentCommand: %v", err)
	}
	if cmd != "global-agent" {
		t.Fatalf("expected global override to win for codex, got %q", cmd)
	}

	cfg2 := Defaults()
	cmd, _, err = ResolveAgentCommand(cfg2, Agent("opencode"))
	if err != nil {
		t.Fatalf("ResolveAgentCommand: %v", err)
	}
	if cmd != "opencode" {
		t.Fatalf("expected builtin default, got %q", cmd)
	}

	_, _, err = ResolveAgentCommand(cfg2, Agent("nonexistent"))
	if err == nil {
		t.Fatalf("expected error for unknown agent with no override")
	}
}

func TestResolveAgentCommandBareShell(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	cmd, _, err := ResolveAgentCommand(Defaults(), AgentMode{Kind: BareShell})
	if err != nil {
		t.Fatalf("ResolveAgentCommand: %v", err)
	}
	if cmd != "/bin/zsh" {
		t.Fatalf("cmd = %q, want /bin/zsh", cmd)
	}
}
