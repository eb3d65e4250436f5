package config

import (
	"fmt"
	"os"
)

// AgentModeKind discriminates the AgentMode sum type.
type AgentModeKind int

const (
	DefaultAgent AgentModeKind = iota
	NamedAgent
	BareShell
)

// AgentMode selects which agent command a kild runs: the configured
// default, a specific named agent override, or a bare shell.
type AgentMode struct {
	Kind AgentModeKind
	Name string // only meaningful when Kind == NamedAgent
}

// Agent constructs a NamedAgent mode.
func Agent(name string) AgentMode { return AgentMode{Kind: NamedAgent, Name: name} }

// builtinDefaults are the fallback commands used when neither an
// agent-specific nor a global [agent] override applies. Kept minimal and
// explicit rather than reflection-derived.
var builtinDefaults = map[string]AgentOverride{
	"claude":   {Command: "claude"},
	"codex":    {Command: "codex"},
	"opencode": {Command: "opencode"},
	"kiro":     {Command: "kiro"},
}

// defaultAgentName is which builtin AgentMode.DefaultAgent resolves to
// when the config carries no global [agent] override either.
const defaultAgentName = "claude"

// ResolveAgentCommand runs the agent-resolution chain specified in §4.6:
// agent-specific [agents.<name>] override → global [agent] override →
// built-in default keyed by name → error "No command found".
func ResolveAgentCommand(cfg *Config, mode AgentMode) (command string, args []string, err error) {
	switch mode.Kind {
	case BareShell:
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		return shell, nil, nil

	case NamedAgent:
		return resolveNamed(cfg, mode.Name)

	default: // DefaultAgent
		return resolveNamed(cfg, defaultAgentName)
	}
}

func resolveNamed(cfg *Config, name string) (string, []string, error) {
	if cfg != nil {
		if override, ok := cfg.Agents[name]; ok && override.Command != "" {
			return override.Command, override.Args, nil
		}
		if cfg.Agent != nil && cfg.Agent.Command != "" {
			return cfg.Agent.Command, cfg.Agent.Args, nil
		}
	}
	if builtin, ok := builtinDefaults[name]; ok {
		return builtin.Command, builtin.Args, nil
	}
	return "", nil, fmt.Errorf("no command found for agent %q", name)
}
