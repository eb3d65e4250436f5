// Package config loads kild's TOML configuration through a three-layer
// hierarchy (built-in defaults < user < project), decoding each layer with
// github.com/BurntSushi/toml the way internal/ritual decodes ritual.toml,
// and merging field-by-field so a later layer only overrides fields it
// actually sets.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CurrentVersion is the only config schema version this build understands.
const CurrentVersion = 1

// AgentOverride names the command (and its fixed leading args) used to
// launch one agent.
type AgentOverride struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Config is the fully merged configuration the engine consults.
type Config struct {
	Version int `toml:"version"`

	// RuntimeMode selects Daemon- or Terminal-backed spawning when a kild
	// does not pin one explicitly. Empty means Terminal (see
	// kildstore.RuntimeModeTerminal).
	RuntimeMode string `toml:"runtime_mode"`

	// Agent is the global per-install override, used for the default or a
	// named agent whenever no agent-specific override in Agents applies.
	Agent *AgentOverride `toml:"agent"`

	// Agents holds agent-specific overrides, keyed by agent name
	// ("claude", "codex", "opencode", "kiro", ...).
	Agents map[string]AgentOverride `toml:"agents"`

	MaxRetryAttempts int    `toml:"max_retry_attempts"`
	AutoAttach       *bool  `toml:"auto_attach"`
	TerminalBackend  string `toml:"terminal_backend"`
	ForgeBackend     string `toml:"forge_backend"`
}

// rawLayer is what TOML actually decodes into before merge: every field is
// a pointer/zero-value-means-unset so the hand-written merge below can
// tell "not present in this layer" from "explicitly set to the zero
// value".
type rawLayer struct {
	Version          *int                      `toml:"version"`
	RuntimeMode      *string                   `toml:"runtime_mode"`
	Agent            *AgentOverride            `toml:"agent"`
	Agents           map[string]AgentOverride  `toml:"agents"`
	MaxRetryAttempts *int                      `toml:"max_retry_attempts"`
	AutoAttach       *bool                     `toml:"auto_attach"`
	TerminalBackend  *string                   `toml:"terminal_backend"`
	ForgeBackend     *string                   `toml:"forge_backend"`
}

func decodeLayer(path string) (*rawLayer, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &rawLayer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var layer rawLayer
	if _, err := toml.Decode(string(data), &layer); err != nil {
		return nil, &Error{Kind: ErrInvalidType, Path: path, Cause: err}
	}
	if layer.Version != nil && *layer.Version != CurrentVersion {
		return nil, &Error{Kind: ErrInvalidVersion, Path: path, Detail: fmt.Sprintf("got version %d, want %d", *layer.Version, CurrentVersion)}
	}
	return &layer, nil
}

func mergeLayer(into *Config, layer *rawLayer) {
	if layer.Version != nil {
		into.Version = *layer.Version
	}
	if layer.RuntimeMode != nil {
		into.RuntimeMode = *layer.RuntimeMode
	}
	if layer.Agent != nil {
		into.Agent = layer.Agent
	}
	for name, override := range layer.Agents {
		if into.Agents == nil {
			into.Agents = make(map[string]AgentOverride)
		}
		into.Agents[name] = override
	}
	if layer.MaxRetryAttempts != nil {
		into.MaxRetryAttempts = *layer.MaxRetryAttempts
	}
	if layer.AutoAttach != nil {
		into.AutoAttach = layer.AutoAttach
	}
	if layer.TerminalBackend != nil {
		into.TerminalBackend = *layer.TerminalBackend
	}
	if layer.ForgeBackend != nil {
		into.ForgeBackend = *layer.ForgeBackend
	}
}

// Defaults returns the built-in base layer: defaults < user < project.
func Defaults() *Config {
	return &Config{
		Version:          CurrentVersion,
		RuntimeMode:      "terminal",
		MaxRetryAttempts: 5,
		TerminalBackend:  "generic",
		ForgeBackend:     "gh",
	}
}

// Load resolves the three-layer hierarchy: built-in defaults, then
// userConfigPath (typically ~/.config/kild/config.toml), then
// projectConfigPath (typically <project>/.kild/config.toml). Missing files
// at any layer are not an error — that layer is simply skipped.
func Load(userConfigPath, projectConfigPath string) (*Config, error) {
	cfg := Defaults()

	userLayer, err := decodeLayer(userConfigPath)
	if err != nil {
		return nil, err
	}
	mergeLayer(cfg, userLayer)

	projectLayer, err := decodeLayer(projectConfigPath)
	if err != nil {
		return nil, err
	}
	mergeLayer(cfg, projectLayer)

	return cfg, nil
}

// UserConfigPath and ProjectConfigPath compute the two overridable layers'
// conventional locations.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "kild", "config.toml"), nil
}

func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".kild", "config.toml")
}
