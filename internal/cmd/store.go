package cmd

import (
	"fmt"
	"os"

	"github.com/kildhq/kild/internal/config"
	"github.com/kildhq/kild/internal/gitops"
	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/kildpaths"
	"github.com/kildhq/kild/internal/pathid"
)

// buildStore resolves the current repository, loads the merged config, and
// constructs a kildlife.Store, the one piece of setup every lifecycle
// command needs before dispatching.
func buildStore() (*kildlife.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	repoRoot, err := gitops.EnsureInRepo(cwd)
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}

	paths, err := kildpaths.Default()
	if err != nil {
		return nil, fmt.Errorf("resolving kild home: %w", err)
	}

	userPath, err := config.UserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolving user config path: %w", err)
	}
	cfg, err := config.Load(userPath, config.ProjectConfigPath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	projectName := pathid.DeriveProjectNameFromRemote(gitops.RemoteURL(repoRoot))

	return kildlife.New(paths, cfg, repoRoot, projectName)
}
