package forgebackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// ghBackend shells out to the `gh` CLI rather than linking a forge API SDK.
type ghBackend struct{}

type ghPrView struct {
	State string `json:"state"`
}

func (b *ghBackend) CheckPrExists(dir, branch string) (PrState, error) {
	view, err := b.view(dir, branch)
	if err != nil {
		if isGhNotFound(err) {
			return PrNotFound, nil
		}
		return PrUnavailable, nil
	}
	_ = view
	return PrExists, nil
}

func (b *ghBackend) IsPrMerged(dir, branch string) (bool, error) {
	view, err := b.view(dir, branch)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(view.State, "MERGED"), nil
}

func (b *ghBackend) view(dir, branch string) (*ghPrView, error) {
	cmd := exec.Command("gh", "pr", "view", branch, "--json", "state")
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("gh pr view %s: %w: %s", branch, err, strings.TrimSpace(stderr.String()))
	}
	var view ghPrView
	if err := json.Unmarshal(stdout.Bytes(), &view); err != nil {
		return nil, fmt.Errorf("parsing gh pr view output: %w", err)
	}
	return &view, nil
}

// isGhNotFound treats gh's "no pull requests found" and "no default remote
// repository" failures as NotFound rather than Unavailable. gh does not
// expose a distinct exit code for these, so the stderr text is matched.
func isGhNotFound(err error) bool {
	return strings.Contains(err.Error(), "no pull requests found") ||
		strings.Contains(err.Error(), "no default remote repository")
}
