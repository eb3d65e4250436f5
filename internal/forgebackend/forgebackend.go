// Package forgebackend defines the capability interface the lifecycle
// engine uses to check and act on a branch's pull/merge request with a
// code-forge (GitHub, GitLab, ...), plus the one concrete backend this
// repo ships: a thin wrapper around the `gh` CLI.
//
// Treated as an external collaborator: the engine only depends on the
// CheckPrExists/IsPrMerged contract, never on a specific
// forge's API client — the same shape as `internal/gitops`'s runGit one
// layer down, shelling out to a CLI tool through os/exec rather than
// vendoring an API SDK.
package forgebackend

import "fmt"

// PrState is the outcome of a PR existence check. It is separate from
// kildstore.PrState (a PR's lifecycle state: open, draft, merged, closed);
// a ForgeBackend is an external collaborator and does not import the
// persistence package.
type PrState string

const (
	PrExists     PrState = "exists"
	PrNotFound   PrState = "not_found"
	PrUnavailable PrState = "unavailable"
)

// Kind names a concrete forge backend.
type Kind string

const (
	KindGitHubCLI Kind = "gh"
)

// Backend is the capability Complete/Destroy need from a forge.
type Backend interface {
	// CheckPrExists reports whether a PR exists for branch, in any state
	// (open, merged or closed).
	CheckPrExists(dir, branch string) (PrState, error)
	// IsPrMerged reports whether the PR for branch has been merged.
	IsPrMerged(dir, branch string) (bool, error)
}

// New returns the concrete Backend for kind.
func New(kind Kind) (Backend, error) {
	switch kind {
	case KindGitHubCLI, "":
		return &ghBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown forge backend: %q", kind)
	}
}
