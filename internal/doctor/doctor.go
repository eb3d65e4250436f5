// Package doctor runs read-only consistency checks over a kild home and
// its repository, without mutating anything.
package doctor

import (
	"fmt"

	"github.com/kildhq/kild/internal/kildlife"
)

// Status is the outcome of a single Check.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is one Check's verdict.
type Result struct {
	Status  Status
	Message string
}

// Check is one independent consistency check, registered by Name/Run/
// CanFix, backed by kildlife.Cleanup in dry-run mode rather than its own
// tmux/session inspection.
type Check interface {
	Name() string
	Run(store *kildlife.Store) Result
	// CanFix reports whether running cleanup with this check's strategy
	// would remove the problems it finds.
	CanFix() bool
}

// Run executes every registered Check against store, in order.
func Run(store *kildlife.Store) []Result {
	checks := []Check{
		orphanBranchCheck{},
		orphanWorktreeCheck{},
		staleSessionCheck{},
	}
	results := make([]Result, len(checks))
	for i, c := range checks {
		results[i] = c.Run(store)
	}
	return results
}

func countResult(label string, n int) Result {
	if n == 0 {
		return Result{Status: StatusOK, Message: fmt.Sprintf("no %s found", label)}
	}
	return Result{Status: StatusWarning, Message: fmt.Sprintf("%d %s found", n, label)}
}
