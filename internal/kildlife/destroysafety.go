package kildlife

import (
	"fmt"

	"github.com/kildhq/kild/internal/forgebackend"
	"github.com/kildhq/kild/internal/gitops"
)

// PrCheckResult is the forge-side half of a DestroySafety verdict.
type PrCheckResult string

const (
	PrCheckExists      PrCheckResult = "exists"
	PrCheckNotFound    PrCheckResult = "not_found"
	PrCheckUnavailable PrCheckResult = "unavailable"
)

// DestroySafety is a read-only verdict produced before a destructive
// worktree removal.
type DestroySafety struct {
	GitStatus gitops.WorktreeStatus
	PrStatus  PrCheckResult
}

// ShouldBlock reports whether Destroy must refuse without --force.
func (d DestroySafety) ShouldBlock() bool {
	return d.GitStatus.HasUncommittedChanges
}

// HasWarnings reports whether any non-fatal caution applies.
func (d DestroySafety) HasWarnings() bool {
	return d.GitStatus.HasUncommittedChanges ||
		d.GitStatus.UnpushedCommitCount > 0 ||
		!d.GitStatus.HasRemoteBranch ||
		d.PrStatus == PrCheckNotFound ||
		d.GitStatus.StatusCheckFailed
}

// WarningMessages renders HasWarnings' conditions in a fixed severity
// order: status check failed, uncommitted (with breakdown), unpushed,
// never pushed (suppressed if unpushed or failed), no PR found.
func (d DestroySafety) WarningMessages() []string {
	var msgs []string

	if d.GitStatus.StatusCheckFailed {
		msgs = append(msgs, "could not determine working tree status; treating as unsafe")
	}

	if d.GitStatus.HasUncommittedChanges {
		det := d.GitStatus.UncommittedDetails
		msgs = append(msgs, fmt.Sprintf(
			"uncommitted changes (staged=%d, modified=%d, untracked=%d)",
			det.Staged, det.Modified, det.Untracked))
	}

	if d.GitStatus.UnpushedCommitCount > 0 {
		if d.GitStatus.UnpushedCommitCount == 1 {
			msgs = append(msgs, "1 unpushed commit")
		} else {
			msgs = append(msgs, fmt.Sprintf("%d unpushed commits", d.GitStatus.UnpushedCommitCount))
		}
	} else if !d.GitStatus.HasRemoteBranch && !d.GitStatus.StatusCheckFailed {
		msgs = append(msgs, "branch has never been pushed")
	}

	if d.PrStatus == PrCheckNotFound {
		msgs = append(msgs, "no pull request found for this branch")
	}

	return msgs
}

// DestroySafety computes the destroy-safety verdict for branch's session,
// for a CLI caller that wants to show warnings before invoking Destroy.
func (s *Store) DestroySafety(branch string) (DestroySafety, error) {
	session, err := s.findSession(branch)
	if err != nil {
		return DestroySafety{}, err
	}
	return s.getDestroySafety(session.WorktreePath, session.Branch), nil
}

// getDestroySafety implements §4.6.7: inspects git status, then the forge
// (skipped as Unavailable when the repo has no configured remote).
func (s *Store) getDestroySafety(worktree, branch string) DestroySafety {
	status := gitops.GetWorktreeStatus(worktree)

	prStatus := PrCheckUnavailable
	if gitops.HasRemoteConfigured(worktree) && s.Forge != nil {
		state, err := s.Forge.CheckPrExists(worktree, branch)
		if err == nil {
			switch state {
			case forgebackend.PrExists:
				prStatus = PrCheckExists
			case forgebackend.PrNotFound:
				prStatus = PrCheckNotFound
			}
		}
	}

	return DestroySafety{GitStatus: status, PrStatus: prStatus}
}
