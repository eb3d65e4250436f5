package kildlife

import (
	"github.com/kildhq/kild/internal/forgebackend"
	"github.com/kildhq/kild/internal/gitops"
	"github.com/kildhq/kild/internal/pathid"
)

// CompleteResult classifies how Complete handled the remote branch once
// the PR was confirmed merged.
type CompleteResult string

const (
	CompleteRemoteDeleted      CompleteResult = "remote_deleted"
	CompleteRemoteDeleteFailed CompleteResult = "remote_delete_failed"
	CompletePrNotMerged        CompleteResult = "pr_not_merged"
	CompletePrCheckUnavailable CompleteResult = "pr_check_unavailable"
)

// complete is a Destroy variant gated on forge PR state rather than (only)
// uncommitted changes, and which always blocks on uncommitted changes
// regardless of --force.
func (s *Store) complete(cmd Command) (Event, error) {
	branch, err := pathid.ValidateBranchName(cmd.Branch)
	if err != nil {
		return Event{}, &Error{Kind: ErrInvalidInput, Message: err.Error(), Cause: err}
	}

	session, err := s.findSession(branch)
	if err != nil {
		return Event{}, err
	}

	if !gitops.HasRemoteConfigured(session.WorktreePath) || s.Forge == nil {
		return Event{}, &Error{Kind: ErrNoPrFound, Branch: branch}
	}

	prState, err := s.Forge.CheckPrExists(session.WorktreePath, session.Branch)
	if err != nil {
		prState = forgebackend.PrUnavailable
	}
	if prState == forgebackend.PrNotFound {
		return Event{}, &Error{Kind: ErrNoPrFound, Branch: branch}
	}

	result := CompletePrNotMerged
	if prState == forgebackend.PrUnavailable {
		result = CompletePrCheckUnavailable
	} else if merged, err := s.Forge.IsPrMerged(session.WorktreePath, session.Branch); err == nil && merged {
		if delErr := gitops.DeleteRemoteBranch(session.WorktreePath, "origin", session.Branch); delErr != nil {
			result = CompleteRemoteDeleteFailed
		} else {
			result = CompleteRemoteDeleted
		}
	}

	// Complete always blocks on uncommitted changes, with no --force
	// bypass, regardless of cmd.Force.
	status := gitops.GetWorktreeStatus(session.WorktreePath)
	if status.HasUncommittedChanges {
		return Event{}, &Error{Kind: ErrUncommittedChanges, Branch: branch}
	}

	destroyEvent, err := s.destroy(DestroyKild(branch, false))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: EventKildCompleted, Branch: branch, SessionID: destroyEvent.SessionID, Detail: string(result)}, nil
}
