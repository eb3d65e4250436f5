package kildlife

import (
	"testing"

	"github.com/kildhq/kild/internal/gitops"
)

func TestDestroySafetyShouldBlockOnUncommittedChanges(t *testing.T) {
	d := DestroySafety{GitStatus: gitops.WorktreeStatus{HasUncommittedChanges: true}}
	if !d.ShouldBlock() {
		t.Fatalf("expected ShouldBlock true for uncommitted changes")
	}

	clean := DestroySafety{GitStatus: gitops.WorktreeStatus{HasUncommittedChanges: false}}
	if clean.ShouldBlock() {
		t.Fatalf("expected ShouldBlock false for a clean worktree")
	}
}

func TestDestroySafetyHasWarnings(t *testing.T) {
	cases := []struct {
		name string
		d    DestroySafety
		want bool
	}{
		{"clean, pushed, PR exists", DestroySafety{GitStatus: gitops.WorktreeStatus{HasRemoteBranch: true}, PrStatus: PrCheckExists}, false},
		{"unpushed commits", DestroySafety{GitStatus: gitops.WorktreeStatus{HasRemoteBranch: true, UnpushedCommitCount: 2}, PrStatus: PrCheckExists}, true},
		{"no remote branch", DestroySafety{GitStatus: gitops.WorktreeStatus{HasRemoteBranch: false}, PrStatus: PrCheckUnavailable}, true},
		{"no PR found", DestroySafety{GitStatus: gitops.WorktreeStatus{HasRemoteBranch: true}, PrStatus: PrCheckNotFound}, true},
		{"status check failed", DestroySafety{GitStatus: gitops.WorktreeStatus{StatusCheckFailed: true, HasUncommittedChanges: true}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.d.HasWarnings(); got != c.want {
				t.Fatalf("HasWarnings() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDestroySafetyWarningMessagesOrder(t *testing.T) {
	d := DestroySafety{
		GitStatus: gitops.WorktreeStatus{
			HasUncommittedChanges: true,
			UncommittedDetails:    gitops.UncommittedDetails{Staged: 1, Modified: 2, Untracked: 3},
			UnpushedCommitCount:   2,
			HasRemoteBranch:       true,
		},
		PrStatus: PrCheckNotFound,
	}
	msgs := d.WarningMessages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(msgs), msgs)
	}
	// order: uncommitted, unpushed, no PR found (status check ok, has remote
	// so "never pushed" is suppressed).
	if msgs[0] != "uncommitted changes (staged=1, modified=2, untracked=3)" {
		t.Fatalf("msgs[0] = %q", msgs[0])
	}
	if msgs[1] != "2 unpushed commits" {
		t.Fatalf("msgs[1] = %q", msgs[1])
	}
	if msgs[2] != "no pull request found for this branch" {
		t.Fatalf("msgs[2] = %q", msgs[2])
	}
}

func TestDestroySafetyNeverPushedSuppressedWhenUnpushedCommitsExist(t *testing.T) {
	d := DestroySafety{
		GitStatus: gitops.WorktreeStatus{UnpushedCommitCount: 1, HasRemoteBranch: false},
		PrStatus:  PrCheckUnavailable,
	}
	for _, m := range d.WarningMessages() {
		if m == "branch has never been pushed" {
			t.Fatalf("expected 'never pushed' to be suppressed when unpushed commits exist, got %v", d.WarningMessages())
		}
	}
}
