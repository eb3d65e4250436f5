package kildlife

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorIsMatchesByKindOnly(t *testing.T) {
	err := &Error{Kind: ErrNotFound, Branch: "feat-x"}
	if !errors.Is(err, &Error{Kind: ErrNotFound}) {
		t.Fatalf("expected errors.Is to match on Kind alone")
	}
	if errors.Is(err, &Error{Kind: ErrAlreadyExists}) {
		t.Fatalf("expected errors.Is to reject a different Kind")
	}
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := wrapErr(ErrIO, cause)
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected errors.Is to reach the wrapped cause")
	}
}

func TestErrorMessagesIncludeKindSpecificDetail(t *testing.T) {
	code := 7
	err := &Error{Kind: ErrDaemonPtyExitedEarly, ExitCode: &code, ScrollbackTail: "panic: x"}
	msg := err.Error()
	if !strings.Contains(msg, "exit_code=7") {
		t.Fatalf("expected exit code in message, got %q", msg)
	}

	pidErr := &Error{Kind: ErrProcessKillFailed, FirstPID: 4242, Message: "no such process"}
	if !strings.Contains(pidErr.Error(), "pid 4242") {
		t.Fatalf("expected first pid in ProcessKillFailed message, got %q", pidErr.Error())
	}
}
