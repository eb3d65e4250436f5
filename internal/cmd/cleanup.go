package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildlife"
	"github.com/kildhq/kild/internal/style"
)

var (
	cleanupStrategy string
	cleanupForce    bool
)

var cleanupCmd = &cobra.Command{
	Use:     "cleanup",
	GroupID: GroupLifecycle,
	Short:   "Sweep orphaned branches, worktrees, and sessions",
	Args:    cobra.NoArgs,
	RunE:    runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupStrategy, "strategy", "no-pid", "all|no-pid|stopped|older-than=N|orphans")
	cleanupCmd.Flags().BoolVar(&cleanupForce, "force", false, "bypass uncommitted-changes and live-process safety checks")
	rootCmd.AddCommand(cleanupCmd)
}

// parseCleanupStrategy translates the CLI's flat strategy string onto the
// engine's CleanupStrategy struct. "no-pid" runs the baseline scan only
// (orphan branches, orphan worktrees, stale sessions); the other names
// each additionally enable one engine-side category, except "all", which
// enables both Orphans and StoppedAll.
func parseCleanupStrategy(raw string, force bool) (kildlife.CleanupStrategy, error) {
	strat := kildlife.CleanupStrategy{Force: force}

	switch {
	case raw == "" || raw == "no-pid":
		// baseline only
	case raw == "all":
		strat.Orphans = true
		strat.StoppedAll = true
	case raw == "orphans":
		strat.Orphans = true
	case raw == "stopped":
		strat.StoppedAll = true
	case strings.HasPrefix(raw, "older-than="):
		days, err := strconv.Atoi(strings.TrimPrefix(raw, "older-than="))
		if err != nil {
			return strat, fmt.Errorf("invalid --strategy older-than value: %w", err)
		}
		strat.OlderThanDays = days
	default:
		return strat, fmt.Errorf("unknown --strategy %q", raw)
	}
	return strat, nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	store, err := buildStore()
	if err != nil {
		return fail(err)
	}

	strat, err := parseCleanupStrategy(cleanupStrategy, cleanupForce)
	if err != nil {
		return fail(err)
	}

	result, err := store.Cleanup(strat)
	if err != nil {
		return fail(err)
	}

	style.PrintSuccess("removed %d branch(es), %d worktree(s), %d session(s)",
		result.Branches, result.Worktrees, result.Sessions)
	for _, skipped := range result.SkippedWorktrees {
		style.PrintWarning("skipped %s: %s", skipped.Path, skipped.Reason)
	}
	return nil
}
