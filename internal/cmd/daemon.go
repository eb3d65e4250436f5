package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kildhq/kild/internal/kildpaths"
	"github.com/kildhq/kild/internal/ptyd"
	"github.com/kildhq/kild/internal/style"
)

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: GroupServices,
	Short:   "Manage the ptyd background process",
	RunE:    requireSubcommand,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run ptyd in the foreground, serving its Unix socket",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	rootCmd.AddCommand(daemonCmd)
}

// runDaemonStart always runs in the foreground; EnsureRunning (the path that
// gets a daemon up on behalf of create/open) detaches the process itself via
// exec.Command with a Setsid SysProcAttr, so start never needs to double-fork.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	paths, err := kildpaths.Default()
	if err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(paths.DaemonDir(), 0o755); err != nil {
		return fail(err)
	}

	logFile, err := os.OpenFile(paths.DaemonLogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fail(err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	if err := os.Remove(paths.DaemonSocket()); err != nil && !os.IsNotExist(err) {
		logger.Printf("removing stale socket %s: %v", paths.DaemonSocket(), err)
	}

	style.PrintSuccess("ptyd listening on %s", filepath.Base(paths.DaemonSocket()))
	d := ptyd.New(paths.DaemonSocket(), paths.DaemonLockFile(), logger)
	if err := d.Run(); err != nil {
		return fail(err)
	}
	return nil
}
