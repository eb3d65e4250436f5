//go:build unix

package ptyd

import "syscall"

// detachedSysProcAttr puts a spawned daemon in its own session so it
// outlives the client process that launched it.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
