//go:build windows

// Package integration exercises the keeper, the CLI and the desktop backend
// together.
package integration

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals the mousemover binary stops on. Windows cannot
// deliver them to a child process, so the signal tests skip there.
func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
	}
}
