//go:build !windows

// Package integration exercises the keeper, the CLI and the desktop backend
// together.
package integration

import (
	"os"
	"syscall"
)

// shutdownSignals are the signals the mousemover binary stops on.
func shutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}
