//go:build !cgo

package desktop

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/stigoleg/mousemover/internal/platform"
	"github.com/stigoleg/mousemover/internal/platform/xdotool"
)

// newDesktop falls back to xdotool on X11 systems. There is no global hook
// without cgo, so Activity stays nil and the loop polls the pointer only.
func newDesktop(logger *zap.Logger) (platform.Desktop, error) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" && xdotool.Available() {
		logger.Info("built without cgo; using xdotool for the cursor")
		b := xdotool.New(nil)
		return platform.Desktop{Pointer: b, Screen: b}, nil
	}

	fields := []zap.Field{zap.String("goos", runtime.GOOS)}
	if runtime.GOOS == "linux" {
		fields = append(fields, zap.String("install", xdotool.InstallHint()))
	}
	logger.Error("built without cgo and xdotool is not installed; no cursor backend available", fields...)
	return platform.Desktop{}, platform.ErrUnsupported
}
