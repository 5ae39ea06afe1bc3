package platform

import (
	"os"
	"runtime"
	"strings"
)

// Display server types.
const (
	DisplayServerWayland = "wayland"
	DisplayServerX11     = "x11"
	DisplayServerUnknown = "unknown"
)

// Capability describes whether cursor injection and global hooks are expected to
// work in the current session.
type Capability struct {
	// CanSimulate indicates whether cursor movement is expected to work.
	CanSimulate bool

	// DisplayServer is the detected Linux display server, empty elsewhere.
	DisplayServer string

	// ErrorMessage is a user-friendly explanation if simulation won't work.
	ErrorMessage string

	// Instructions provides steps to fix the issue.
	Instructions string
}

// DetectDisplayServer detects whether the session runs on Wayland or X11.
func DetectDisplayServer() string {
	return detectDisplayServer(os.Getenv)
}

func detectDisplayServer(getenv func(string) string) string {
	if getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if strings.EqualFold(getenv("XDG_SESSION_TYPE"), DisplayServerWayland) {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	if strings.EqualFold(getenv("XDG_SESSION_TYPE"), DisplayServerX11) {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// CheckCapability inspects the session and reports known blockers for cursor
// injection and global input hooks.
func CheckCapability() Capability {
	return checkCapability(runtime.GOOS, os.Getenv)
}

func checkCapability(goos string, getenv func(string) string) Capability {
	switch goos {
	case "linux":
		ds := detectDisplayServer(getenv)
		switch ds {
		case DisplayServerWayland:
			return Capability{
				CanSimulate:   false,
				DisplayServer: ds,
				ErrorMessage:  "Wayland sessions do not allow moving the cursor or listening to global input",
				Instructions:  "Log in with an X11 session (e.g. \"GNOME on Xorg\") or run under XWayland with DISPLAY set.",
			}
		case DisplayServerUnknown:
			return Capability{
				CanSimulate:   false,
				DisplayServer: ds,
				ErrorMessage:  "no graphical session detected",
				Instructions:  "Run mousemover from within a desktop session where DISPLAY is set.",
			}
		}
		return Capability{CanSimulate: true, DisplayServer: ds}
	case "darwin":
		return Capability{
			CanSimulate:  true,
			Instructions: "If the cursor does not move, grant Accessibility and Input Monitoring to your terminal in System Settings > Privacy & Security.",
		}
	case "windows":
		return Capability{CanSimulate: true}
	default:
		return Capability{
			CanSimulate:  false,
			ErrorMessage: "no desktop backend for " + goos,
		}
	}
}
