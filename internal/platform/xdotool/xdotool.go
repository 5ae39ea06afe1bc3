// Package xdotool drives the X11 cursor through the xdotool command. It is the
// cursor backend for builds without cgo and has no global input hook, so the
// idle loop runs on pointer polling alone.
package xdotool

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/stigoleg/mousemover/internal/platform"
)

// commandTimeout bounds a single xdotool invocation.
const commandTimeout = 2 * time.Second

// Runner executes a command and returns its trimmed combined output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Exec is the Runner backed by os/exec.
func Exec(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}

// Available reports whether xdotool is on PATH.
func Available() bool {
	_, err := exec.LookPath("xdotool")
	return err == nil
}

// Backend implements platform.Pointer and platform.Screen.
type Backend struct {
	run Runner
}

// New returns a backend using run, or Exec when run is nil.
func New(run Runner) *Backend {
	if run == nil {
		run = Exec
	}
	return &Backend{run: run}
}

func (b *Backend) xdotool(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	out, err := b.run(ctx, "xdotool", args...)
	if err != nil {
		return "", fmt.Errorf("xdotool %s: %w (output: %q)", strings.Join(args, " "), err, out)
	}
	return out, nil
}

// Position parses `xdotool getmouselocation --shell`.
func (b *Backend) Position() (platform.Point, error) {
	out, err := b.xdotool("getmouselocation", "--shell")
	if err != nil {
		return platform.Point{}, err
	}

	var p platform.Point
	var seen int
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			continue
		}
		switch key {
		case "X":
			p.X = n
			seen++
		case "Y":
			p.Y = n
			seen++
		}
	}
	if seen != 2 {
		return platform.Point{}, fmt.Errorf("unexpected getmouselocation output %q", out)
	}
	return p, nil
}

// SetPosition moves the cursor to p.
func (b *Backend) SetPosition(p platform.Point) error {
	_, err := b.xdotool("mousemove", "--sync", strconv.Itoa(p.X), strconv.Itoa(p.Y))
	return err
}

// Bounds parses `xdotool getdisplaygeometry`.
func (b *Backend) Bounds() (platform.Bounds, error) {
	out, err := b.xdotool("getdisplaygeometry")
	if err != nil {
		return platform.Bounds{}, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return platform.Bounds{}, fmt.Errorf("unexpected getdisplaygeometry output %q", out)
	}
	w, errW := strconv.Atoi(fields[0])
	h, errH := strconv.Atoi(fields[1])
	if errW != nil || errH != nil {
		return platform.Bounds{}, fmt.Errorf("unexpected getdisplaygeometry output %q", out)
	}
	bounds := platform.Bounds{Width: w, Height: h}
	if !bounds.Valid() {
		return bounds, fmt.Errorf("display geometry %v: %w", bounds, platform.ErrUnsupported)
	}
	return bounds, nil
}

// InstallHint returns the command that installs xdotool on this distribution.
func InstallHint() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "Install xdotool using your distribution's package manager"
	}
	return installHint(string(data))
}

func installHint(osRelease string) string {
	var id, idLike string
	sc := bufio.NewScanner(strings.NewReader(osRelease))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		val = strings.Trim(val, `"`)
		switch key {
		case "ID":
			id = val
		case "ID_LIKE":
			idLike = val
		}
	}

	family := id + " " + idLike
	switch {
	case strings.Contains(family, "debian"), strings.Contains(family, "ubuntu"):
		return "sudo apt update && sudo apt install xdotool"
	case strings.Contains(family, "fedora"), strings.Contains(family, "rhel"):
		return "sudo dnf install xdotool"
	case strings.Contains(family, "arch"):
		return "sudo pacman -S xdotool"
	case strings.Contains(family, "suse"):
		return "sudo zypper install xdotool"
	case strings.Contains(family, "alpine"):
		return "sudo apk add xdotool"
	default:
		return "Install xdotool using your distribution's package manager"
	}
}
