package platform

import (
	"testing"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "wayland display set", env: map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}, want: DisplayServerWayland},
		{name: "session type wayland", env: map[string]string{"XDG_SESSION_TYPE": "wayland"}, want: DisplayServerWayland},
		{name: "x11 display", env: map[string]string{"DISPLAY": ":1"}, want: DisplayServerX11},
		{name: "session type x11", env: map[string]string{"XDG_SESSION_TYPE": "X11"}, want: DisplayServerX11},
		{name: "nothing set", env: map[string]string{}, want: DisplayServerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectDisplayServer(envOf(tt.env)); got != tt.want {
				t.Errorf("detectDisplayServer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckCapability(t *testing.T) {
	tests := []struct {
		name        string
		goos        string
		env         map[string]string
		canSimulate bool
	}{
		{name: "linux x11", goos: "linux", env: map[string]string{"DISPLAY": ":0"}, canSimulate: true},
		{name: "linux wayland", goos: "linux", env: map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, canSimulate: false},
		{name: "linux headless", goos: "linux", env: map[string]string{}, canSimulate: false},
		{name: "darwin", goos: "darwin", canSimulate: true},
		{name: "windows", goos: "windows", canSimulate: true},
		{name: "plan9", goos: "plan9", canSimulate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checkCapability(tt.goos, envOf(tt.env))
			if c.CanSimulate != tt.canSimulate {
				t.Errorf("CanSimulate = %v, want %v", c.CanSimulate, tt.canSimulate)
			}
			if !c.CanSimulate && c.ErrorMessage == "" {
				t.Error("expected an error message when simulation is unavailable")
			}
		})
	}
}

func TestBoundsClamp(t *testing.T) {
	b := Bounds{Width: 1920, Height: 1080}

	tests := []struct {
		in   Point
		want Point
	}{
		{Point{500, 500}, Point{500, 500}},
		{Point{-1, 10}, Point{0, 10}},
		{Point{1920, 1080}, Point{1919, 1079}},
		{Point{2500, -40}, Point{1919, 0}},
	}

	for _, tt := range tests {
		got := b.Clamp(tt.in)
		if got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !b.Contains(got) {
			t.Errorf("Clamp(%v) = %v lies outside %v", tt.in, got, b)
		}
	}
}

func TestBoundsValid(t *testing.T) {
	if !(Bounds{Width: 1, Height: 1}).Valid() {
		t.Error("1x1 bounds should be valid")
	}
	if (Bounds{Width: 0, Height: 10}).Valid() {
		t.Error("zero width should be invalid")
	}
}
