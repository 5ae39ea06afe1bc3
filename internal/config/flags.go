package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps config keys to their flag names where the two differ.
var flagKeys = map[string]string{
	"log.file":   "log-file",
	"log.format": "log-format",
}

var boundKeys = []string{
	"idle", "interval", "jitter", "verbose", "duration", "until", "tui", "seed",
	"log.file", "log.format",
}

// RegisterFlags defines the run flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("idle", DefaultIdleSeconds, "Seconds without input before the mouse is moved")
	fs.Int("interval", DefaultIntervalSeconds, "Seconds between idle checks")
	fs.Int("jitter", DefaultJitter, "Maximum random pixel offset per step")
	fs.BoolP("verbose", "V", false, "Enable debug logging")
	fs.StringP("duration", "d", "", "Stop after this long (e.g., \"2h30m\" or \"150\" minutes)")
	fs.StringP("until", "u", "", "Stop at this clock time (e.g., \"22:00\" or \"10:00PM\")")
	fs.Bool("tui", false, "Show a status dashboard instead of plain logs")
	fs.Int64("seed", 0, "Random seed for reproducible movement (0 picks one from the clock)")
	fs.String("log-file", "", "Also write JSON logs to this rotated file")
	fs.String("log-format", "console", "Console log format: console or json")
}

// BindFlags makes flags set on the command line take precedence over file and
// environment values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range boundKeys {
		name := key
		if n, ok := flagKeys[key]; ok {
			name = n
		}
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag --%s is not registered", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}
