// Package cli wires configuration, logging, the desktop backend and the keeper
// behind the mousemover cobra command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stigoleg/mousemover/internal/config"
	"github.com/stigoleg/mousemover/internal/keepalive"
	"github.com/stigoleg/mousemover/internal/motion"
	"github.com/stigoleg/mousemover/internal/observability"
	"github.com/stigoleg/mousemover/internal/platform"
	"github.com/stigoleg/mousemover/internal/platform/desktop"
	"github.com/stigoleg/mousemover/internal/ui"
)

// shutdownTimeout bounds the cleanup after a stop request.
const shutdownTimeout = 5 * time.Second

// App holds what the command needs from the outside world.
type App struct {
	Version string
	// NewDesktop opens the cursor backend. Defaults to desktop.New.
	NewDesktop func(logger *zap.Logger) (platform.Desktop, error)
	// Now anchors --until. Defaults to time.Now.
	Now func() time.Time
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd(app App) *cobra.Command {
	if app.NewDesktop == nil {
		app.NewDesktop = desktop.New
	}
	if app.Now == nil {
		app.Now = time.Now
	}

	var (
		cfgFile string
		cfg     *config.Config
		usedCfg string
	)

	root := &cobra.Command{
		Use:   "mousemover",
		Short: "Keep your session active by moving the mouse while you are idle",
		Long: `mousemover watches for keyboard and mouse activity. Once you have been idle
for the configured threshold it drags the cursor to a random point on screen,
then goes back to waiting. Any real input resets the idle timer.`,
		Example: `  mousemover                  # move after 30s idle, check every 5s
  mousemover --idle 120 -V    # wait two minutes, log every decision
  mousemover -d 2h30m         # stop after two and a half hours
  mousemover -u 17:30 --tui   # run until 17:30 with a status dashboard`,
		Version:       app.Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			path, err := config.ReadInConfig(v, cfgFile)
			if err != nil {
				return err
			}
			loaded, err := config.Load(v, app.Now())
			if err != nil {
				return err
			}
			cfg, usedCfg = loaded, path
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := observability.New(cfg.Log, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer observability.Sync(logger)

			if usedCfg != "" {
				logger.Debug("loaded config file", zap.String("path", usedCfg))
			}
			return app.run(cmd.Context(), cfg, logger)
		},
	}

	root.SetVersionTemplate("mousemover version {{.Version}}\n")
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./mousemover.yaml, then $XDG_CONFIG_HOME/mousemover/config.yaml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newConfigCmd(&cfg, &usedCfg), newVersionCmd(app.Version))
	return root
}

func newConfigCmd(cfg **config.Config, used *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := (*cfg).YAML()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if *used != "" {
				fmt.Fprintf(w, "# loaded from %s\n", *used)
			}
			_, err = io.WriteString(w, out)
			return err
		},
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// The version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mousemover version %s\n", version)
		},
	}
}

// run starts the keeper and blocks until ctx is done, a timed run ends or the
// dashboard quits.
func (app App) run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	capability := platform.CheckCapability()
	if !capability.CanSimulate {
		logger.Warn("cursor movement is likely unavailable in this session",
			zap.String("reason", capability.ErrorMessage),
			zap.String("fix", capability.Instructions),
			zap.String("display_server", capability.DisplayServer))
	}

	d, err := app.NewDesktop(logger)
	if err != nil {
		return fmt.Errorf("open desktop backend: %w", err)
	}

	keeper, err := keepalive.NewKeeper(keepalive.LoopConfig{
		IdleThreshold: cfg.IdleThreshold,
		PollInterval:  cfg.PollInterval,
		Jitter:        cfg.Jitter,
	}, d, keepalive.Options{
		Source: motion.NewLockedSource(cfg.Seed),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	cleanup := keepalive.NewCleanupManager(shutdownTimeout, logger)
	cleanup.RegisterFunc("keeper", func() error {
		return keeper.StopWithTimeout(shutdownTimeout)
	})

	if cfg.RunFor > 0 {
		err = keeper.StartTimed(cfg.RunFor)
	} else {
		err = keeper.StartIndefinite()
	}
	if err != nil {
		return err
	}

	logger.Info("mouse mover started, waiting for idle state",
		zap.Duration("idle_threshold", cfg.IdleThreshold),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int("jitter", cfg.Jitter),
		zap.Duration("run_for", cfg.RunFor))

	if cfg.TUI {
		err = app.dashboard(ctx, keeper, cfg.RunFor)
	} else {
		logger.Info("press CTRL+C to stop")
		select {
		case <-ctx.Done():
			logger.Info("shutdown requested")
		case <-keeper.Done():
			logger.Info("run time elapsed")
		}
	}

	err = errors.Join(err, cleanup.Execute())
	logger.Info("mouse mover stopped", zap.Int("movements", keeper.Snapshot().Episodes))
	return err
}

func (app App) dashboard(ctx context.Context, keeper *keepalive.Keeper, total time.Duration) error {
	model := ui.NewModel(keeper, total)
	model.SetVersion(app.Version)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
