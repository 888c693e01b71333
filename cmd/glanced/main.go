package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/glanceworks/glanced/internal/adapters/log"
	"github.com/glanceworks/glanced/internal/cliconfig"
	"github.com/glanceworks/glanced/internal/sources/sysmon"
	"github.com/glanceworks/glanced/internal/sources/timesource"
	"github.com/glanceworks/glanced/pkg/glanced"
)

const helpDescription = `
Drive a small always-on OLED panel from pluggable data sources.

Highlights:
  - Each source polls on its own schedule and stops itself after repeated
    failures instead of taking the device down.
  - One render arbiter owns the panel; timed content clears itself unless
    newer content has taken over.
  - Configure via file, environment (GLANCED_*), or flags.
  - --simulate runs without hardware and logs every paint.
`

var exampleUsage = strings.TrimSpace(`
  glanced
  glanced --simulate --log-level debug
  glanced --config $HOME/.glanced/config.toml --brightness 128
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "glanced",
		Short:   "Drive a small always-on OLED panel from pluggable data sources",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.glanced/config.toml),
			// then env, then flag overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.SetLogLevel(cfg.LogLevel)
			log.Info().Interface("config", cfg).Msg("configuration")

			adapter := logAdapter.NewZerologAdapterWithLogger(log)

			libCfg := glanced.Config{
				Display: glanced.DisplayConfig{
					WidthPx:         cfg.Display.WidthPx,
					HeightPx:        cfg.Display.HeightPx,
					Brightness:      cfg.Display.Brightness,
					RotationDegrees: cfg.Display.RotationDegrees,
					I2CBus:          cfg.Display.I2CBus,
				},
				Simulate:       cfg.Simulate,
				SplashDuration: glanced.DefaultSplashDuration,
			}

			timeSrc := timesource.New(timesource.Config{
				Format12h:      cfg.Time.Format12h,
				IncludeSeconds: cfg.Time.IncludeSeconds,
				IncludeDate:    cfg.Time.IncludeDate,
			}, adapter)
			sysSrc := sysmon.New(adapter)

			device, err := glanced.New(libCfg,
				glanced.WithLogger(adapter),
				glanced.WithSource(timeSrc, glanced.SourceConfig{
					Enabled:        cfg.Time.Enabled,
					UpdateInterval: cfg.Time.UpdateInterval,
					MaxErrors:      cfg.Time.MaxErrors,
				}),
				glanced.WithSource(sysSrc, glanced.SourceConfig{
					Enabled:        cfg.Sysmon.Enabled,
					UpdateInterval: cfg.Sysmon.UpdateInterval,
					MaxErrors:      cfg.Sysmon.MaxErrors,
				}),
			)
			if err != nil {
				return fmt.Errorf("create device: %w", err)
			}

			// The clock owns the panel: every composed display-text record
			// replaces what is showing. No auto-clear; the next cycle
			// supersedes it.
			if err := device.Subscribe(timeSrc.Name(), func(rec glanced.Record) error {
				payload, ok := rec.Payload.(timesource.DisplayPayload)
				if !ok || rec.Kind != timesource.KindDisplayText {
					return nil
				}
				lines := strings.Split(payload.Text, "\n")
				return device.Show(glanced.CenteredText(lines...), 0)
			}); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := device.Start(ctx); err != nil {
				return fmt.Errorf("start device: %w", err)
			}

			// Apply config file edits without a restart. Brightness and log
			// level take effect live; everything else needs a restart.
			var watcher *cliconfig.Watcher
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher = cliconfig.NewWatcher(cfgFile, cfg, changed, func(next cliconfig.Config) {
					if err := device.SetBrightness(next.Display.Brightness); err != nil {
						log.Error().Err(err).Msg("apply brightness")
					}
					log = cliconfig.SetLogLevel(next.LogLevel)
				}, adapter)
				if err := watcher.Start(ctx); err != nil {
					log.Warn().Err(err).Msg("config watcher not started")
					watcher = nil
				}
			}

			// Detect the device stopping on its own, e.g. every source
			// fail-stopped or a crash
			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						status := device.Status()
						if status == glanced.StateStopped || status == glanced.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
			case <-doneCh:
				if device.Status() == glanced.StateCrashed {
					log.Error().Msg("device crashed")
				}
			}

			if watcher != nil {
				watcher.Stop()
			}
			if err := device.Stop(); err != nil {
				return fmt.Errorf("stop device: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.glanced/config.toml)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace/debug/info/warn/error)")
	root.Flags().BoolVar(&cfg.Simulate, "simulate", cfg.Simulate, "run without hardware, log paints instead")

	root.Flags().IntVar(&cfg.Display.Brightness, "brightness", cfg.Display.Brightness, "panel brightness 0-255")
	root.Flags().IntVar(&cfg.Display.RotationDegrees, "rotation", cfg.Display.RotationDegrees, "panel rotation in degrees (0 or 180)")
	root.Flags().StringVar(&cfg.Display.I2CBus, "i2c-bus", cfg.Display.I2CBus, "I2C bus name or number (panel address is fixed at 0x3C)")

	root.Flags().DurationVar(&cfg.Time.UpdateInterval, "time-interval", cfg.Time.UpdateInterval, "clock source update interval")
	root.Flags().DurationVar(&cfg.Sysmon.UpdateInterval, "sysmon-interval", cfg.Sysmon.UpdateInterval, "system monitor update interval")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("glanced")
		os.Exit(1)
	}
}
