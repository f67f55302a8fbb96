package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sla0ui/uxlens/internal/models"
)

// loadConfig layers defaults, the optional YAML file, the environment and
// the flags the user actually set, in that order
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	return buildConfig(cmd.Flags(), os.Getenv)
}

func buildConfig(flags *pflag.FlagSet, getenv func(string) string) (*models.Config, error) {
	config := models.DefaultConfig()

	if path, _ := flags.GetString("config"); path != "" {
		if err := models.LoadConfigFile(path, config); err != nil {
			return nil, err
		}
	}

	config.ApplyEnv(getenv)

	if flags.Changed("verbose") {
		config.LogVerbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		config.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("quiet") {
		config.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("engine") {
		config.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("remote-url") {
		config.RemoteURL, _ = flags.GetString("remote-url")
	}
	if flags.Changed("stealth") {
		config.Stealth, _ = flags.GetBool("stealth")
	}
	if flags.Changed("user-agent") {
		config.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("timeout") {
		config.NavigationTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("settle") {
		config.SettleDelay, _ = flags.GetDuration("settle")
	}
	if flags.Changed("no-screenshots") {
		skip, _ := flags.GetBool("no-screenshots")
		config.TakeScreenshots = !skip
	}
	if flags.Changed("screenshot-dir") {
		config.ScreenshotDir, _ = flags.GetString("screenshot-dir")
	}
	if flags.Changed("output-dir") {
		config.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("format") {
		config.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("concurrency") {
		config.MaxConcurrentChecks, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("no-progress") {
		config.NoProgress, _ = flags.GetBool("no-progress")
	}
	if flags.Changed("listen") {
		config.ListenAddr, _ = flags.GetString("listen")
	}
	if flags.Changed("profiles") {
		config.ScreenshotProfiles, _ = flags.GetStringSlice("profiles")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setupOutput applies the colour setting and returns the logger for the run
func setupOutput(config *models.Config) *slog.Logger {
	if config.NoColor {
		color.NoColor = true
	}

	level := slog.LevelWarn
	switch {
	case config.LogVerbose:
		level = slog.LevelDebug
	case config.Quiet:
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
