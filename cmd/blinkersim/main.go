//go:build !rp2040

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
)

var (
	configPath = "blinkersim.toml"
	verbose    = false
	scale      = 0
	runFor     time.Duration
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.IntVar(&scale, "scale", scale, "override the configured time scale")
	pflag.DurationVar(&runFor, "run-for", runFor, "override the configured run span")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	sim, err := NewSim(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulator failed: %w", err)
	}

	return nil
}

func readConfig() (*Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		// The default path is optional; an explicit -c must exist.
		if os.IsNotExist(err) && !pflag.CommandLine.Changed("config") {
			cfg := DefaultConfig()
			applyFlagOverrides(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg)
	return cfg, nil
}

// applyFlagOverrides lets explicit flags win over the file.
func applyFlagOverrides(cfg *Config) {
	if pflag.CommandLine.Changed("scale") {
		cfg.Scale = scale
	}
	if pflag.CommandLine.Changed("run-for") {
		cfg.RunFor = TOMLDuration(runFor)
	}
}
