//go:build !rp2040

package main

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the configuration for the simulator.
type Config struct {
	// Device selects the compiled-in profile to run.
	Device string `toml:"device"`
	// Scale divides every scheduler sleep; higher runs faster.
	Scale int `toml:"scale"`
	// Day and Night are the simulated sun's spans.
	Day   TOMLDuration `toml:"day"`
	Night TOMLDuration `toml:"night"`
	// StartBright starts the run in daylight.
	StartBright bool `toml:"start_bright"`
	// RunFor ends the run after this span; zero runs until interrupt.
	RunFor TOMLDuration `toml:"run_for"`
}

// DefaultConfig is the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Device: "host",
		Scale:  40,
		Day:    TOMLDuration(3 * time.Second),
		Night:  TOMLDuration(5 * time.Second),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no device configured")
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale %d out of range, want >= 1", c.Scale)
	}
	if c.Day <= 0 || c.Night <= 0 {
		return errors.New("day and night spans must be positive")
	}
	if c.RunFor < 0 {
		return errors.New("run_for must not be negative")
	}
	return nil
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Fields absent from the
// file keep their defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
