// Package config resolves the device's compiled-in profile and
// publishes it as retained configuration sections on the bus.
//
// Sections go out once at startup under "config/<section>"; services
// pick up their section via a retained subscription whenever they
// start, so startup ordering between config and its consumers does
// not matter.
package config

import (
	"context"

	"blinker-go/bus"
	"blinker-go/errcode"
	"blinker-go/types"
	"blinker-go/x/mathx"
)

const (
	serviceName  = "config"
	configPrefix = "config"

	// CtxDeviceKey is the context key under which commands pass the
	// device ID used to select a profile.
	CtxDeviceKey = "device"

	// DefaultDevice is used when the context carries no device ID.
	DefaultDevice = "host"
)

// ProfileLookup allows overriding how profiles are resolved. Tests and
// bench commands may swap it to inject synthetic profiles.
var ProfileLookup = func(device string) (types.Profile, bool) {
	p, ok := deviceProfiles[device]
	return p, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig resolves the profile for the device named in ctx and
// publishes the ornament and beacon sections as retained messages.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		device = DefaultDevice
	}

	p, ok := ProfileLookup(device)
	if !ok {
		return &errcode.E{C: errcode.UnknownProfile, Op: serviceName, Msg: "no profile for device " + device}
	}

	// A zero budget would stall the controller; a runaway one would
	// keep it animating long past the sensor's say.
	p.CycleBudget = mathx.Clamp(p.CycleBudget, 1, 255)

	conn.Publish(&bus.Message{
		Topic:    bus.T(configPrefix, "ornament"),
		Payload:  types.OrnamentConfig{Profile: p},
		Retained: true,
	})
	conn.Publish(&bus.Message{
		Topic:    bus.T(configPrefix, "beacon"),
		Payload:  types.BeaconConfig{IntervalMs: p.BeaconMs},
		Retained: true,
	})

	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] error:", err.Error())
		}
	}()
}
