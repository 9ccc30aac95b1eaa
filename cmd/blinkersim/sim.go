//go:build !rp2040

package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"blinker-go/bus"
	"blinker-go/services/beacon"
	"blinker-go/services/config"
	"blinker-go/services/ornament"
	"blinker-go/services/ornament/platform"
	"blinker-go/types"
)

// Sim runs the full service stack on the fake board, plays the sun, and
// narrates the bus traffic.
type Sim struct {
	cfg    *Config
	logger *slog.Logger
}

func NewSim(cfg *Config, logger *slog.Logger) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &Sim{cfg: cfg, logger: logger}, nil
}

// Run blocks until the context is canceled or run_for elapses.
func (s *Sim) Run(ctx context.Context) error {
	if s.cfg.RunFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.RunFor))
		defer cancel()
	}

	platform.Ambient.SetBright(s.cfg.StartBright)
	s.logger.Info("simulator starting",
		"device", s.cfg.Device,
		"scale", s.cfg.Scale,
		"bright", s.cfg.StartBright)

	b := bus.NewBus(64)

	orn := &ornament.Service{SleepScale: s.cfg.Scale}
	orn.Start(ctx, b.NewConnection("ornament"))
	_ = (&beacon.Service{}).Start(ctx, b.NewConnection("beacon"))

	cfgCtx := context.WithValue(ctx, config.CtxDeviceKey, s.cfg.Device)
	config.NewConfigService().Start(cfgCtx, b.NewConnection("config"))

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error { return s.sun(ctx) })
	errg.Go(func() error { return s.watch(ctx, b.NewConnection("watch")) })
	errg.Go(func() error { return s.poll(ctx, b.NewConnection("poll")) })

	err := errg.Wait()
	if errors.Is(err, context.DeadlineExceeded) {
		// run_for elapsed; a clean end.
		s.logger.Info("simulator done")
		return nil
	}
	return err
}

// sun flips the ambient light between day and night spans.
func (s *Sim) sun(ctx context.Context) error {
	bright := s.cfg.StartBright
	for {
		span := time.Duration(s.cfg.Night)
		if bright {
			span = time.Duration(s.cfg.Day)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(span):
		}
		bright = !bright
		platform.Ambient.SetBright(bright)
		s.logger.Info("sun flipped", "bright", bright)
	}
}

// watch narrates ornament traffic.
func (s *Sim) watch(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(bus.T("ornament", "#"))
	defer conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			switch p := m.Payload.(type) {
			case types.StateChange:
				s.logger.Info("state", "from", string(p.From), "to", string(p.To))
			case types.CycleEvent:
				s.logger.Debug("cycle",
					"index", p.Index,
					"target", fmt.Sprintf("%02x/%02x/%02x", p.Target[0], p.Target[1], p.Target[2]),
					"idle", p.Idle)
			case types.SensorReading:
				s.logger.Debug("sensor", "night", p.Night)
			}
		}
	}
}

// poll asks for status once a second.
func (s *Sim) poll(ctx context.Context, conn *bus.Connection) error {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
		}

		rctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		reply, err := conn.RequestWait(rctx, conn.NewMessage(bus.T("ornament", "control", "status"), types.StatusRequest{}, false))
		cancel()
		if err != nil {
			s.logger.Warn("status poll failed", "error", err)
			continue
		}
		if st, ok := reply.Payload.(types.StatusReply); ok {
			s.logger.Info("status",
				"level", string(st.Level),
				"cycle", st.Cycle,
				"night", st.Night,
				"wake_drops", st.WakeDrops)
		}
	}
}
