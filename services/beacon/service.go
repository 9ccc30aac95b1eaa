// Package beacon prints a periodic one-line summary of the ornament's
// state to the console. The interval comes from retained config; an
// interval of zero keeps the beacon silent, which is what the coin-cell
// profiles want.
package beacon

import (
	"context"
	"io"
	"time"

	"blinker-go/bus"
	"blinker-go/types"
	"blinker-go/x/fmtx"
	"blinker-go/x/timex"
)

var (
	topicConfigBeacon  = bus.Topic{"config", "beacon"}
	topicOrnamentState = bus.Topic{"ornament", "state"}
)

type Service struct {
	// out overrides the console writer; nil means fmtx.DefaultOutput.
	out io.Writer
}

func (s *Service) output() io.Writer {
	if s.out != nil {
		return s.out
	}
	return fmtx.DefaultOutput
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigBeacon)
	defer conn.Unsubscribe(cfgSub)
	stateSub := conn.Subscribe(topicOrnamentState)
	defer conn.Unsubscribe(stateSub)

	// Parked until config enables it.
	tick := time.NewTicker(time.Hour)
	tick.Stop()
	defer tick.Stop()

	var last types.OrnamentState

	for {
		select {
		case <-ctx.Done():
			println("[beacon] stopping")
			return
		case <-tick.C:
			if last.Level == "" {
				println("[beacon] no ornament state yet")
				continue
			}
			fmtx.Fprintf(s.output(), "[beacon] up=%dms level=%s status=%s\n",
				timex.NowMs(), string(last.Level), last.Status)
		case msg := <-cfgSub.Channel():
			bc, ok := msg.Payload.(types.BeaconConfig)
			if !ok {
				continue
			}
			if bc.IntervalMs == 0 {
				tick.Stop()
				println("[beacon] disabled")
				continue
			}
			tick.Reset(time.Duration(bc.IntervalMs) * time.Millisecond)
			println("[beacon] interval set to", bc.IntervalMs, "ms")
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.OrnamentState); ok {
				last = st
			}
		}
	}
}

// Start the beacon service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
