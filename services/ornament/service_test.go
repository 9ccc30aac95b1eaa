package ornament

import (
	"context"
	"testing"
	"time"

	"blinker-go/bus"
	"blinker-go/services/ornament/internal/power"
	"blinker-go/services/ornament/platform"
	"blinker-go/types"
)

// testProfile animates instantly (single-loop spins) so tests exercise the
// schedule, not the ramp pacing.
func testProfile(budget int) types.Profile {
	return types.Profile{
		Name:        "test",
		ClockHz:     1000,
		Step:        types.StepSpin,
		IdleMs:      500,
		CycleBudget: budget,
		Board:       platform.BoardName,
		Bank:        types.BankGPIO,
		SensePin:    2,
		BankPins:    [3]int{0, 1, 4},
	}
}

func publishProfile(conn *bus.Connection, p types.Profile) {
	conn.Publish(&bus.Message{
		Topic:    bus.T("config", "ornament"),
		Payload:  types.OrnamentConfig{Profile: p},
		Retained: true,
	})
}

func TestService_NightBurstThenStatusThenDaylight(t *testing.T) {
	platform.Ambient.SetBright(false)

	b := bus.NewBus(64)
	test := b.NewConnection("test")
	svcConn := b.NewConnection("ornament")

	trace := test.Subscribe(bus.T("ornament", "#"))
	publishProfile(test, testProfile(2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{SleepScale: 20}
	svc.Start(ctx, svcConn)

	var (
		cycles     []types.CycleEvent
		nightReads int
		sawBurst   bool
		parked     bool
	)
	deadline := time.After(5 * time.Second)
	for !parked {
		select {
		case m := <-trace.Channel():
			switch p := m.Payload.(type) {
			case types.StateChange:
				if p.From == types.LevelBoot && p.To == types.LevelAnimating {
					sawBurst = true
				}
				if p.From == types.LevelAnimating && p.To == types.LevelAwaitNight {
					parked = true
				}
			case types.CycleEvent:
				cycles = append(cycles, p)
			case types.SensorReading:
				if !p.Night {
					t.Fatal("dark ambient read as day")
				}
				nightReads++
			}
		case <-deadline:
			t.Fatalf("burst never parked; cycles=%d nightReads=%d", len(cycles), nightReads)
		}
	}
	if !sawBurst {
		t.Fatal("missing boot>animating transition")
	}
	if len(cycles) != 2 || cycles[0].Index != 0 || cycles[1].Index != 1 {
		t.Fatalf("cycle events = %+v, want indexes 0,1", cycles)
	}
	for _, c := range cycles {
		if !c.Idle && c.Target == ([3]uint8{}) {
			t.Fatalf("animated cycle with zero target: %+v", c)
		}
	}
	if nightReads != 2 {
		t.Fatalf("night reads = %d, want 2", nightReads)
	}

	// Status request/reply.
	rctx, rcancel := context.WithTimeout(ctx, 2*time.Second)
	defer rcancel()
	reply, err := test.RequestWait(rctx, test.NewMessage(bus.T("ornament", "control", "status"), types.StatusRequest{}, false))
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	st, ok := reply.Payload.(types.StatusReply)
	if !ok {
		t.Fatalf("status payload type %T", reply.Payload)
	}
	if !st.OK || st.Level == "" {
		t.Fatalf("status reply = %+v", st)
	}

	// Daylight: the parked poll must see it.
	platform.Ambient.SetBright(true)
	sawDay := false
	dayDeadline := time.After(3 * time.Second)
	for !sawDay {
		select {
		case m := <-trace.Channel():
			if p, ok := m.Payload.(types.SensorReading); ok && !p.Night {
				sawDay = true
			}
		case <-dayDeadline:
			t.Fatal("no day reading after ambient went bright")
		}
	}

	cancel()
	stopDeadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-trace.Channel():
			if p, ok := m.Payload.(types.StateChange); ok && p.To == types.LevelStopped {
				return
			}
		case <-stopDeadline:
			t.Fatal("no stopped transition after cancel")
		}
	}
}

func TestService_DayAtBootParksAfterOneCycle(t *testing.T) {
	platform.Ambient.SetBright(true)

	b := bus.NewBus(64)
	test := b.NewConnection("test")
	svcConn := b.NewConnection("ornament")

	trace := test.Subscribe(bus.T("ornament", "#"))
	publishProfile(test, testProfile(5))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{SleepScale: 20}
	svc.Start(ctx, svcConn)

	cycles := 0
	deadline := time.After(5 * time.Second)
	for {
		select {
		case m := <-trace.Channel():
			switch p := m.Payload.(type) {
			case types.CycleEvent:
				cycles++
			case types.StateChange:
				if p.From == types.LevelAnimating && p.To == types.LevelAwaitNight {
					if cycles != 1 {
						t.Fatalf("cycles before parking = %d, want 1", cycles)
					}
					return
				}
			}
		case <-deadline:
			t.Fatalf("never parked; cycles=%d", cycles)
		}
	}
}

func TestService_UnknownBoardStops(t *testing.T) {
	b := bus.NewBus(16)
	test := b.NewConnection("test")
	svcConn := b.NewConnection("ornament")

	stateSub := test.Subscribe(bus.T("ornament", "state"))

	p := testProfile(1)
	p.Board = "bogus"
	publishProfile(test, p)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{}
	svc.Start(ctx, svcConn)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-stateSub.Channel():
			st, ok := m.Payload.(types.OrnamentState)
			if !ok {
				t.Fatalf("state payload type %T", m.Payload)
			}
			if st.Level == types.LevelStopped {
				if st.Status != "unknown_board" {
					t.Fatalf("status = %q, want unknown_board", st.Status)
				}
				return
			}
		case <-deadline:
			t.Fatal("no stopped state for unknown board")
		}
	}
}

func TestIdleSleepMenu(t *testing.T) {
	for _, tc := range []struct {
		ms   uint32
		want power.SleepDuration
	}{
		{0, power.Sleep500ms},
		{500, power.Sleep500ms},
		{1000, power.Sleep1s},
		{2000, power.Sleep1s},
	} {
		if got := idleSleep(tc.ms); got != tc.want {
			t.Fatalf("idleSleep(%d) = %v, want %v", tc.ms, got, tc.want)
		}
	}
}
