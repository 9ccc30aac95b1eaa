package beacon

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"blinker-go/bus"
	"blinker-go/types"
)

// syncBuf guards the capture buffer; the beacon writes from its own
// goroutine.
type syncBuf struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuf) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuf) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBeacon_PrintsStateAtInterval(t *testing.T) {
	out := &syncBuf{}

	b := bus.NewBus(16)
	test := b.NewConnection("test")

	test.Publish(&bus.Message{
		Topic:    topicConfigBeacon,
		Payload:  types.BeaconConfig{IntervalMs: 20},
		Retained: true,
	})
	test.Publish(&bus.Message{
		Topic:    topicOrnamentState,
		Payload:  types.OrnamentState{Level: types.LevelAnimating, Status: "burst", TS: 1},
		Retained: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{out: out}
	if err := svc.Start(ctx, b.NewConnection("beacon")); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := out.String()
		if strings.Count(s, "[beacon] up=") >= 2 {
			if !strings.Contains(s, "level=animating") || !strings.Contains(s, "status=burst") {
				t.Fatalf("beacon lines missing state: %q", s)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("beacon never ticked twice: %q", out.String())
}

func TestBeacon_ZeroIntervalStaysSilent(t *testing.T) {
	out := &syncBuf{}

	b := bus.NewBus(16)
	test := b.NewConnection("test")

	test.Publish(&bus.Message{
		Topic:    topicConfigBeacon,
		Payload:  types.BeaconConfig{IntervalMs: 0},
		Retained: true,
	})
	test.Publish(&bus.Message{
		Topic:    topicOrnamentState,
		Payload:  types.OrnamentState{Level: types.LevelAnimating, Status: "burst", TS: 1},
		Retained: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{out: out}
	if err := svc.Start(ctx, b.NewConnection("beacon")); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if s := out.String(); strings.Contains(s, "[beacon] up=") {
		t.Fatalf("disabled beacon still printed: %q", s)
	}
}

func TestBeacon_TracksLatestState(t *testing.T) {
	out := &syncBuf{}

	b := bus.NewBus(16)
	test := b.NewConnection("test")

	test.Publish(&bus.Message{
		Topic:    topicConfigBeacon,
		Payload:  types.BeaconConfig{IntervalMs: 20},
		Retained: true,
	})
	test.Publish(&bus.Message{
		Topic:    topicOrnamentState,
		Payload:  types.OrnamentState{Level: types.LevelAnimating, Status: "burst", TS: 1},
		Retained: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &Service{out: out}
	if err := svc.Start(ctx, b.NewConnection("beacon")); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Let it tick on the first state, then move on.
	time.Sleep(50 * time.Millisecond)
	test.Publish(&bus.Message{
		Topic:    topicOrnamentState,
		Payload:  types.OrnamentState{Level: types.LevelAwaitNight, Status: "parked", TS: 2},
		Retained: true,
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), "level=await_night") {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("beacon never picked up new state: %q", out.String())
}
