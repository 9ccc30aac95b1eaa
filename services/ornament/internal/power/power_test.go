package power

import (
	"context"
	"testing"
	"time"
)

func TestDurationMap(t *testing.T) {
	type C struct {
		d    SleepDuration
		want time.Duration
		str  string
	}
	for _, c := range []C{
		{Sleep15ms, 15 * time.Millisecond, "15ms"},
		{Sleep250ms, 250 * time.Millisecond, "250ms"},
		{Sleep500ms, 500 * time.Millisecond, "500ms"},
		{Sleep1s, time.Second, "1s"},
		{Sleep8s, 8 * time.Second, "8s"},
	} {
		if got := c.d.Duration(); got != c.want {
			t.Fatalf("%v Duration = %v, want %v", c.d, got, c.want)
		}
		if got := c.d.String(); got != c.str {
			t.Fatalf("String = %q, want %q", got, c.str)
		}
	}
}

func TestSleepElapses(t *testing.T) {
	s := NewScheduler()
	s.Scale = 5 // 15ms -> 3ms
	start := time.Now()
	if !s.Sleep(context.Background(), Sleep15ms) {
		t.Fatalf("Sleep reported cancellation")
	}
	if el := time.Since(start); el < 2*time.Millisecond {
		t.Fatalf("Sleep returned after %v, too early", el)
	}
}

func TestWakeEndsSleepEarly(t *testing.T) {
	s := NewScheduler()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.Wake()
	}()
	start := time.Now()
	if !s.Sleep(context.Background(), Sleep8s) {
		t.Fatalf("Sleep reported cancellation")
	}
	if el := time.Since(start); el > 2*time.Second {
		t.Fatalf("Wake did not end the sleep early (took %v)", el)
	}
}

func TestPendingWakeEndsNextSleep(t *testing.T) {
	s := NewScheduler()
	s.Wake() // nobody sleeping; event stays pending
	start := time.Now()
	if !s.Sleep(context.Background(), Sleep8s) {
		t.Fatalf("Sleep reported cancellation")
	}
	if el := time.Since(start); el > time.Second {
		t.Fatalf("pending wake should end the sleep immediately, took %v", el)
	}
}

func TestClearPendingDropsStaleWake(t *testing.T) {
	s := NewScheduler()
	s.Scale = 10 // 250ms -> 25ms
	s.Wake()
	s.ClearPending()
	start := time.Now()
	if !s.Sleep(context.Background(), Sleep250ms) {
		t.Fatalf("Sleep reported cancellation")
	}
	if el := time.Since(start); el < 20*time.Millisecond {
		t.Fatalf("stale wake survived ClearPending (slept only %v)", el)
	}
}

func TestCtxCancelUnblocks(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	if s.Sleep(ctx, Sleep8s) {
		t.Fatalf("Sleep should report cancellation")
	}
	if el := time.Since(start); el > 2*time.Second {
		t.Fatalf("cancel did not unblock promptly (took %v)", el)
	}
}

func TestDropsCounted(t *testing.T) {
	s := NewScheduler()
	s.Wake()
	s.Wake() // slot full, must be dropped, never blocks
	if got := s.Drops(); got != 1 {
		t.Fatalf("Drops = %d, want 1", got)
	}
}
