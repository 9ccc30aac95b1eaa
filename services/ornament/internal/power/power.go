// Package power provides the sleep scheduler the core runs on. Durations
// come from a closed set of watchdog-style steps; a sleep can end early
// through an armed wake source or context cancellation.
package power

import (
	"context"
	"sync/atomic"
	"time"

	"blinker-go/x/timex"
)

// SleepDuration is one of the supported watchdog sleep steps. Wall-clock
// accuracy follows the underlying clock; a miscalibrated oscillator gives
// wrong durations, not errors.
type SleepDuration uint8

const (
	Sleep15ms SleepDuration = iota
	Sleep250ms
	Sleep500ms
	Sleep1s
	Sleep8s
)

// Duration maps a step to wall-clock time.
func (d SleepDuration) Duration() time.Duration {
	switch d {
	case Sleep15ms:
		return 15 * time.Millisecond
	case Sleep250ms:
		return 250 * time.Millisecond
	case Sleep500ms:
		return 500 * time.Millisecond
	case Sleep1s:
		return time.Second
	case Sleep8s:
		return 8 * time.Second
	default:
		return time.Second
	}
}

func (d SleepDuration) String() string {
	switch d {
	case Sleep15ms:
		return "15ms"
	case Sleep250ms:
		return "250ms"
	case Sleep500ms:
		return "500ms"
	case Sleep1s:
		return "1s"
	case Sleep8s:
		return "8s"
	default:
		return "?"
	}
}

// Scheduler sleeps in watchdog steps and can be woken early. One core
// goroutine sleeps at a time; Wake is the only method safe to call from
// an interrupt-style callback.
type Scheduler struct {
	wake  chan struct{}
	timer *time.Timer
	drops uint32

	// Scale divides every duration; >1 compresses time for simulator and
	// test runs. Leave at 1 on hardware.
	Scale int
}

func NewScheduler() *Scheduler {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		timex.DrainTimer(t)
	}
	return &Scheduler{wake: make(chan struct{}, 1), timer: t, Scale: 1}
}

// Sleep blocks until d elapses, a wake event arrives, or ctx is cancelled.
// It reports false only for cancellation. Arming and disarming the wake
// source is the caller's business; Sleep just listens.
func (s *Scheduler) Sleep(ctx context.Context, d SleepDuration) bool {
	timex.ResetTimer(s.timer, s.scaled(d.Duration()))
	select {
	case <-ctx.Done():
		return false
	case <-s.wake:
		return true
	case <-s.timer.C:
		return true
	}
}

// Wake ends the current sleep early. Non-blocking: if the wake slot is
// already taken the event is counted as dropped, never waited on.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
		atomic.AddUint32(&s.drops, 1)
	}
}

// ClearPending discards a stale wake event so the next Sleep cannot end
// on an edge that fired before the caller armed for it.
func (s *Scheduler) ClearPending() {
	select {
	case <-s.wake:
	default:
	}
}

// Drops returns the number of wake events lost to a full slot.
func (s *Scheduler) Drops() uint32 { return atomic.LoadUint32(&s.drops) }

func (s *Scheduler) scaled(d time.Duration) time.Duration {
	if s.Scale > 1 {
		return d / time.Duration(s.Scale)
	}
	return d
}
