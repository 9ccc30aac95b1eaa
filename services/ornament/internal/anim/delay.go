package anim

import (
	"context"
	"time"

	"blinker-go/x/mathx"
	"blinker-go/x/timex"
)

// StepDelay paces one ramp step, nominally a millisecond. Wait reports
// false once ctx ends so a ramp can be abandoned mid-flight.
type StepDelay interface {
	Wait(ctx context.Context) bool
}

// Spin paces by busy-waiting. On low-clock parts the loop itself is the
// delay; Loops is calibrated from the core clock.
type Spin struct {
	Loops int
	sink  uint32
}

// NewSpin calibrates for roughly one millisecond per wait at clockHz.
// Rounding keeps the estimate honest on clocks that are not a whole
// multiple of a kilohertz, like a 32768 Hz watch crystal.
func NewSpin(clockHz uint32) *Spin {
	loops := int(mathx.RoundDiv(clockHz, 1000))
	if loops < 1 {
		loops = 1
	}
	return &Spin{Loops: loops}
}

func (s *Spin) Wait(ctx context.Context) bool {
	for i := 0; i < s.Loops; i++ {
		s.sink += uint32(i) // keep the loop observable
	}
	return ctx.Err() == nil
}

// Ticked paces on the runtime timer, one period per step.
type Ticked struct {
	period time.Duration
	timer  *time.Timer
}

// NewTicked paces at stepHz waits per second (1000 gives the standard
// millisecond step).
func NewTicked(stepHz uint32) *Ticked {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		timex.DrainTimer(t)
	}
	return &Ticked{period: time.Duration(timex.PeriodFromHz(stepHz)), timer: t}
}

func (tk *Ticked) Wait(ctx context.Context) bool {
	timex.ResetTimer(tk.timer, tk.period)
	select {
	case <-ctx.Done():
		return false
	case <-tk.timer.C:
		return true
	}
}
