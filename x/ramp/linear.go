package ramp

import (
	"blinker-go/x/mathx"
	"time"
)

// SweepStep sets the new duty level in [0..255].
type SweepStep func(level uint8)

// SweepTick waits for d and reports whether to continue (false => cancelled).
type SweepTick func(d time.Duration) bool

// Sweep runs a synchronous (caller-driven) linear byte ramp from cur to to.
// Useful for board bring-up where a plain visible sweep beats the triangle
// fade. steps==0 or durationMs==0 snaps to 'to'.
func Sweep(cur, to uint8, durationMs uint32, steps uint16, tick SweepTick, set SweepStep) {
	if steps == 0 || durationMs == 0 {
		set(to)
		return
	}
	d := int32(to) - int32(cur)
	st := int32(steps)
	acc := int32(0)
	cur32 := int32(cur)
	stepDurMs := mathx.RoundDiv(durationMs, uint32(steps))
	if stepDurMs == 0 {
		stepDurMs = 1
	}
	stepDur := time.Duration(stepDurMs) * time.Millisecond

	for i := uint16(1); i < steps; i++ {
		if !tick(stepDur) {
			return
		}
		acc += d
		inc := acc / st
		if inc != 0 {
			acc -= inc * st
			cur32 = mathx.Clamp(cur32+inc, 0, 255)
			set(uint8(cur32))
		}
	}
	set(to)
}
