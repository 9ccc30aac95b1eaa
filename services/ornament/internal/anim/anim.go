// Package anim runs the animation cycles: pick a fade target from the byte
// generator, power the PWM bank, run a triangle ramp, power it off. A
// quarter of all cycles idle instead, which is what gives the ornament its
// irregular twinkle.
package anim

import (
	"context"

	"blinker-go/services/ornament/hw"
	"blinker-go/services/ornament/internal/power"
	"blinker-go/x/ramp"
)

// ByteSource yields animation entropy one byte at a time.
type ByteSource interface {
	NextByte() uint8
}

// Sleeper is the slice of the power scheduler idle cycles need.
type Sleeper interface {
	Sleep(ctx context.Context, d power.SleepDuration) bool
}

// Engine runs animation cycles against one PWM bank.
type Engine struct {
	rng   ByteSource
	bank  hw.PWMBank
	step  StepDelay
	sched Sleeper
	idle  power.SleepDuration
}

func NewEngine(rng ByteSource, bank hw.PWMBank, step StepDelay, sched Sleeper, idle power.SleepDuration) *Engine {
	return &Engine{rng: rng, bank: bank, step: step, sched: sched, idle: idle}
}

// RunCycle performs one animation cycle and reports the chosen target and
// whether the cycle idled. Idle cycles sleep the profile's idle step and
// never touch the bank; fade cycles bracket the ramp with PowerOn/PowerOff
// so nothing stays active between cycles.
func (e *Engine) RunCycle(ctx context.Context) (target [3]uint8, idle bool) {
	target, idle = e.pickTarget()
	if idle {
		e.sched.Sleep(ctx, e.idle)
		return target, true
	}
	e.bank.PowerOn()
	ramp.Triangle(target, func() bool { return e.step.Wait(ctx) }, e.apply)
	e.bank.PowerOff()
	return target, false
}

// pickTarget draws the cycle outcome. The draw order is fixed: outcome
// first, then the neighbour selector, then the neighbour amplitude. Two
// low bits decide the outcome: 0 idles, 1..3 make that channel primary at
// full amplitude. The selector's low bit picks which of the two remaining
// channels (in ascending index order: 1 = lower, 0 = higher) gets a random
// amplitude; the unchosen channel stays dark.
func (e *Engine) pickTarget() (target [3]uint8, idle bool) {
	outcome := e.rng.NextByte() & 3
	if outcome == 0 {
		return target, true
	}
	primary := int(outcome) - 1
	var lo, hi int
	switch primary {
	case 0:
		lo, hi = 1, 2
	case 1:
		lo, hi = 0, 2
	default:
		lo, hi = 0, 1
	}
	target[primary] = 0xFF
	if e.rng.NextByte()&1 != 0 {
		target[lo] = e.rng.NextByte()
	} else {
		target[hi] = e.rng.NextByte()
	}
	return target, false
}

func (e *Engine) apply(levels [3]uint8) {
	for ch := 0; ch < hw.NumChannels; ch++ {
		e.bank.SetDuty(ch, levels[ch])
	}
}
