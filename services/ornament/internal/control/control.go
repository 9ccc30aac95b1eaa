// Package control drives the ornament's top-level schedule: bursts of
// animation while it stays dark, long watchdog sleeps through the day.
package control

import (
	"context"

	"blinker-go/services/ornament/internal/power"
	"blinker-go/types"
)

// DefaultCycleBudget is the number of animation cycles per burst when the
// profile does not say otherwise.
const DefaultCycleBudget = 60

// Cycler runs one animation cycle.
type Cycler interface {
	RunCycle(ctx context.Context) (target [3]uint8, idle bool)
}

// NightSensor classifies the current ambient light.
type NightSensor interface {
	IsNight(ctx context.Context) bool
}

// Sleeper is the slice of the power scheduler the day wait needs.
type Sleeper interface {
	Sleep(ctx context.Context, d power.SleepDuration) bool
}

// Events receives controller notifications. Implementations run on the
// core goroutine and must return quickly.
type Events interface {
	StateChanged(from, to types.Level)
	CycleDone(index int, target [3]uint8, idle bool)
	SensorRead(night bool)
}

// Controller owns the two live states. Everything it calls runs on the one
// core goroutine; the only concurrency it tolerates is the wake callback
// hidden behind the scheduler.
type Controller struct {
	engine Cycler
	sensor NightSensor
	sched  Sleeper
	budget int
	ev     Events

	level types.Level
}

func New(engine Cycler, sensor NightSensor, sched Sleeper, budget int, ev Events) *Controller {
	if budget <= 0 {
		budget = DefaultCycleBudget
	}
	return &Controller{
		engine: engine,
		sensor: sensor,
		sched:  sched,
		budget: budget,
		ev:     ev,
		level:  types.LevelBoot,
	}
}

// Run loops between the two live states until ctx ends. The first burst
// starts unconditionally: a device powering up in daylight animates one
// cycle and the first poll parks it.
func (c *Controller) Run(ctx context.Context) {
	c.transition(types.LevelAnimating)
	for ctx.Err() == nil {
		switch c.level {
		case types.LevelAnimating:
			c.animate(ctx)
		case types.LevelAwaitNight:
			c.awaitNight(ctx)
		}
	}
	c.transition(types.LevelStopped)
}

// animate runs one burst: up to budget cycles, polling the sensor after
// every cycle. Daylight ends the burst early; so does the budget. Either
// way the next state is AWAIT_NIGHT.
func (c *Controller) animate(ctx context.Context) {
	for i := 0; i < c.budget; i++ {
		if ctx.Err() != nil {
			return
		}
		target, idle := c.engine.RunCycle(ctx)
		if c.ev != nil {
			c.ev.CycleDone(i, target, idle)
		}
		if ctx.Err() != nil {
			return
		}
		night := c.sensor.IsNight(ctx)
		if c.ev != nil {
			c.ev.SensorRead(night)
		}
		if !night {
			break
		}
	}
	c.transition(types.LevelAwaitNight)
}

// awaitNight sleeps the long step and polls until night comes back. The
// sleep comes first, so a burst that ended on daylight still gets one
// fresh confirmation poll here before animating again.
func (c *Controller) awaitNight(ctx context.Context) {
	for {
		if !c.sched.Sleep(ctx, power.Sleep8s) {
			return
		}
		night := c.sensor.IsNight(ctx)
		if c.ev != nil {
			c.ev.SensorRead(night)
		}
		if night {
			c.transition(types.LevelAnimating)
			return
		}
	}
}

func (c *Controller) transition(to types.Level) {
	if c.level == to {
		return
	}
	from := c.level
	c.level = to
	if c.ev != nil {
		c.ev.StateChanged(from, to)
	}
}
