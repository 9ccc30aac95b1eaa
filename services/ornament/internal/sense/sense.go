// Package sense classifies ambient light as day or night using an LED as a
// photodiode. The junction is charged like a small capacitor, floated, and
// given a fixed window to discharge through photocurrent. Bright light
// collapses the charge quickly; in the dark it holds.
package sense

import (
	"context"

	"blinker-go/services/ornament/hw"
	"blinker-go/services/ornament/internal/power"
)

// Sleeper is the slice of the power scheduler the sensor needs.
type Sleeper interface {
	Sleep(ctx context.Context, d power.SleepDuration) bool
	Wake()
	ClearPending()
}

// Sensor reads day/night from one reverse-driven LED channel.
type Sensor struct {
	pin   hw.WakePin
	sched Sleeper
}

func New(pin hw.WakePin, sched Sleeper) *Sensor {
	return &Sensor{pin: pin, sched: sched}
}

// IsNight runs one full measurement and reports true for night. Nothing is
// cached; every call charges, floats and samples again. A discharge that
// has not completed inside the window classifies as night, so failure
// leans dark. The falling edge doubles as a wake source to cut the window
// short in daylight; the level sampled afterwards is the verdict either
// way. On return the channel is an output driving low and the wake source
// is disarmed.
func (s *Sensor) IsNight(ctx context.Context) bool {
	// Charge the junction.
	_ = s.pin.ConfigureOutput(true)
	s.sched.Sleep(ctx, power.Sleep15ms)

	// Float it and watch for the discharge edge. Arm before clearing so a
	// pre-armed stale event cannot end the window on its own.
	_ = s.pin.ConfigureInput(hw.PullNone)
	_ = s.pin.SetWake(hw.EdgeFalling, s.sched.Wake)
	s.sched.ClearPending()
	s.sched.Sleep(ctx, power.Sleep250ms)

	night := s.pin.Get()

	_ = s.pin.ClearWake()
	_ = s.pin.ConfigureOutput(false)
	return night
}
