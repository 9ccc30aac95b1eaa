package ramp

// Step applies the current duty levels, one per channel.
type Step func(levels [3]uint8)

// Tick paces one ramp step and reports whether to continue (false => cancelled).
type Tick func() bool

// StepsPerSide is the iteration count of each ramp direction. One 16-bit
// accumulator per channel gains (or loses) its target amplitude every step,
// so after a full side the high byte sits exactly at the target (or at zero).
const StepsPerSide = 256

// Triangle runs a rise-then-fall accumulator ramp toward target: add each
// channel's amplitude into its accumulator, emit the high bytes, pace, and
// after StepsPerSide steps mirror the whole thing back down. Low amplitudes
// produce a sparser but still monotonic duty progression. Cancellation via
// tick returns immediately, leaving the last emitted levels in place.
func Triangle(target [3]uint8, tick Tick, set Step) {
	var acc [3]uint16
	for i := 0; i < StepsPerSide; i++ {
		for ch := range acc {
			acc[ch] += uint16(target[ch])
		}
		set(duties(acc))
		if !tick() {
			return
		}
	}
	for i := 0; i < StepsPerSide; i++ {
		for ch := range acc {
			acc[ch] -= uint16(target[ch])
		}
		set(duties(acc))
		if !tick() {
			return
		}
	}
}

func duties(acc [3]uint16) [3]uint8 {
	return [3]uint8{uint8(acc[0] >> 8), uint8(acc[1] >> 8), uint8(acc[2] >> 8)}
}
