package config

import "blinker-go/types"

// -----------------------------------------------------------------------------
// Compiled-in profiles
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: the full profile for that device
//
// Two clock classes exist. "lowclock" is for parts running on a ~128 kHz
// internal oscillator where timers are too coarse to pace a ramp, so steps
// are spun. "standard" is for MHz-class parts with working timers.
// -----------------------------------------------------------------------------

var deviceProfiles = map[string]types.Profile{
	// Host simulation. Pin numbers are symbolic on the fake board; the
	// layout mirrors the low-pin-count wiring the ornament ships with
	// (sense on 2, bank on 0/1/4).
	"host": {
		Name:        "standard",
		ClockHz:     125_000_000,
		Step:        types.StepTicked,
		IdleMs:      500,
		CycleBudget: 60,
		Board:       "host",
		Bank:        types.BankGPIO,
		SensePin:    2,
		BankPins:    [3]int{0, 1, 4},
		BeaconMs:    5000,
	},

	// Host simulation of the coin-cell build: spun steps, longer idle,
	// no beacon.
	"host-lowclock": {
		Name:        "lowclock",
		ClockHz:     128_000,
		Step:        types.StepSpin,
		IdleMs:      1000,
		CycleBudget: 60,
		Board:       "host",
		Bank:        types.BankGPIO,
		SensePin:    2,
		BankPins:    [3]int{0, 1, 4},
		BeaconMs:    0,
	},

	// Pico with three discrete LEDs on PWM pins. GP0/GP1 carry the UART
	// console, so the bank sits on GP2/GP3/GP4 and sense moves to GP22.
	"pico": {
		Name:        "standard",
		ClockHz:     125_000_000,
		Step:        types.StepTicked,
		IdleMs:      500,
		CycleBudget: 60,
		Board:       "pico",
		Bank:        types.BankGPIO,
		SensePin:    22,
		BankPins:    [3]int{2, 3, 4},
		BeaconMs:    2000,
	},

	// Pico driving a single WS2812 pixel; only BankPins[0] (the data
	// line) is meaningful.
	"pico-ws2812": {
		Name:        "standard",
		ClockHz:     125_000_000,
		Step:        types.StepTicked,
		IdleMs:      500,
		CycleBudget: 60,
		Board:       "pico-ws2812",
		Bank:        types.BankWS2812,
		SensePin:    22,
		BankPins:    [3]int{16, 0, 0},
		BeaconMs:    2000,
	},
}
