package types

// ------------------------
// Ornament state (retained)
// ------------------------

// Level is the controller's externally visible state.
type Level string

const (
	LevelBoot       Level = "boot"
	LevelAnimating  Level = "animating"
	LevelAwaitNight Level = "await_night"
	LevelStopped    Level = "stopped"
)

// OrnamentState is published retained at ornament/state.
type OrnamentState struct {
	Level  Level  `json:"level"`
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// ------------------------
// Events (not retained)
// ------------------------

// StateChange is published at ornament/event/state on every transition.
type StateChange struct {
	From Level `json:"from"`
	To   Level `json:"to"`
	TS   int64 `json:"ts_ms"`
}

// CycleEvent is published at ornament/event/cycle once per animation cycle.
// Idle cycles carry a zero target.
type CycleEvent struct {
	Index  int      `json:"index"` // 0-based within the burst
	Target [3]uint8 `json:"target"`
	Idle   bool     `json:"idle,omitempty"`
	TS     int64    `json:"ts_ms"`
}

// SensorReading is published at ornament/event/sensor after each light poll.
type SensorReading struct {
	Night bool  `json:"night"`
	TS    int64 `json:"ts_ms"`
}

// ------------------------
// Control (request/reply)
// ------------------------

// StatusRequest is sent to ornament/control/status. No fields today.
type StatusRequest struct{}

// StatusReply is the typed answer to a status request.
type StatusReply struct {
	OK        bool   `json:"ok"`
	Level     Level  `json:"level"`
	Cycle     int    `json:"cycle"` // cycles completed in the current burst
	Night     bool   `json:"night"` // last sensor verdict
	WakeDrops uint32 `json:"wake_drops,omitempty"`
}

// ------------------------
// Board profiles (compiled into services/config)
// ------------------------

// StepKind selects the ramp pacing strategy.
type StepKind string

const (
	StepSpin   StepKind = "spin"   // calibrated busy-wait, for low-clock parts
	StepTicked StepKind = "ticked" // timer-paced ~1 ms waits
)

// BankKind selects the PWM bank backend.
type BankKind string

const (
	BankGPIO   BankKind = "gpio"
	BankWS2812 BankKind = "ws2812"
)

// Profile is one compiled-in board profile.
type Profile struct {
	Name        string   `json:"name"`         // "lowclock" | "standard"
	ClockHz     uint32   `json:"clock_hz"`     // nominal core clock
	Step        StepKind `json:"step"`         // ramp pacing strategy
	IdleMs      uint32   `json:"idle_ms"`      // idle-cycle sleep
	CycleBudget int      `json:"cycle_budget"` // animation cycles per burst
	Board       string   `json:"board"`        // hw board registry name
	Bank        BankKind `json:"bank"`
	SensePin    int      `json:"sense_pin"`
	BankPins    [3]int   `json:"bank_pins"`
	BeaconMs    uint32   `json:"beacon_ms"` // 0 => beacon disabled
}

// ------------------------
// Configuration (retained)
// ------------------------

// OrnamentConfig is supplied on topic "config/ornament".
type OrnamentConfig struct {
	Profile     Profile `json:"profile"`
	CycleBudget int     `json:"cycle_budget,omitempty"` // 0 => Profile.CycleBudget
}

// BeaconConfig is supplied on topic "config/beacon".
type BeaconConfig struct {
	IntervalMs uint32 `json:"interval_ms"` // 0 => beacon disabled
}
