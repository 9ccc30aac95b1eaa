package hw

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Edge selection for wake sources.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// Pin is the minimal GPIO surface the ornament needs.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// WakePin extends Pin with an edge-triggered wake source. The handler runs
// in interrupt context on MCU targets: no allocation, no blocking.
type WakePin interface {
	Pin
	SetWake(edge Edge, handler func()) error
	ClearWake() error
}

// Util
func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ---- PWM abstractions ----

// NumChannels is the size of the LED bank (red, green, blue).
const NumChannels = 3

// PWMBank drives the three LED channels. PowerOn/PowerOff gate the
// underlying peripheral so idle time costs nothing; SetDuty while powered
// off is allowed and takes effect on the next PowerOn.
type PWMBank interface {
	PowerOn()
	PowerOff()
	SetDuty(ch int, duty uint8)
}

// ---- Board ----

// Board bundles what the controller needs from a target.
type Board struct {
	Name  string
	Sense WakePin
	Bank  PWMBank
}

// BoardRequest carries the configured wiring into a board factory.
// Mirrors the profile schema without pulling it in here.
type BoardRequest struct {
	SensePin int
	BankPins [3]int
	Bank     string // "gpio" | "ws2812"; factories may ignore it
}
