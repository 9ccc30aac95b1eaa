//go:build rp2040

package platform

import (
	"image/color"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"blinker-go/errcode"
	"blinker-go/services/ornament/hw"
	"blinker-go/x/fmtx"
	"blinker-go/x/timex"
)

// BoardName is the board this build registers by default.
const BoardName = "pico"

func init() {
	hw.RegisterBoard(BoardName, newPicoBoard)
	hw.RegisterBoard("pico-ws2812", newPicoWS2812Board)
}

// InitConsole configures UART0 and points fmtx at it so early prints reach
// the bench.
func InitConsole(baud uint32) {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	fmtx.DefaultOutput = u
}

func newPicoBoard(req hw.BoardRequest) (hw.Board, error) {
	bank, err := newGPIOBank(req.BankPins)
	if err != nil {
		return hw.Board{}, err
	}
	return hw.Board{
		Name:  BoardName,
		Sense: &picoPin{p: machine.Pin(req.SensePin), n: req.SensePin},
		Bank:  bank,
	}, nil
}

func newPicoWS2812Board(req hw.BoardRequest) (hw.Board, error) {
	return hw.Board{
		Name:  "pico-ws2812",
		Sense: &picoPin{p: machine.Pin(req.SensePin), n: req.SensePin},
		Bank:  newWS2812Bank(machine.Pin(req.BankPins[0])),
	}, nil
}

// ----------------------------- GPIO (rp2040) ---------------------------------

type picoPin struct {
	p machine.Pin
	n int
}

func (r *picoPin) ConfigureInput(pull hw.Pull) error {
	var mode machine.PinMode
	switch pull {
	case hw.PullUp:
		mode = machine.PinInputPullup
	case hw.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *picoPin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *picoPin) Set(level bool) { r.p.Set(level) }
func (r *picoPin) Get() bool      { return r.p.Get() }
func (r *picoPin) Number() int    { return r.n }

// The RP2 port provides SetInterrupt with PinChange flags.
func (r *picoPin) SetWake(edge hw.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *picoPin) ClearWake() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e hw.Edge) machine.PinChange {
	switch e {
	case hw.EdgeRising:
		return machine.PinRising
	case hw.EdgeFalling:
		return machine.PinFalling
	case hw.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}

// ----------------------------- PWM (rp2040) ----------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// gpioBank drives three discrete LED pins from their PWM slices. Only the
// core goroutine touches it, so there is no locking here.
type gpioBank struct {
	ctrl    [3]pwmCtrl
	chIdx   [3]uint8
	top     [3]uint32
	duty    [3]uint8
	powered bool
}

func newGPIOBank(pins [3]int) (*gpioBank, error) {
	b := &gpioBank{}
	for i, n := range pins {
		pin := machine.Pin(n)
		slice, err := machine.PWMPeripheral(pin)
		if err != nil {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "platform.bank", Msg: "no PWM slice for pin", Err: err}
		}
		ctrl := pwmGroupBySlice(slice)
		// ~1 kHz carrier; plenty for LED dimming and silent on small coils.
		if err := ctrl.Configure(machine.PWMConfig{Period: timex.PeriodFromHz(1000)}); err != nil {
			return nil, &errcode.E{C: errcode.Error, Op: "platform.bank", Msg: "pwm configure", Err: err}
		}
		pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
		b.ctrl[i] = ctrl
		b.chIdx[i] = uint8(n & 1) // even pin => A(0), odd pin => B(1)
		b.top[i] = ctrl.Top()
	}
	return b, nil
}

func (b *gpioBank) PowerOn() {
	b.powered = true
	for ch := range b.ctrl {
		b.apply(ch)
	}
}

// PowerOff drives every channel to zero, the closest the RP2 port gets to
// gating the peripheral like the AVR's PRR.
func (b *gpioBank) PowerOff() {
	b.powered = false
	for ch := range b.ctrl {
		b.ctrl[ch].Set(b.chIdx[ch], 0)
	}
}

func (b *gpioBank) SetDuty(ch int, duty uint8) {
	if ch < 0 || ch >= hw.NumChannels {
		return
	}
	b.duty[ch] = duty
	if b.powered {
		b.apply(ch)
	}
}

func (b *gpioBank) apply(ch int) {
	hwv := (uint32(b.duty[ch]) * b.top[ch]) / 255
	b.ctrl[ch].Set(b.chIdx[ch], hwv)
}

// ----------------------------- WS2812 bank -----------------------------------

// ws2812Bank drives a single NeoPixel for bench rigs. Duty levels map
// straight onto the 8-bit colour channels; every write while powered
// reflushes the strip, which at one pixel costs nothing.
type ws2812Bank struct {
	dev     ws2812.Device
	levels  [3]uint8
	powered bool
}

func newWS2812Bank(pin machine.Pin) *ws2812Bank {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &ws2812Bank{dev: ws2812.New(pin)}
}

func (b *ws2812Bank) PowerOn() {
	b.powered = true
	b.flush()
}

func (b *ws2812Bank) PowerOff() {
	b.powered = false
	b.levels = [3]uint8{}
	b.flush()
}

func (b *ws2812Bank) SetDuty(ch int, duty uint8) {
	if ch < 0 || ch >= hw.NumChannels {
		return
	}
	b.levels[ch] = duty
	if b.powered {
		b.flush()
	}
}

func (b *ws2812Bank) flush() {
	_ = b.dev.WriteColors([]color.RGBA{{R: b.levels[0], G: b.levels[1], B: b.levels[2], A: 0xff}})
}
