//go:build !rp2040

// Package platform supplies board implementations behind the hw
// abstractions: deterministic fakes on host builds, machine-backed pins
// and PWM on MCU builds. Boards register themselves with hw.RegisterBoard
// on package init; importers pick one by name.
package platform

import (
	"sync"
	"time"

	"blinker-go/services/ornament/hw"
)

// BoardName is the board this build registers by default.
const BoardName = "host"

// Ambient is the simulated light shared by boards built from this
// package's factory. Tests that build their own pins attach private
// lights instead.
var Ambient = &SimLight{}

func init() {
	hw.RegisterBoard(BoardName, func(req hw.BoardRequest) (hw.Board, error) {
		sense := NewFakePin(req.SensePin)
		sense.AttachLight(Ambient, 2*time.Millisecond)
		return hw.Board{Name: BoardName, Sense: sense, Bank: &FakeBank{}}, nil
	})
}

// InitConsole is a no-op on host builds; output already goes to stdout.
func InitConsole(baud uint32) {}

// ----------------------------- Ambient light ---------------------------------

// SimLight is a day/night flag shared between fake pins and whoever plays
// the sun.
type SimLight struct {
	mu     sync.Mutex
	bright bool
}

func (l *SimLight) SetBright(b bool) {
	l.mu.Lock()
	l.bright = b
	l.mu.Unlock()
}

func (l *SimLight) Bright() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bright
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements hw.WakePin for host builds. Level changes through Set
// fire armed wake callbacks the way a real edge IRQ would. A pin attached
// to a bright SimLight discharges on its own a little while after it is
// floated, imitating photocurrent; in the dark it holds its level.
type FakePin struct {
	mu       sync.Mutex
	number   int
	level    bool
	modeOut  bool
	wakeEdge hw.Edge
	wakeFunc func()

	light          *SimLight
	dischargeAfter time.Duration
	discharge      *time.Timer
}

func NewFakePin(number int) *FakePin { return &FakePin{number: number} }

// AttachLight ties the pin's float behaviour to a simulated light: while
// the light is bright, a floating pin discharges after d.
func (p *FakePin) AttachLight(l *SimLight, d time.Duration) {
	p.mu.Lock()
	p.light = l
	p.dischargeAfter = d
	p.mu.Unlock()
}

func (p *FakePin) ConfigureInput(_ hw.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	l, d := p.light, p.dischargeAfter
	if p.discharge != nil {
		p.discharge.Stop()
		p.discharge = nil
	}
	if l != nil && l.Bright() {
		p.discharge = time.AfterFunc(d, p.simDischarge)
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	if p.discharge != nil {
		p.discharge.Stop()
		p.discharge = nil
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) { p.drive(level) }

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

// ModeOutput reports whether the pin is currently an output. Test hook.
func (p *FakePin) ModeOutput() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modeOut
}

func (p *FakePin) SetWake(edge hw.Edge, handler func()) error {
	p.mu.Lock()
	p.wakeEdge = edge
	p.wakeFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearWake() error {
	p.mu.Lock()
	p.wakeEdge = hw.EdgeNone
	p.wakeFunc = nil
	p.mu.Unlock()
	return nil
}

// simDischarge drops a still-floating pin and lets drive fire the edge.
func (p *FakePin) simDischarge() {
	p.mu.Lock()
	if p.modeOut {
		p.mu.Unlock()
		return // reconfigured before the charge bled off
	}
	p.mu.Unlock()
	p.drive(false)
}

func (p *FakePin) drive(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	fire := p.wakeFunc
	want := wakeWanted(p.wakeEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && fire != nil {
		fire() // ISR-style callback
	}
}

func edgeFrom(old, new bool) hw.Edge {
	switch {
	case !old && new:
		return hw.EdgeRising
	case old && !new:
		return hw.EdgeFalling
	default:
		return hw.EdgeNone
	}
}

func wakeWanted(cfg, seen hw.Edge) bool {
	switch cfg {
	case hw.EdgeBoth:
		return seen == hw.EdgeRising || seen == hw.EdgeFalling
	default:
		return cfg == seen && seen != hw.EdgeNone
	}
}

// ----------------------------- PWM (host) ------------------------------------

// FakeBank implements hw.PWMBank and records everything for assertions.
type FakeBank struct {
	mu      sync.Mutex
	powered bool
	ons     int
	offs    int
	writes  int
	last    [3]uint8
}

func (b *FakeBank) PowerOn() {
	b.mu.Lock()
	b.powered = true
	b.ons++
	b.mu.Unlock()
}

func (b *FakeBank) PowerOff() {
	b.mu.Lock()
	b.powered = false
	b.offs++
	b.mu.Unlock()
}

func (b *FakeBank) SetDuty(ch int, duty uint8) {
	b.mu.Lock()
	if ch >= 0 && ch < hw.NumChannels {
		b.last[ch] = duty
	}
	b.writes++
	b.mu.Unlock()
}

func (b *FakeBank) Powered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.powered
}

// Counts returns power-on, power-off and duty-write totals.
func (b *FakeBank) Counts() (ons, offs, writes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ons, b.offs, b.writes
}

// Last returns the most recent duty per channel.
func (b *FakeBank) Last() [3]uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}
