// cmd/boardtest/main.go
package main

import (
	"context"
	"time"

	"blinker-go/bus"
	"blinker-go/services/config"
	"blinker-go/services/ornament"
	"blinker-go/services/ornament/hw"
	"blinker-go/services/ornament/platform"
	"blinker-go/x/fmtx"
	"blinker-go/x/ramp"
)

// ---------- Configuration ----------

const (
	// Sweep timing: slow enough to eyeball each channel.
	sweepMs    = 600
	sweepSteps = 64

	// Bus stage deadlines.
	stateTimeout  = 5 * time.Second
	cycleTimeout  = 15 * time.Second
	sensorTimeout = 15 * time.Second
	statusTimeout = 2 * time.Second
)

// ---------- Minimal output with a tally ----------

type out struct {
	passes, fails int
}

func (o *out) println(a ...any) {
	line := fmtx.Sprint(a...) + "\n"
	fmtx.Print(line)
}

func (o *out) pass(what string) {
	o.passes++
	fmtx.Printf("[PASS] %s\n", what)
}

func (o *out) fail(what, detail string) {
	o.fails++
	fmtx.Printf("[FAIL] %s: %s\n", what, detail)
}

func (o *out) summary() {
	fmtx.Printf("boardtest done: %d passed, %d failed\n", o.passes, o.fails)
}

// ---------- Main ----------

func main() {
	time.Sleep(3 * time.Second) // let the serial console attach
	platform.InitConsole(115200)

	o := &out{}
	o.println("=== boardtest:", deviceID, "===")

	p, ok := config.ProfileLookup(deviceID)
	if !ok {
		o.fail("profile", "no profile for "+deviceID)
		o.summary()
		return
	}

	factory, ok := hw.FindBoard(p.Board)
	if !ok {
		o.fail("board", "no board "+p.Board)
		o.summary()
		return
	}
	board, err := factory(hw.BoardRequest{SensePin: p.SensePin, BankPins: p.BankPins, Bank: string(p.Bank)})
	if err != nil {
		o.fail("board", err.Error())
		o.summary()
		return
	}
	o.pass("board " + board.Name + " resolved")

	sweepBank(o, board.Bank)
	senseCheck(o, board.Sense)
	busCheck(o)

	o.summary()
	flashVerdict(board.Bank, o.fails == 0)
}

// sweepBank ramps each channel up and back down in turn.
func sweepBank(o *out, bank hw.PWMBank) {
	tick := func(d time.Duration) bool {
		time.Sleep(d)
		return true
	}

	bank.PowerOn()
	for ch := 0; ch < hw.NumChannels; ch++ {
		o.println("sweep channel", ch)
		set := func(level uint8) { bank.SetDuty(ch, level) }
		ramp.Sweep(0, 255, sweepMs, sweepSteps, tick, set)
		ramp.Sweep(255, 0, sweepMs, sweepSteps, tick, set)
		bank.SetDuty(ch, 0)
	}
	bank.PowerOff()
	o.pass("bank sweep completed")
}

// senseCheck drives the sense pin, reads it back, then floats it through
// one measurement window. The ambient verdict is informational; it depends
// on the light over the bench.
func senseCheck(o *out, pin hw.WakePin) {
	if err := pin.ConfigureOutput(true); err != nil {
		o.fail("sense drive", err.Error())
		return
	}
	time.Sleep(15 * time.Millisecond)
	if !pin.Get() {
		o.fail("sense readback", "driven high but reads low")
	} else {
		o.pass("sense pin drives and reads back")
	}

	if err := pin.ConfigureInput(hw.PullNone); err != nil {
		o.fail("sense float", err.Error())
		return
	}
	time.Sleep(250 * time.Millisecond)
	if pin.Get() {
		o.println("[info] sense held charge: looks dark")
	} else {
		o.println("[info] sense bled charge: looks bright")
	}
	_ = pin.ConfigureOutput(false)
}

// busCheck boots the full service stack and watches it from the outside.
func busCheck(o *out) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = context.WithValue(ctx, config.CtxDeviceKey, deviceID)

	b := bus.NewBus(16, "+", "#")
	ui := b.NewConnection("ui")

	stateSub := ui.Subscribe(bus.T("ornament", "state"))
	cycleSub := ui.Subscribe(bus.T("ornament", "event", "cycle"))
	sensorSub := ui.Subscribe(bus.T("ornament", "event", "sensor"))
	defer ui.Unsubscribe(stateSub)
	defer ui.Unsubscribe(cycleSub)
	defer ui.Unsubscribe(sensorSub)

	orn := &ornament.Service{}
	orn.Start(ctx, b.NewConnection("ornament"))
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	if _, ok := waitMsg(stateSub, stateTimeout); ok {
		o.pass("ornament/state observed")
	} else {
		o.fail("state", "no ornament/state within timeout")
	}

	if _, ok := waitMsg(cycleSub, cycleTimeout); ok {
		o.pass("cycle event observed")
	} else {
		o.fail("cycle", "no cycle event within timeout")
	}

	if _, ok := waitMsg(sensorSub, sensorTimeout); ok {
		o.pass("sensor event observed")
	} else {
		o.fail("sensor", "no sensor event within timeout")
	}

	rctx, rcancel := context.WithTimeout(ctx, statusTimeout)
	defer rcancel()
	reply, err := ui.RequestWait(rctx, ui.NewMessage(bus.T("ornament", "control", "status"), nil, false))
	if err != nil {
		o.fail("status", err.Error())
		return
	}
	o.pass("status reply on " + reply.Topic.String())
}

func waitMsg(sub *bus.Subscription, d time.Duration) (*bus.Message, bool) {
	select {
	case m, ok := <-sub.Channel():
		return m, ok
	case <-time.After(d):
		return nil, false
	}
}

// flashVerdict blinks channel 0: double short for pass, single long for fail.
func flashVerdict(bank hw.PWMBank, pass bool) {
	bank.PowerOn()
	if pass {
		for i := 0; i < 2; i++ {
			bank.SetDuty(0, 255)
			time.Sleep(120 * time.Millisecond)
			bank.SetDuty(0, 0)
			time.Sleep(200 * time.Millisecond)
		}
	} else {
		bank.SetDuty(0, 255)
		time.Sleep(400 * time.Millisecond)
		bank.SetDuty(0, 0)
		time.Sleep(200 * time.Millisecond)
	}
	bank.PowerOff()
}
