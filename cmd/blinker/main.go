package main

import (
	"context"
	"runtime"
	"time"

	"blinker-go/bus"
	"blinker-go/services/beacon"
	"blinker-go/services/config"
	"blinker-go/services/ornament"
	"blinker-go/services/ornament/platform"
)

func main() {
	time.Sleep(3 * time.Second) // let the serial console attach
	platform.InitConsole(115200)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	println("[main] bootstrapping bus …")
	b := bus.NewBus(4)

	println("[main] subscribing to ornament/# for diagnostics …")
	monConn := b.NewConnection("monitor")
	mon := monConn.Subscribe(bus.T("ornament", "#"))
	go func() {
		for m := range mon.Channel() {
			println("[monitor] <-", m.Topic.String())
		}
	}()

	println("[main] starting services …")
	orn := &ornament.Service{}
	orn.Start(ctx, b.NewConnection("ornament"))

	bcn := &beacon.Service{}
	bcn.Start(ctx, b.NewConnection("beacon"))

	// Config goes last; consumers pick up their retained sections whenever
	// they subscribe, so start order does not matter.
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	for {
		printMem()
		time.Sleep(30 * time.Second)
	}
}

// printMem prints a compact snapshot of runtime memory stats. Uses builtin
// println to avoid fmt overhead/allocations.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"heapSys:", uint32(ms.HeapSys),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
