package hw

import (
	"sync"

	"blinker-go/x/fmtx"
)

// BoardFactory constructs a target's pins and PWM bank.
type BoardFactory func(req BoardRequest) (Board, error)

var (
	muBoards sync.RWMutex
	boards   = map[string]BoardFactory{}
)

// RegisterBoard installs a factory for a named board target.
// It panics on duplicate registration to catch mistakes at start-up.
func RegisterBoard(name string, f BoardFactory) {
	muBoards.Lock()
	defer muBoards.Unlock()
	if name == "" {
		panic("hw: empty board name")
	}
	if _, exists := boards[name]; exists {
		panic(fmtx.Sprintf("hw: board already registered: %q", name))
	}
	boards[name] = f
}

// FindBoard looks up a registered board factory by name.
func FindBoard(name string) (BoardFactory, bool) {
	muBoards.RLock()
	defer muBoards.RUnlock()
	f, ok := boards[name]
	return f, ok
}
