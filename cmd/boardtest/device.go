//go:build !ws2812

package main

import "blinker-go/services/ornament/platform"

// deviceID selects the compiled-in profile for this build.
const deviceID = platform.BoardName
