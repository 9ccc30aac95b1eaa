//go:build ws2812

package main

// deviceID selects the compiled-in profile for this build. The ws2812
// variant drives a single pixel chain instead of three discrete LEDs.
const deviceID = "pico-ws2812"
