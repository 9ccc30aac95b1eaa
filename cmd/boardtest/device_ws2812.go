//go:build ws2812

package main

// deviceID selects the compiled-in profile for this build.
const deviceID = "pico-ws2812"
