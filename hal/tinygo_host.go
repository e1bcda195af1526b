//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
	"time"
)

// The button of a TinyGo-on-host build has nobody to press it: it is a
// scripted signal, pressed for 250ms every two seconds.
const (
	tinyGoHostPressEvery = 2 * time.Second
	tinyGoHostPressHold  = 250 * time.Millisecond
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	gpio   GPIO
	t      *tickStream
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping.
func New() HAL {
	l := &tinyGoHostLogger{}
	led := &tinyGoHostLED{logger: l}
	button := NewPolledEdgePin(newSignalPin(PinButton, tinyGoHostPressEvery, tinyGoHostPressHold))
	return &tinyGoHostHAL{
		logger: l,
		gpio:   newVirtualGPIO([]GPIOPin{newLEDPin(PinLED, led), button}),
		t:      newTickStream(button.Poll).start(time.Millisecond),
	}
}

func (h *tinyGoHostHAL) Logger() Logger { return h.logger }
func (h *tinyGoHostHAL) GPIO() GPIO     { return h.gpio }
func (h *tinyGoHostHAL) Time() Time     { return h.t }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}
