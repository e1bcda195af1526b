//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// HostConfig selects how the host board is simulated.
type HostConfig struct {
	// PressEvery replaces the manual button with a periodic press signal.
	PressEvery time.Duration
	// Out receives log lines. Defaults to stdout.
	Out io.Writer
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	button *VirtualPin
	polled []*PolledEdgePin
	fb     *hostFramebuffer
	t      *hostTime
}

// New returns a host HAL implementation with a manual button.
func New() HAL {
	return newHostHAL(HostConfig{})
}

func newHostHAL(cfg HostConfig) *hostHAL {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := &hostLogger{w: out}
	led := &hostLED{logger: logger}
	h := &hostHAL{
		logger: logger,
		led:    led,
		fb:     newHostFramebuffer(160, 96),
		t:      newHostTime(),
	}

	pins := []GPIOPin{newLEDPin(PinLED, led)}
	if cfg.PressEvery > 0 {
		// Held high for a quarter period, like a finger on the button.
		sig := NewPolledEdgePin(newSignalPin(PinButton, cfg.PressEvery, cfg.PressEvery/4))
		h.polled = append(h.polled, sig)
		pins = append(pins, sig)
	} else {
		h.button = NewVirtualPin(PinButton, GPIOCapInput|GPIOCapPullUp|GPIOCapPullDown|GPIOCapInterrupt)
		pins = append(pins, h.button)
	}
	h.gpio = newVirtualGPIO(pins)
	return h
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) GPIO() GPIO     { return h.gpio }
func (h *hostHAL) Time() Time     { return h.t }

// pollPins samples every polled edge source once.
func (h *hostHAL) pollPins() {
	for _, p := range h.polled {
		p.Poll()
	}
}

// setButton drives the manual button, if there is one.
func (h *hostHAL) setButton(pressed bool) {
	if h.button != nil {
		h.button.Drive(pressed)
	}
}

func (h *hostHAL) buttonLevel() bool {
	if h.button != nil {
		return h.button.Level()
	}
	for _, p := range h.polled {
		if p.Name() == PinButton {
			level, _ := p.Read()
			return level
		}
	}
	return false
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}

func (l *hostLED) isOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
