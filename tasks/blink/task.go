package blink

import (
	"ember/driver/gpio"
	"ember/kernel"
)

type state uint8

const (
	stateStart state = iota
	stateWaitTick
)

// Gate reports whether blinking is enabled.
type Gate interface {
	Load() bool
}

// Task toggles an output on every tick while its gate is open.
type Task struct {
	out    *gpio.Output
	ticker *kernel.Ticker
	gate   Gate

	state   state
	ticks   uint64
	toggles uint64
}

// New returns a blink task. A nil gate blinks unconditionally.
func New(out *gpio.Output, ticker *kernel.Ticker, gate Gate) *Task {
	return &Task{out: out, ticker: ticker, gate: gate}
}

// Step toggles on every tick the gate allows. Without a gate the output is
// also toggled once before the first wait.
func (t *Task) Step(ctx *kernel.Context) {
	switch t.state {
	case stateStart:
		if t.gate == nil {
			t.toggle()
		}
	case stateWaitTick:
		t.ticks++
		if t.gate == nil || t.gate.Load() {
			t.toggle()
		}
	}
	t.state = stateWaitTick
	t.ticker.Next(ctx)
}

func (t *Task) toggle() {
	t.out.Toggle()
	t.toggles++
}

// Ticks returns the number of tick resumptions.
func (t *Task) Ticks() uint64 { return t.ticks }

// Toggles returns the number of output toggles.
func (t *Task) Toggles() uint64 { return t.toggles }
