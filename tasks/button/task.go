package button

import (
	"fmt"

	"ember/driver/gpio"
	"ember/hal"
	"ember/kernel"
)

type state uint8

const (
	stateStart state = iota
	stateWaitEdge
)

// Toggler flips a shared value and returns the new one.
type Toggler interface {
	Toggle() bool
}

// Task flips a shared flag on every rising edge of its input.
type Task struct {
	in   *gpio.EdgeInput
	flag Toggler
	log  hal.Logger

	state   state
	presses uint64
}

// New returns a button task. log may be nil.
func New(in *gpio.EdgeInput, flag Toggler, log hal.Logger) *Task {
	return &Task{in: in, flag: flag, log: log}
}

func (t *Task) Step(ctx *kernel.Context) {
	if t.state == stateWaitEdge {
		t.presses++
		active := t.flag.Toggle()
		if t.log != nil {
			t.log.WriteLineString(fmt.Sprintf("button: active=%v", active))
		}
	}
	t.state = stateWaitEdge
	t.in.WaitRisingEdge(ctx)
}

// Presses returns the number of edge resumptions.
func (t *Task) Presses() uint64 { return t.presses }
