// Package gpio adapts HAL pins to the kernel: a toggling output actuator and
// an edge-triggered input that suspends tasks until the next rising edge.
package gpio

import (
	"fmt"

	"ember/hal"
)

// Level is the logical level of a line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// FaultError reports a pin that stopped responding.
//
// Output panics with it; the kernel turns the panic into a halt.
type FaultError struct {
	Pin string
	Op  string
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("gpio: pin %s: %s: %v", e.Pin, e.Op, e.Err)
}

func (e *FaultError) Unwrap() error { return e.Err }

// Output drives a pin and remembers its logical level.
//
// It is owned by a single task and is not safe for concurrent use.
type Output struct {
	pin   hal.GPIOPin
	level Level
}

// NewOutput configures pin as an output and drives the initial level.
func NewOutput(pin hal.GPIOPin, initial Level) (*Output, error) {
	if pin == nil {
		return nil, fmt.Errorf("gpio: output: nil pin")
	}
	if err := pin.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err != nil {
		return nil, fmt.Errorf("gpio: output %s: %w", pin.Name(), err)
	}
	if err := pin.Write(bool(initial)); err != nil {
		return nil, fmt.Errorf("gpio: output %s: %w", pin.Name(), err)
	}
	return &Output{pin: pin, level: initial}, nil
}

// Toggle flips the level and applies it to the pin before returning.
func (o *Output) Toggle() Level {
	next := !o.level
	if err := o.pin.Write(bool(next)); err != nil {
		panic(&FaultError{Pin: o.pin.Name(), Op: "write", Err: err})
	}
	o.level = next
	return next
}

// Level returns the last applied level.
func (o *Output) Level() Level { return o.level }

// Name returns the pin name.
func (o *Output) Name() string { return o.pin.Name() }
