package gpio

import (
	"fmt"

	"ember/hal"
	"ember/kernel"
)

// EdgeInput is an input line bound to a kernel IRQ on its rising edge.
//
// At most one edge is remembered between waits; faster presses coalesce.
type EdgeInput struct {
	pin hal.EdgePin
	irq *kernel.IRQ
}

// NewEdgeInput configures pin as an input with pull and routes its rising
// edges to a fresh IRQ on k.
func NewEdgeInput(k *kernel.Kernel, pin hal.EdgePin, pull hal.GPIOPull) (*EdgeInput, error) {
	if pin == nil {
		return nil, fmt.Errorf("gpio: edge input: nil pin")
	}
	if pin.Caps()&hal.GPIOCapInterrupt == 0 {
		return nil, fmt.Errorf("gpio: edge input %s: interrupts unsupported", pin.Name())
	}
	if err := pin.Configure(hal.GPIOModeInput, pull); err != nil {
		return nil, fmt.Errorf("gpio: edge input %s: %w", pin.Name(), err)
	}

	irq, err := k.NewIRQ(pin.Name())
	if err != nil {
		return nil, fmt.Errorf("gpio: edge input %s: %w", pin.Name(), err)
	}
	if err := pin.SetEdgeHandler(hal.GPIOEdgeRising, irq.Raise); err != nil {
		return nil, fmt.Errorf("gpio: edge input %s: %w", pin.Name(), err)
	}
	return &EdgeInput{pin: pin, irq: irq}, nil
}

// WaitRisingEdge suspends the calling task until the next rising edge.
func (in *EdgeInput) WaitRisingEdge(ctx *kernel.Context) {
	ctx.WaitIRQ(in.irq)
}

// IRQ returns the interrupt line behind the input.
func (in *EdgeInput) IRQ() *kernel.IRQ { return in.irq }

// Name returns the pin name.
func (in *EdgeInput) Name() string { return in.pin.Name() }
