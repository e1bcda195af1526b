//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"sync/atomic"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// irqPin is a machine pin whose interrupt only sets an atomic latch.
type irqPin struct {
	name    string
	pin     machine.Pin
	pending atomic.Bool
	handler atomic.Value // func()
}

func newIRQPin(name string, pin machine.Pin) *irqPin {
	return &irqPin{name: name, pin: pin}
}

func (p *irqPin) Name() string { return p.name }

func (p *irqPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapPullUp | GPIOCapPullDown | GPIOCapInterrupt
}

func (p *irqPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if err := checkConfig(p.name, p.Caps(), mode, pull); err != nil {
		return err
	}
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch pull {
	case GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	return nil
}

func (p *irqPin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *irqPin) Write(level bool) error {
	_ = level
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}

func (p *irqPin) SetEdgeHandler(edge GPIOEdge, fn func()) error {
	var change machine.PinChange
	if edge&GPIOEdgeRising != 0 {
		change |= machine.PinRising
	}
	if edge&GPIOEdgeFalling != 0 {
		change |= machine.PinFalling
	}
	if change == 0 {
		return fmt.Errorf("gpio: pin %s: invalid edge", p.name)
	}
	p.handler.Store(fn)
	return p.pin.SetInterrupt(change, func(machine.Pin) {
		p.pending.Store(true)
	})
}

func (p *irqPin) forward() {
	if !p.pending.Swap(false) {
		return
	}
	if fn, ok := p.handler.Load().(func()); ok && fn != nil {
		fn()
	}
}
