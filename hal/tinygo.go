//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

// Board wiring: LED on the on-board LED pin, push button on GP15 to 3V3.
const buttonPin = machine.GP15

type tinyGoHAL struct {
	logger *uartLogger
	gpio   GPIO
	t      *tickStream
}

// New returns a Pico 2 (RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	button := newIRQPin(PinButton, buttonPin)
	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		gpio:   newVirtualGPIO([]GPIOPin{newLEDPin(PinLED, led), button}),
		t:      newTickStream(button.forward).start(time.Millisecond),
	}
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) GPIO() GPIO     { return h.gpio }
func (h *tinyGoHAL) Time() Time     { return h.t }
