package hal

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is the board lamp a HAL exposes as its PinLED output pin.
type LED interface {
	High()
	Low()
}

// Time provides a base tick stream.
//
// One tick is one millisecond; sequence numbers start at 1 and only grow.
type Time interface {
	Ticks() <-chan uint64
}

// Pin names every HAL implementation exposes.
const (
	PinLED    = "LED"
	PinButton = "BUTTON"
)

// HAL provides the only contact point between the runtime and the board.
type HAL interface {
	Logger() Logger
	GPIO() GPIO
	Time() Time
}
