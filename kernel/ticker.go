package kernel

import (
	"fmt"
	"time"
)

// Ticker produces a suspension point at a fixed cadence.
//
// Deadlines are P, 2P, 3P... from construction. Each deadline is derived from
// the previous one, not from the time the task actually resumed.
type Ticker struct {
	period uint64
	next   uint64
}

// NewTicker returns a ticker whose first deadline is one period from now.
// The period must be a positive whole number of ticks; it is never rounded.
func NewTicker(k *Kernel, period time.Duration) (*Ticker, error) {
	if period < TickDuration || period%TickDuration != 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
	}
	ticks := uint64(period / TickDuration)
	return &Ticker{period: ticks, next: k.Now() + ticks}, nil
}

// Next suspends the calling task until the pending deadline.
//
// A late resumption fires once; the following deadline is still the previous
// deadline plus one period.
func (t *Ticker) Next(ctx *Context) {
	due := t.next
	t.next += t.period
	ctx.SleepUntil(due)
}

// Deadline returns the tick the next call to Next will wait for.
func (t *Ticker) Deadline() uint64 { return t.next }

// Period returns the ticker period.
func (t *Ticker) Period() time.Duration {
	return time.Duration(t.period) * TickDuration
}
