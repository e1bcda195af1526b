package hal

import "time"

// tickStream is the free-running tick source of the TinyGo HALs. Before each
// tick it runs its pre-tick hooks, which forward latched pin edges and poll
// pins, so edge handlers run on the pump goroutine and never in an ISR.
type tickStream struct {
	ch  chan uint64
	seq uint64
	pre []func()
}

func newTickStream(pre ...func()) *tickStream {
	return &tickStream{ch: make(chan uint64, 16), pre: pre}
}

func (t *tickStream) Ticks() <-chan uint64 { return t.ch }

// start pumps one tick per period on a new goroutine.
func (t *tickStream) start(period time.Duration) *tickStream {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		t.run(ticker.C)
	}()
	return t
}

// run emits one tick per value received on c until c is closed.
func (t *tickStream) run(c <-chan time.Time) {
	for range c {
		t.tick()
	}
}

// tick drops the sequence number when the consumer lags; the next one that
// fits still carries the current tick.
func (t *tickStream) tick() {
	for _, fn := range t.pre {
		fn()
	}
	t.seq++
	select {
	case t.ch <- t.seq:
	default:
	}
}
