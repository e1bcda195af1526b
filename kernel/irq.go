package kernel

import "sync/atomic"

// IRQ is an interrupt line with a single pending slot.
//
// Raise latches one event; raises that arrive while an event is already
// pending are coalesced into it. A task consumes the event by resuming from
// Context.WaitIRQ.
type IRQ struct {
	_ [0]func() // prevent accidental copying.

	k    *Kernel
	name string

	pending   atomic.Bool
	raised    atomic.Uint64
	coalesced atomic.Uint64
}

// Name returns the line name given to Kernel.NewIRQ.
func (q *IRQ) Name() string { return q.name }

// Raise records an event and wakes the executor. Safe from any goroutine.
func (q *IRQ) Raise() {
	q.raised.Add(1)
	if q.pending.Swap(true) {
		q.coalesced.Add(1)
	}
	q.k.notify()
}

// Pending reports whether an event is latched and not yet consumed.
func (q *IRQ) Pending() bool { return q.pending.Load() }

// Raised returns the number of Raise calls.
func (q *IRQ) Raised() uint64 { return q.raised.Load() }

// Coalesced returns the number of raises folded into an already pending event.
func (q *IRQ) Coalesced() uint64 { return q.coalesced.Load() }

func (q *IRQ) take() bool {
	return q.pending.CompareAndSwap(true, false)
}
